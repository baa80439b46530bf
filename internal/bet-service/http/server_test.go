package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/game-bet-platform/internal/bet-service/dto"
	"github.com/radieske/game-bet-platform/internal/bet-service/repo"
	"github.com/radieske/game-bet-platform/internal/game-service/game"
	"github.com/radieske/game-bet-platform/internal/shared/auth"
	"github.com/radieske/game-bet-platform/internal/shared/errs"
	"github.com/radieske/game-bet-platform/pkg/contracts/events"
)

type stubRepo struct {
	placed   *repo.Placed
	placeErr error
	bet      *repo.Bet

	placeCalls int
}

func (s *stubRepo) Place(_ context.Context, userID, gameID, prediction string, stakeCents int64) (*repo.Placed, error) {
	s.placeCalls++
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return s.placed, nil
}

func (s *stubRepo) Get(context.Context, string) (*repo.Bet, error) {
	if s.bet == nil {
		return nil, errs.ErrNotFound
	}
	return s.bet, nil
}

func (s *stubRepo) ListByUser(context.Context, string, int) ([]repo.Bet, error) {
	if s.bet == nil {
		return nil, nil
	}
	return []repo.Bet{*s.bet}, nil
}

type stubState struct {
	status string
	err    error
}

func (s *stubState) CurrentStatus(context.Context, string) (string, error) {
	return s.status, s.err
}

type stubPublisher struct{ events []events.BetPlaced }

func (p *stubPublisher) PublishBetPlaced(_ context.Context, e events.BetPlaced) error {
	p.events = append(p.events, e)
	return nil
}

func placedFixture() *repo.Placed {
	return &repo.Placed{
		Bet: repo.Bet{
			ID:         "bet-1",
			UserID:     "u1",
			GameID:     "game-1",
			Prediction: "heads",
			StakeCents: 1000,
			Status:     "PENDING",
			CreatedAt:  time.Now(),
		},
		GameType:        game.TypeCoinFlip,
		Mode:            game.ModeSingle,
		NewBalanceCents: 4000,
	}
}

func doReq(t *testing.T, h http.Handler, method, path, userID, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set(auth.HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(auth.HeaderRole, role)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaceBetRequiresAuth(t *testing.T) {
	srv := NewServer(zap.NewNop(), &stubRepo{}, nil, nil)
	rec := doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "", "", dto.PlaceBetRequest{
		GameID: "game-1", Prediction: "heads", StakeCents: 1000,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceBet(t *testing.T) {
	st := &stubRepo{placed: placedFixture()}
	pub := &stubPublisher{}
	srv := NewServer(zap.NewNop(), st, &stubState{status: "OPEN"}, pub)

	rec := doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "u1", "", dto.PlaceBetRequest{
		GameID: "game-1", Prediction: "heads", StakeCents: 1000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var out dto.PlaceBetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "bet-1", out.BetID)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, int64(4000), out.NewBalanceCents)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "bet-1", pub.events[0].BetID)
	assert.Equal(t, "coin_flip", pub.events[0].GameType)
}

func TestPlaceBetForAnotherUser(t *testing.T) {
	st := &stubRepo{placed: placedFixture()}
	srv := NewServer(zap.NewNop(), st, nil, nil)

	body := dto.PlaceBetRequest{UserID: "u1", GameID: "game-1", Prediction: "heads", StakeCents: 1000}

	// jogador comum não aposta em nome de outro
	rec := doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "u2", auth.RolePlayer, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, st.placeCalls)

	// admin pode
	rec = doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "u2", auth.RoleAdmin, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, st.placeCalls)
}

func TestPlaceBetInvalidPayload(t *testing.T) {
	srv := NewServer(zap.NewNop(), &stubRepo{}, nil, nil)
	rec := doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "u1", "", dto.PlaceBetRequest{
		GameID: "game-1", Prediction: "heads", StakeCents: -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceBetFastPathClosed(t *testing.T) {
	// snapshot diz CLOSED: rejeita sem tocar no banco
	st := &stubRepo{placed: placedFixture()}
	srv := NewServer(zap.NewNop(), st, &stubState{status: "CLOSED"}, nil)

	rec := doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "u1", "", dto.PlaceBetRequest{
		GameID: "game-1", Prediction: "heads", StakeCents: 1000,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, st.placeCalls)
}

func TestPlaceBetCacheMissFallsThrough(t *testing.T) {
	// cache indisponível não bloqueia: a transação decide
	st := &stubRepo{placed: placedFixture()}
	srv := NewServer(zap.NewNop(), st, &stubState{err: context.DeadlineExceeded}, nil)

	rec := doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "u1", "", dto.PlaceBetRequest{
		GameID: "game-1", Prediction: "heads", StakeCents: 1000,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, st.placeCalls)
}

func TestPlaceBetRepoErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient balance", errs.ErrInsufficientBalance, http.StatusConflict},
		{"account blocked", errs.ErrAccountBlocked, http.StatusForbidden},
		{"game not open", errs.ErrGameNotOpen, http.StatusConflict},
		{"game missing", errs.ErrNotFound, http.StatusNotFound},
		{"bad prediction", errs.ErrInvalidPrediction, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(zap.NewNop(), &stubRepo{placeErr: tc.err}, nil, nil)
			rec := doReq(t, srv.Router(), http.MethodPost, "/v1/bets", "u1", "", dto.PlaceBetRequest{
				GameID: "game-1", Prediction: "heads", StakeCents: 1000,
			})
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestGetBetNotFound(t *testing.T) {
	srv := NewServer(zap.NewNop(), &stubRepo{}, nil, nil)
	rec := doReq(t, srv.Router(), http.MethodGet, "/v1/bets/missing", "", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBetsRequiresUser(t *testing.T) {
	srv := NewServer(zap.NewNop(), &stubRepo{}, nil, nil)

	rec := doReq(t, srv.Router(), http.MethodGet, "/v1/bets", "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// identidade do header serve como default
	st := &stubRepo{bet: &placedFixture().Bet}
	srv = NewServer(zap.NewNop(), st, nil, nil)
	rec = doReq(t, srv.Router(), http.MethodGet, "/v1/bets", "u1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []dto.BetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "bet-1", out[0].BetID)
}

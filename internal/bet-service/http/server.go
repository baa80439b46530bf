package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/game-bet-platform/internal/bet-service/dto"
	"github.com/radieske/game-bet-platform/internal/bet-service/repo"
	"github.com/radieske/game-bet-platform/internal/game-service/game"
	"github.com/radieske/game-bet-platform/internal/shared/auth"
	"github.com/radieske/game-bet-platform/internal/shared/errs"
	"github.com/radieske/game-bet-platform/pkg/contracts/events"
)

// Repo define as operações de aposta usadas pelos handlers
type Repo interface {
	Place(ctx context.Context, userID, gameID, prediction string, stakeCents int64) (*repo.Placed, error)
	Get(ctx context.Context, betID string) (*repo.Bet, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]repo.Bet, error)
}

// GameState é o fast-path de status de jogo via snapshot Redis
type GameState interface {
	CurrentStatus(ctx context.Context, gameID string) (string, error)
}

// Publisher publica o evento bet_placed (best-effort, pós-commit)
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
}

// Server expõe a API REST de apostas
type Server struct {
	log   *zap.Logger
	repo  Repo
	state GameState
	publ  Publisher
}

func NewServer(log *zap.Logger, r Repo, st GameState, p Publisher) *Server {
	return &Server{log: log, repo: r, state: st, publ: p}
}

// Router retorna o roteador HTTP com as rotas da API de apostas
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/bets", s.placeBet)    // Coloca aposta
	r.Get("/v1/bets", s.listBets)     // Histórico (?userId=)
	r.Get("/v1/bets/{id}", s.getBet)  // Detalhe da aposta
	return r
}

// placeBet coloca uma aposta: débito + criação da aposta são atômicos
// no repositório; aqui fica só validação de boundary e o fast-path
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	ident := auth.FromRequest(r)
	if ident.UserID == "" {
		writeErrMsg(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" {
		req.UserID = ident.UserID
	}
	if req.UserID != ident.UserID && ident.Role != auth.RoleAdmin {
		writeErrMsg(w, http.StatusForbidden, "cannot bet on behalf of another user")
		return
	}
	if req.GameID == "" || req.Prediction == "" || req.StakeCents <= 0 {
		writeErrMsg(w, http.StatusBadRequest, "invalid payload")
		return
	}

	// Fast-path: snapshot do jogo no Redis. Cache miss não bloqueia —
	// a checagem autoritativa roda sob lock dentro da transação
	if s.state != nil {
		if st, err := s.state.CurrentStatus(r.Context(), req.GameID); err == nil && st != "" {
			if st != string(game.StatusOpen) {
				writeErr(w, errs.ErrGameNotOpen)
				return
			}
		}
	}

	placed, err := s.repo.Place(r.Context(), req.UserID, req.GameID, req.Prediction, req.StakeCents)
	if err != nil {
		writeErr(w, err)
		return
	}

	if s.publ != nil {
		perr := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
			BetID:      placed.ID,
			UserID:     placed.UserID,
			GameID:     placed.GameID,
			GameType:   string(placed.GameType),
			Mode:       string(placed.Mode),
			Prediction: placed.Prediction,
			StakeCents: placed.StakeCents,
		})
		if perr != nil {
			s.log.Warn("publish bet_placed", zap.String("betId", placed.ID), zap.Error(perr))
		}
	}

	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{
		BetID:           placed.ID,
		Status:          placed.Status,
		NewBalanceCents: placed.NewBalanceCents,
	})
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	b, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBetResponse(b))
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = auth.FromRequest(r).UserID
	}
	if userID == "" {
		writeErrMsg(w, http.StatusBadRequest, "userId required")
		return
	}

	bets, err := s.repo.ListByUser(r.Context(), userID, 0)
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]dto.BetResponse, 0, len(bets))
	for i := range bets {
		out = append(out, toBetResponse(&bets[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func toBetResponse(b *repo.Bet) dto.BetResponse {
	return dto.BetResponse{
		BetID:       b.ID,
		UserID:      b.UserID,
		GameID:      b.GameID,
		Prediction:  b.Prediction,
		StakeCents:  b.StakeCents,
		Status:      b.Status,
		PayoutCents: b.PayoutCents,
		CreatedAt:   b.CreatedAt,
		SettledAt:   b.SettledAt,
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr mapeia erro de domínio para status + corpo {error}
func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeErrMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/game-bet-platform/internal/game-service/cache"
	"github.com/radieske/game-bet-platform/internal/game-service/dto"
	"github.com/radieske/game-bet-platform/internal/game-service/game"
	"github.com/radieske/game-bet-platform/internal/game-service/repo"
	"github.com/radieske/game-bet-platform/internal/game-service/settlement"
	"github.com/radieske/game-bet-platform/internal/shared/auth"
	"github.com/radieske/game-bet-platform/internal/shared/errs"
	"github.com/radieske/game-bet-platform/pkg/contracts/events"
)

// Repo define as operações de ciclo de vida usadas pelos handlers
type Repo interface {
	Create(ctx context.Context, inst *repo.Instance) (string, error)
	Get(ctx context.Context, id string) (*repo.Instance, error)
	List(ctx context.Context, status game.Status, limit int) ([]repo.Instance, error)
	Close(ctx context.Context, id string) (*repo.Instance, error)
	DeclareResult(ctx context.Context, id, outcome string) (*settlement.Report, *repo.Instance, error)
	ListBets(ctx context.Context, gameID string) ([]settlement.BetResult, error)
}

// Publisher publica os eventos de apuração (best-effort, pós-commit)
type Publisher interface {
	PublishGameResulted(ctx context.Context, e events.GameResulted) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// SnapshotCache atualiza o snapshot Redis consumido pelo bet-service
type SnapshotCache interface {
	SetCurrent(ctx context.Context, s cache.Snapshot) error
}

// WSHandler é o endpoint WebSocket do feed de resultados
type WSHandler interface {
	HandleWS(w http.ResponseWriter, r *http.Request)
}

// Server expõe a API REST de instâncias de jogo (ciclo de vida + apuração)
type Server struct {
	log   *zap.Logger
	repo  Repo
	publ  Publisher
	cache SnapshotCache
	hub   WSHandler
}

func NewServer(log *zap.Logger, r Repo, p Publisher, c SnapshotCache, hub WSHandler) *Server {
	return &Server{log: log, repo: r, publ: p, cache: c, hub: hub}
}

// Router retorna o roteador HTTP com os endpoints de jogo
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/games", s.listGames)                    // Lista instâncias (?status=)
	r.Post("/v1/games", s.createGame)                  // Cria instância (operador)
	r.Get("/v1/games/{id}", s.getGame)                 // Detalhe da instância
	r.Post("/v1/games/{id}/close", s.closeGame)        // OPEN -> CLOSED (operador)
	r.Post("/v1/games/{id}/result", s.declareResult)   // CLOSED -> RESULTED + liquidação (operador)
	r.Get("/v1/games/{id}/bets", s.listBets)           // Apostas da instância (operador)
	if s.hub != nil {
		r.Get("/ws", s.hub.HandleWS) // feed de liquidação
	}
	return r
}

// createGame cria uma instância OPEN com odds e limites validados no boundary
func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	ident := auth.FromRequest(r)
	if !ident.IsOperator() {
		writeErrMsg(w, http.StatusForbidden, "operator role required")
		return
	}

	var req dto.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}

	gt, mode := game.Type(req.GameType), game.Mode(req.Mode)
	def, ok := game.Lookup(gt)
	if !ok || !def.HasMode(mode) {
		writeErrMsg(w, http.StatusBadRequest, "unknown game type or mode")
		return
	}
	if err := game.ValidateOdds(gt, mode, req.Odds); err != nil {
		writeErr(w, err)
		return
	}

	minStake, maxStake := req.MinStakeCents, req.MaxStakeCents
	if minStake == 0 {
		minStake = def.DefaultMinStakeCents
	}
	if maxStake == 0 {
		maxStake = def.DefaultMaxStakeCents
	}
	if minStake <= 0 || maxStake < minStake {
		writeErrMsg(w, http.StatusBadRequest, "invalid stake bounds")
		return
	}

	inst := &repo.Instance{
		GameType:      gt,
		Mode:          mode,
		Odds:          req.Odds,
		MinStakeCents: minStake,
		MaxStakeCents: maxStake,
		CreatedBy:     ident.UserID,
	}
	id, err := s.repo.Create(r.Context(), inst)
	if err != nil {
		writeErr(w, err)
		return
	}

	created, err := s.repo.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.refreshSnapshot(r.Context(), created)
	writeJSON(w, http.StatusCreated, toGameResponse(created))
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	inst, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(inst))
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	status := game.Status(r.URL.Query().Get("status"))
	list, err := s.repo.List(r.Context(), status, 0)
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]dto.GameResponse, 0, len(list))
	for i := range list {
		out = append(out, toGameResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// closeGame encerra as apostas da instância (OPEN -> CLOSED)
func (s *Server) closeGame(w http.ResponseWriter, r *http.Request) {
	if !auth.FromRequest(r).IsOperator() {
		writeErrMsg(w, http.StatusForbidden, "operator role required")
		return
	}

	inst, err := s.repo.Close(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}

	s.refreshSnapshot(r.Context(), inst)
	writeJSON(w, http.StatusOK, toGameResponse(inst))
}

// declareResult apura o resultado e liquida o lote de apostas da
// instância numa única transação; publica os eventos depois do commit
func (s *Server) declareResult(w http.ResponseWriter, r *http.Request) {
	if !auth.FromRequest(r).IsOperator() {
		writeErrMsg(w, http.StatusForbidden, "operator role required")
		return
	}

	var req dto.DeclareResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}

	id := chi.URLParam(r, "id")
	rep, inst, err := s.repo.DeclareResult(r.Context(), id, req.Outcome)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.refreshSnapshot(r.Context(), inst)
	s.publishSettlement(r.Context(), inst, rep)

	writeJSON(w, http.StatusOK, toSettlementResponse(rep))
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	if !auth.FromRequest(r).IsOperator() {
		writeErrMsg(w, http.StatusForbidden, "operator role required")
		return
	}

	bets, err := s.repo.ListBets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]dto.SettledBet, 0, len(bets))
	for _, b := range bets {
		out = append(out, dto.SettledBet{
			BetID: b.BetID, UserID: b.UserID, Prediction: b.Prediction,
			StakeCents: b.StakeCents, Status: b.Status, PayoutCents: b.PayoutCents,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// refreshSnapshot atualiza o snapshot Redis; falha de cache não derruba
// a operação, só loga — o banco continua sendo a verdade
func (s *Server) refreshSnapshot(ctx context.Context, inst *repo.Instance) {
	if s.cache == nil {
		return
	}
	err := s.cache.SetCurrent(ctx, cache.Snapshot{
		ID:            inst.ID,
		GameType:      string(inst.GameType),
		Mode:          string(inst.Mode),
		Status:        string(inst.Status),
		MinStakeCents: inst.MinStakeCents,
		MaxStakeCents: inst.MaxStakeCents,
		Odds:          inst.Odds,
	})
	if err != nil {
		s.log.Warn("game snapshot cache", zap.String("gameId", inst.ID), zap.Error(err))
	}
}

// publishSettlement emite game_resulted + um bet_settled por aposta
func (s *Server) publishSettlement(ctx context.Context, inst *repo.Instance, rep *settlement.Report) {
	if s.publ == nil {
		return
	}

	err := s.publ.PublishGameResulted(ctx, events.GameResulted{
		GameID:           rep.GameID,
		GameType:         string(inst.GameType),
		Mode:             string(inst.Mode),
		Outcome:          rep.Outcome,
		TotalBets:        rep.TotalBets,
		TotalStakedCents: rep.TotalStakedCents,
		TotalPaidCents:   rep.TotalPaidCents,
	})
	if err != nil {
		s.log.Warn("publish game_resulted", zap.String("gameId", rep.GameID), zap.Error(err))
	}

	for _, res := range rep.Results {
		err := s.publ.PublishBetSettled(ctx, events.BetSettled{
			BetID:       res.BetID,
			UserID:      res.UserID,
			GameID:      rep.GameID,
			Outcome:     rep.Outcome,
			Prediction:  res.Prediction,
			Status:      res.Status,
			StakeCents:  res.StakeCents,
			PayoutCents: res.PayoutCents,
		})
		if err != nil {
			s.log.Warn("publish bet_settled", zap.String("betId", res.BetID), zap.Error(err))
		}
	}
}

func toGameResponse(inst *repo.Instance) dto.GameResponse {
	return dto.GameResponse{
		ID:               inst.ID,
		GameType:         string(inst.GameType),
		Mode:             string(inst.Mode),
		Status:           string(inst.Status),
		Odds:             inst.Odds,
		MinStakeCents:    inst.MinStakeCents,
		MaxStakeCents:    inst.MaxStakeCents,
		WinningOutcome:   inst.WinningOutcome,
		CreatedBy:        inst.CreatedBy,
		CreatedAt:        inst.CreatedAt,
		ClosedAt:         inst.ClosedAt,
		ResultDeclaredAt: inst.ResultDeclaredAt,
	}
}

func toSettlementResponse(rep *settlement.Report) dto.SettlementResponse {
	out := dto.SettlementResponse{
		GameID:           rep.GameID,
		Outcome:          rep.Outcome,
		TotalBets:        rep.TotalBets,
		WonCount:         rep.WonCount,
		LostCount:        rep.LostCount,
		TotalStakedCents: rep.TotalStakedCents,
		TotalPaidCents:   rep.TotalPaidCents,
		Results:          make([]dto.SettledBet, 0, len(rep.Results)),
	}
	for _, res := range rep.Results {
		out.Results = append(out.Results, dto.SettledBet{
			BetID: res.BetID, UserID: res.UserID, Prediction: res.Prediction,
			StakeCents: res.StakeCents, Status: res.Status, PayoutCents: res.PayoutCents,
		})
	}
	return out
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

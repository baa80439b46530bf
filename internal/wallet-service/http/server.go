package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/game-bet-platform/internal/shared/auth"
	"github.com/radieske/game-bet-platform/internal/shared/errs"
	"github.com/radieske/game-bet-platform/internal/wallet-service/dto"
	"github.com/radieske/game-bet-platform/internal/wallet-service/repo"
)

// Repo define a interface de operações de carteira usadas pelo handler HTTP
type Repo interface {
	GetOrCreateWallet(ctx context.Context, userID string) (*repo.Wallet, error)
	Deposit(ctx context.Context, userID string, amount int64, externalRef string) (*repo.Wallet, error)
	Adjust(ctx context.Context, userID string, deltaCents int64, reason string) (*repo.Wallet, error)
	SetBlocked(ctx context.Context, userID string, blocked bool) error
	Ledger(ctx context.Context, userID string, limit int) ([]repo.LedgerEntry, error)
}

// Server expõe endpoints HTTP para operações de carteira (wallet)
type Server struct {
	log  *zap.Logger
	repo Repo
}

// NewServer instancia o servidor HTTP de wallet
func NewServer(log *zap.Logger, repo Repo) *Server { return &Server{log: log, repo: repo} }

// Router retorna o mux HTTP com as rotas da API de wallet
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet", s.getWallet)       // GET ?userId=...
	mux.HandleFunc("/wallet/deposit", s.deposit) // POST
	mux.HandleFunc("/wallet/adjust", s.adjust)   // POST (admin)
	mux.HandleFunc("/wallet/block", s.block)     // POST (admin)
	mux.HandleFunc("/wallet/ledger", s.ledger)   // GET ?userId=...
	return mux
}

// getWallet retorna (ou cria) a carteira e saldo do usuário
func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = auth.FromRequest(r).UserID
	}
	if userID == "" {
		writeErrMsg(w, http.StatusBadRequest, "userId required")
		return
	}
	wal, err := s.repo.GetOrCreateWallet(r.Context(), userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(wal))
}

// deposit adiciona saldo à carteira do usuário
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.AmountCents <= 0 {
		writeErrMsg(w, http.StatusBadRequest, "invalid payload")
		return
	}
	wal, err := s.repo.Deposit(r.Context(), req.UserID, req.AmountCents, req.ExternalRef)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(wal))
}

// adjust aplica crédito/débito administrativo na carteira
func (s *Server) adjust(w http.ResponseWriter, r *http.Request) {
	if !auth.FromRequest(r).IsOperator() {
		writeErrMsg(w, http.StatusForbidden, "operator role required")
		return
	}

	var req dto.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.DeltaCents == 0 {
		writeErrMsg(w, http.StatusBadRequest, "invalid payload")
		return
	}
	wal, err := s.repo.Adjust(r.Context(), req.UserID, req.DeltaCents, req.Reason)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(wal))
}

// block bloqueia/desbloqueia a conta para novas apostas
func (s *Server) block(w http.ResponseWriter, r *http.Request) {
	if !auth.FromRequest(r).IsOperator() {
		writeErrMsg(w, http.StatusForbidden, "operator role required")
		return
	}

	var req dto.BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" {
		writeErrMsg(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := s.repo.SetBlocked(r.Context(), req.UserID, req.Blocked); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// ledger retorna o extrato recente da carteira
func (s *Server) ledger(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = auth.FromRequest(r).UserID
	}
	if userID == "" {
		writeErrMsg(w, http.StatusBadRequest, "userId required")
		return
	}

	entries, err := s.repo.Ledger(r.Context(), userID, 0)
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:            e.ID,
			OperationType: e.OperationType,
			AmountCents:   e.AmountCents,
			Description:   e.Description,
			RelatedBetID:  e.RelatedBetID,
			CreatedAt:     e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func toWalletResponse(wal *repo.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		UserID:       wal.UserID,
		WalletID:     wal.ID,
		BalanceCents: wal.BalanceCents,
		IsBlocked:    wal.IsBlocked,
	}
}

// writeJSON serializa e envia resposta JSON
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

package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/radieske/game-bet-platform/internal/game-service/game"
	"github.com/radieske/game-bet-platform/internal/shared/errs"
)

// Postgres implementa a colocação e a leitura de apostas
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Placed é o resultado da colocação: a aposta criada mais o contexto do
// jogo (para o evento bet_placed) e o saldo após o débito.
type Placed struct {
	Bet
	GameType        game.Type
	Mode            game.Mode
	NewBalanceCents int64
}

// Place coloca uma aposta: valida o jogo, debita a carteira e insere a
// aposta PENDING numa única transação — falha em qualquer passo desfaz
// o débito (nenhum débito órfão).
//
// Ordem de locks: linha do jogo (FOR SHARE) antes da carteira
// (FOR UPDATE). O FOR SHARE conflita com o FOR UPDATE do close/apuração,
// então nenhuma aposta entra depois que o status sai de OPEN.
func (p *Postgres) Place(ctx context.Context, userID, gameID, prediction string, stakeCents int64) (*Placed, error) {
	if stakeCents <= 0 {
		return nil, fmt.Errorf("%w: stake must be positive", errs.ErrValidation)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		gt       game.Type
		mode     game.Mode
		status   game.Status
		oddsJSON []byte
		minStake int64
		maxStake int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT game_type, mode, status, odds, min_stake_cents, max_stake_cents
		FROM game_instances WHERE id=$1 FOR SHARE`, gameID).
		Scan(&gt, &mode, &status, &oddsJSON, &minStake, &maxStake)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: game %s", errs.ErrNotFound, gameID)
	} else if err != nil {
		return nil, err
	}

	if status != game.StatusOpen {
		return nil, errs.ErrGameNotOpen
	}
	if !game.ValidPrediction(gt, mode, prediction) {
		return nil, fmt.Errorf("%w: %q for %s/%s", errs.ErrInvalidPrediction, prediction, gt, mode)
	}
	if stakeCents < minStake || stakeCents > maxStake {
		return nil, fmt.Errorf("%w: stake outside bounds [%d,%d]", errs.ErrValidation, minStake, maxStake)
	}
	// Linha de odds corrompida é erro do servidor, não do apostador
	var odds game.Odds
	if err := json.Unmarshal(oddsJSON, &odds); err != nil {
		return nil, fmt.Errorf("unmarshal odds for game %s: %w", gameID, err)
	}
	// A aposta só precisa ter preço resolvível na apuração
	if _, ok := game.MultiplierFor(odds, prediction); !ok {
		return nil, fmt.Errorf("%w: no odds for prediction %q", errs.ErrInvalidPrediction, prediction)
	}

	var (
		walletID string
		balance  int64
		blocked  bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, balance_cents, is_blocked FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).
		Scan(&walletID, &balance, &blocked)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: wallet for user %s", errs.ErrNotFound, userID)
	} else if err != nil {
		return nil, err
	}

	if blocked {
		return nil, errs.ErrAccountBlocked
	}
	if balance < stakeCents {
		return nil, errs.ErrInsufficientBalance
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE wallets SET balance_cents = balance_cents - $1, version = version + 1 WHERE id=$2`,
		stakeCents, walletID); err != nil {
		return nil, err
	}

	betID := uuid.NewString()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_ledger (wallet_id, operation_type, amount_cents, description, related_bet_id)
		VALUES ($1,'BET_STAKE',$2,$3,$4)`,
		walletID, stakeCents, "stake:"+gameID, betID); err != nil {
		return nil, err
	}

	var b Bet
	err = tx.QueryRowContext(ctx, `
		INSERT INTO bets (id, user_id, game_id, prediction, stake_cents, status, payout_cents)
		VALUES ($1,$2,$3,$4,$5,'PENDING',0)
		RETURNING id, user_id, game_id, prediction, stake_cents, status, payout_cents, created_at`,
		betID, userID, gameID, prediction, stakeCents).
		Scan(&b.ID, &b.UserID, &b.GameID, &b.Prediction, &b.StakeCents, &b.Status, &b.PayoutCents, &b.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &Placed{Bet: b, GameType: gt, Mode: mode, NewBalanceCents: balance - stakeCents}, nil
}

// Get retorna uma aposta pelo id
func (p *Postgres) Get(ctx context.Context, betID string) (*Bet, error) {
	var (
		b         Bet
		settledAt sql.NullTime
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, game_id, prediction, stake_cents, status, payout_cents, created_at, settled_at
		FROM bets WHERE id=$1`, betID).
		Scan(&b.ID, &b.UserID, &b.GameID, &b.Prediction, &b.StakeCents, &b.Status, &b.PayoutCents, &b.CreatedAt, &settledAt)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if settledAt.Valid {
		t := settledAt.Time
		b.SettledAt = &t
	}
	return &b, nil
}

// ListByUser retorna o histórico de apostas do usuário, mais recentes primeiro
func (p *Postgres) ListByUser(ctx context.Context, userID string, limit int) ([]Bet, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, game_id, prediction, stake_cents, status, payout_cents, created_at, settled_at
		FROM bets WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bet
	for rows.Next() {
		var (
			b         Bet
			settledAt sql.NullTime
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.GameID, &b.Prediction, &b.StakeCents, &b.Status, &b.PayoutCents, &b.CreatedAt, &settledAt); err != nil {
			return nil, err
		}
		if settledAt.Valid {
			t := settledAt.Time
			b.SettledAt = &t
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

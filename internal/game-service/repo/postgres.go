package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/radieske/game-bet-platform/internal/game-service/game"
	"github.com/radieske/game-bet-platform/internal/game-service/settlement"
	"github.com/radieske/game-bet-platform/internal/shared/errs"
)

// Postgres implementa persistência e transições de instâncias de jogo
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const instanceCols = `id, game_type, mode, status, odds, min_stake_cents, max_stake_cents,
	winning_outcome, created_by, created_at, closed_at, result_declared_at`

// Create insere uma nova instância em OPEN e retorna o id gerado
func (p *Postgres) Create(ctx context.Context, inst *Instance) (string, error) {
	oddsJSON, err := json.Marshal(inst.Odds)
	if err != nil {
		return "", fmt.Errorf("marshal odds: %w", err)
	}

	id := uuid.NewString()
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO game_instances (id, game_type, mode, status, odds, min_stake_cents, max_stake_cents, created_by)
		VALUES ($1,$2,$3,'OPEN',$4,$5,$6,$7)`,
		id, inst.GameType, inst.Mode, oddsJSON, inst.MinStakeCents, inst.MaxStakeCents, inst.CreatedBy,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get carrega uma instância pelo id
func (p *Postgres) Get(ctx context.Context, id string) (*Instance, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+instanceCols+` FROM game_instances WHERE id=$1`, id)
	inst, err := scanInstance(row)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	return inst, err
}

// List retorna instâncias, opcionalmente filtradas por status, mais recentes primeiro
func (p *Postgres) List(ctx context.Context, status game.Status, limit int) ([]Instance, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := `SELECT ` + instanceCols + ` FROM game_instances`
	args := []any{}
	if status != "" {
		q += ` WHERE status=$1`
		args = append(args, status)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Instance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inst)
	}
	return out, rows.Err()
}

// Close transiciona OPEN -> CLOSED sob lock pessimista.
// Depois do CLOSED nenhuma aposta nova entra (o placement usa FOR SHARE
// na mesma linha, então fechar espera as colocações em andamento).
func (p *Postgres) Close(ctx context.Context, id string) (*Instance, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status game.Status
	err = tx.QueryRowContext(ctx, `SELECT status FROM game_instances WHERE id=$1 FOR UPDATE`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	switch status {
	case game.StatusOpen:
		// segue
	case game.StatusResulted:
		return nil, errs.ErrAlreadySettled
	default:
		return nil, fmt.Errorf("%w: close from %s", errs.ErrInvalidTransition, status)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE game_instances SET status='CLOSED', closed_at=NOW() WHERE id=$1`, id); err != nil {
		return nil, err
	}

	inst, err := scanInstance(tx.QueryRowContext(ctx, `SELECT `+instanceCols+` FROM game_instances WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return inst, nil
}

// DeclareResult transiciona CLOSED -> RESULTED e liquida o lote inteiro
// de apostas PENDING na mesma transação: ou todas as apostas chegam a um
// status terminal com os créditos aplicados, ou nada é gravado.
//
// Política explícita: apurar direto de OPEN é rejeitado — o operador
// fecha primeiro. Reapuração de instância RESULTED falha com
// ErrAlreadySettled sem nenhuma mutação (guarda de idempotência).
func (p *Postgres) DeclareResult(ctx context.Context, id, outcome string) (*settlement.Report, *Instance, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var (
		gt       game.Type
		mode     game.Mode
		status   game.Status
		oddsJSON []byte
	)
	err = tx.QueryRowContext(ctx,
		`SELECT game_type, mode, status, odds FROM game_instances WHERE id=$1 FOR UPDATE`, id).
		Scan(&gt, &mode, &status, &oddsJSON)
	if err == sql.ErrNoRows {
		return nil, nil, errs.ErrNotFound
	} else if err != nil {
		return nil, nil, err
	}

	switch status {
	case game.StatusClosed:
		// segue
	case game.StatusResulted:
		return nil, nil, errs.ErrAlreadySettled
	case game.StatusOpen:
		return nil, nil, fmt.Errorf("%w: close betting before declaring a result", errs.ErrInvalidTransition)
	default:
		return nil, nil, fmt.Errorf("%w: declare from %s", errs.ErrInvalidTransition, status)
	}

	var odds game.Odds
	if err = json.Unmarshal(oddsJSON, &odds); err != nil {
		return nil, nil, fmt.Errorf("unmarshal odds: %w", err)
	}

	// Trava o lote: nenhuma aposta do jogo muda fora desta transação
	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, prediction, stake_cents
		FROM bets
		WHERE game_id=$1 AND status='PENDING'
		FOR UPDATE`, id)
	if err != nil {
		return nil, nil, err
	}

	var bets []settlement.BetInput
	for rows.Next() {
		var b settlement.BetInput
		if err = rows.Scan(&b.ID, &b.UserID, &b.Prediction, &b.StakeCents); err != nil {
			rows.Close()
			return nil, nil, err
		}
		bets = append(bets, b)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	rep, err := settlement.Compute(id, gt, mode, odds, outcome, bets)
	if err != nil {
		return nil, nil, err
	}

	for _, res := range rep.Results {
		if _, err = tx.ExecContext(ctx, `
			UPDATE bets SET status=$1, payout_cents=$2, settled_at=NOW() WHERE id=$3`,
			res.Status, res.PayoutCents, res.BetID); err != nil {
			return nil, nil, err
		}

		if res.Status != settlement.StatusWon || res.PayoutCents == 0 {
			continue
		}

		// Credita o vencedor e registra no ledger da carteira
		var walletID string
		err = tx.QueryRowContext(ctx, `
			UPDATE wallets SET balance_cents = balance_cents + $1, version = version + 1
			WHERE user_id=$2 RETURNING id`, res.PayoutCents, res.UserID).Scan(&walletID)
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("settle %s: wallet missing for user %s", id, res.UserID)
		} else if err != nil {
			return nil, nil, err
		}

		if _, err = tx.ExecContext(ctx, `
			INSERT INTO wallet_ledger (wallet_id, operation_type, amount_cents, description, related_bet_id)
			VALUES ($1,'PAYOUT',$2,$3,$4)`,
			walletID, res.PayoutCents, "payout:"+id, res.BetID); err != nil {
			return nil, nil, err
		}
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE game_instances SET status='RESULTED', winning_outcome=$1, result_declared_at=NOW()
		WHERE id=$2`, outcome, id); err != nil {
		return nil, nil, err
	}

	inst, err := scanInstance(tx.QueryRowContext(ctx, `SELECT `+instanceCols+` FROM game_instances WHERE id=$1`, id))
	if err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}
	return rep, inst, nil
}

// ListBets retorna as apostas de uma instância (visão do operador)
func (p *Postgres) ListBets(ctx context.Context, gameID string) ([]settlement.BetResult, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, prediction, stake_cents, status, payout_cents
		FROM bets WHERE game_id=$1 ORDER BY created_at`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.BetResult
	for rows.Next() {
		var r settlement.BetResult
		if err := rows.Scan(&r.BetID, &r.UserID, &r.Prediction, &r.StakeCents, &r.Status, &r.PayoutCents); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanInstance(row rowScanner) (*Instance, error) {
	var (
		inst     Instance
		oddsJSON []byte
		winning  sql.NullString
		closedAt sql.NullTime
		resultAt sql.NullTime
	)
	err := row.Scan(
		&inst.ID, &inst.GameType, &inst.Mode, &inst.Status, &oddsJSON,
		&inst.MinStakeCents, &inst.MaxStakeCents,
		&winning, &inst.CreatedBy, &inst.CreatedAt, &closedAt, &resultAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(oddsJSON, &inst.Odds); err != nil {
		return nil, fmt.Errorf("unmarshal odds: %w", err)
	}
	if winning.Valid {
		inst.WinningOutcome = &winning.String
	}
	if closedAt.Valid {
		t := closedAt.Time
		inst.ClosedAt = &t
	}
	if resultAt.Valid {
		t := resultAt.Time
		inst.ResultDeclaredAt = &t
	}
	return &inst, nil
}

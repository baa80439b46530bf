package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/game-bet-platform/internal/shared/errs"
)

// Postgres implementa operações de carteira em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Wallet é a carteira persistida: saldo inteiro em centavos, nunca negativo
type Wallet struct {
	ID           string
	UserID       string
	BalanceCents int64
	IsBlocked    bool
}

// LedgerEntry é uma linha do extrato da carteira
type LedgerEntry struct {
	ID            int64
	OperationType string
	AmountCents   int64
	Description   string
	RelatedBetID  *string
	CreatedAt     time.Time
}

// GetOrCreateWallet retorna a carteira do usuário, criando-a zerada se não existir
// Usa transação para garantir atomicidade
func (p *Postgres) GetOrCreateWallet(ctx context.Context, userID string) (*Wallet, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w Wallet
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, balance_cents, is_blocked FROM wallets WHERE user_id=$1`, userID).
		Scan(&w.ID, &w.UserID, &w.BalanceCents, &w.IsBlocked)
	if err == sql.ErrNoRows {
		w = Wallet{ID: uuid.New().String(), UserID: userID}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO wallets(id, user_id, balance_cents, version) VALUES($1,$2,0,1)`,
			w.ID, userID); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Deposit incrementa o saldo da carteira e registra a operação no ledger.
// Garante lock pessimista na linha da carteira. Idempotente por
// external_ref: replay com a mesma referência não credita de novo, só
// devolve o estado atual da carteira.
func (p *Postgres) Deposit(ctx context.Context, userID string, amount int64, externalRef string) (*Wallet, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if externalRef != "" {
		var n int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM wallet_ledger WHERE wallet_id=$1 AND external_ref=$2`,
			id, externalRef).Scan(&n)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			var w Wallet
			if err = tx.QueryRowContext(ctx,
				`SELECT id, user_id, balance_cents, is_blocked FROM wallets WHERE id=$1`, id).
				Scan(&w.ID, &w.UserID, &w.BalanceCents, &w.IsBlocked); err != nil {
				return nil, err
			}
			if err = tx.Commit(); err != nil {
				return nil, err
			}
			return &w, nil
		}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2`,
		amount, id); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, description, external_ref)
		 VALUES($1,'DEPOSIT',$2,$3,NULLIF($4,''))`,
		id, amount, "deposit:"+externalRef, externalRef); err != nil {
		return nil, err
	}

	var w Wallet
	if err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, balance_cents, is_blocked FROM wallets WHERE id=$1`, id).
		Scan(&w.ID, &w.UserID, &w.BalanceCents, &w.IsBlocked); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Adjust aplica um ajuste administrativo (delta positivo credita,
// negativo debita). Débito exige saldo suficiente — saldo nunca fica
// negativo. Conta bloqueada ainda pode ser ajustada pelo admin.
func (p *Postgres) Adjust(ctx context.Context, userID string, deltaCents int64, reason string) (*Wallet, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		id      string
		balance int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, balance_cents FROM wallets WHERE user_id=$1 FOR UPDATE`, userID).Scan(&id, &balance)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	opType, amount := "ADJUST_CREDIT", deltaCents
	if deltaCents < 0 {
		opType, amount = "ADJUST_DEBIT", -deltaCents
		if balance < amount {
			return nil, errs.ErrInsufficientBalance
		}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2`,
		deltaCents, id); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(wallet_id, operation_type, amount_cents, description) VALUES($1,$2,$3,$4)`,
		id, opType, amount, "adjust:"+reason); err != nil {
		return nil, err
	}

	var w Wallet
	if err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, balance_cents, is_blocked FROM wallets WHERE id=$1`, id).
		Scan(&w.ID, &w.UserID, &w.BalanceCents, &w.IsBlocked); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &w, nil
}

// SetBlocked bloqueia/desbloqueia a conta para novas apostas.
// Não afeta apostas pendentes: elas ainda liquidam e creditam.
func (p *Postgres) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE wallets SET is_blocked=$1, version = version + 1 WHERE user_id=$2`, blocked, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Ledger retorna o extrato recente da carteira, mais recente primeiro
func (p *Postgres) Ledger(ctx context.Context, userID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT l.id, l.operation_type, l.amount_cents, COALESCE(l.description,''), l.related_bet_id, l.created_at
		FROM wallet_ledger l
		JOIN wallets w ON w.id = l.wallet_id
		WHERE w.user_id=$1
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerEntry
	for rows.Next() {
		var (
			e     LedgerEntry
			betID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OperationType, &e.AmountCents, &e.Description, &betID, &e.CreatedAt); err != nil {
			return nil, err
		}
		if betID.Valid {
			s := betID.String
			e.RelatedBetID = &s
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

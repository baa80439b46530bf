package repo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/game-bet-platform/internal/shared/errs"
)

func oddsJSON(t *testing.T, odds map[string]int64) []byte {
	t.Helper()
	b, err := json.Marshal(odds)
	require.NoError(t, err)
	return b
}

func settlementGameRow(t *testing.T, status string, odds map[string]int64) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{"game_type", "mode", "status", "odds"}).
		AddRow("cricket_toss", "single", status, oddsJSON(t, odds))
}

func instanceRow(t *testing.T, odds map[string]int64) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"id", "game_type", "mode", "status", "odds", "min_stake_cents", "max_stake_cents",
		"winning_outcome", "created_by", "created_at", "closed_at", "result_declared_at",
	}).AddRow("g1", "cricket_toss", "single", "RESULTED", oddsJSON(t, odds),
		int64(1000), int64(1000000), "team_a", "admin-1", time.Now(), time.Now(), time.Now())
}

func TestDeclareResultSettlesBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	odds := map[string]int64{"team_a": 150, "team_b": 220}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT game_type, mode, status, odds FROM game_instances").
		WithArgs("g1").
		WillReturnRows(settlementGameRow(t, "CLOSED", odds))
	mock.ExpectQuery("SELECT id, user_id, prediction, stake_cents").
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "prediction", "stake_cents"}).
			AddRow("b1", "u1", "team_a", int64(1000)).
			AddRow("b2", "u2", "team_b", int64(500)))

	// vencedor: aposta atualizada, carteira creditada, ledger registrado
	mock.ExpectExec("UPDATE bets SET status=").
		WithArgs("WON", int64(1500), "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE wallets SET balance_cents = balance_cents").
		WithArgs(int64(1500), "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("w1"))
	mock.ExpectExec("INSERT INTO wallet_ledger").
		WithArgs("w1", int64(1500), "payout:g1", "b1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	// perdedor: só o status terminal, sem crédito
	mock.ExpectExec("UPDATE bets SET status=").
		WithArgs("LOST", int64(0), "b2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("UPDATE game_instances SET status='RESULTED'").
		WithArgs("team_a", "g1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, game_type, mode, status, odds, min_stake_cents").
		WithArgs("g1").
		WillReturnRows(instanceRow(t, odds))
	mock.ExpectCommit()

	rep, inst, err := NewPostgres(db).DeclareResult(context.Background(), "g1", "team_a")
	require.NoError(t, err)
	assert.Equal(t, 1, rep.WonCount)
	assert.Equal(t, 1, rep.LostCount)
	assert.Equal(t, int64(1500), rep.TotalPaidCents)
	assert.Equal(t, "RESULTED", string(inst.Status))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareResultAlreadySettled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// segunda apuração falha sem nenhuma mutação (guarda de idempotência)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT game_type, mode, status, odds FROM game_instances").
		WithArgs("g1").
		WillReturnRows(settlementGameRow(t, "RESULTED", map[string]int64{"team_a": 150, "team_b": 220}))
	mock.ExpectRollback()

	_, _, err = NewPostgres(db).DeclareResult(context.Background(), "g1", "team_a")
	require.ErrorIs(t, err, errs.ErrAlreadySettled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareResultRequiresClosed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// apurar direto de OPEN é rejeitado: fecha primeiro
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT game_type, mode, status, odds FROM game_instances").
		WithArgs("g1").
		WillReturnRows(settlementGameRow(t, "OPEN", map[string]int64{"team_a": 150, "team_b": 220}))
	mock.ExpectRollback()

	_, _, err = NewPostgres(db).DeclareResult(context.Background(), "g1", "team_a")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclareResultMissingOddsAbortsBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// palpite vencedor sem preço: transação inteira desfeita, nenhuma
	// aposta atualizada e nenhum crédito aplicado
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT game_type, mode, status, odds FROM game_instances").
		WithArgs("g1").
		WillReturnRows(settlementGameRow(t, "CLOSED", map[string]int64{"team_b": 220}))
	mock.ExpectQuery("SELECT id, user_id, prediction, stake_cents").
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "prediction", "stake_cents"}).
			AddRow("b1", "u1", "team_a", int64(1000)))
	mock.ExpectRollback()

	_, _, err = NewPostgres(db).DeclareResult(context.Background(), "g1", "team_a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no odds")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseAlreadyResulted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM game_instances").
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("RESULTED"))
	mock.ExpectRollback()

	_, err = NewPostgres(db).Close(context.Background(), "g1")
	require.ErrorIs(t, err, errs.ErrAlreadySettled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

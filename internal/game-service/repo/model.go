package repo

import (
	"time"

	"github.com/radieske/game-bet-platform/internal/game-service/game"
)

// Instance é a instância de jogo persistida no Postgres.
// Nunca é deletada: registro histórico.
type Instance struct {
	ID               string
	GameType         game.Type
	Mode             game.Mode
	Status           game.Status
	Odds             game.Odds
	MinStakeCents    int64
	MaxStakeCents    int64
	WinningOutcome   *string
	CreatedBy        string
	CreatedAt        time.Time
	ClosedAt         *time.Time
	ResultDeclaredAt *time.Time
}

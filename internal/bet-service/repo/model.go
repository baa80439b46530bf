package repo

import "time"

// Bet é a aposta persistida no Postgres.
// Criada junto com o débito da carteira; mutada exatamente uma vez pela
// liquidação; imutável depois.
type Bet struct {
	ID          string
	UserID      string
	GameID      string
	Prediction  string
	StakeCents  int64
	Status      string // PENDING | WON | LOST
	PayoutCents int64
	CreatedAt   time.Time
	SettledAt   *time.Time
}

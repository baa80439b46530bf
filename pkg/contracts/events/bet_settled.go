package events

import "time"

// Evento emitido pelo game-service para cada aposta liquidada.
// Status é "WON" ou "LOST"; payout_cents é 0 para apostas perdidas.
type BetSettled struct {
	BetID       string    `json:"bet_id"`
	UserID      string    `json:"user_id"`
	GameID      string    `json:"game_id"`
	Outcome     string    `json:"outcome"`
	Prediction  string    `json:"prediction"`
	Status      string    `json:"status"`
	StakeCents  int64     `json:"stake_cents"`
	PayoutCents int64     `json:"payout_cents"`
	Ts          time.Time `json:"ts"`
}

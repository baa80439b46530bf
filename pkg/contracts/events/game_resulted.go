package events

import "time"

// Evento emitido uma única vez por instância de jogo, após a liquidação
// completa do lote de apostas.
type GameResulted struct {
	GameID           string    `json:"game_id"`
	GameType         string    `json:"game_type"`
	Mode             string    `json:"mode"`
	Outcome          string    `json:"outcome"`
	TotalBets        int       `json:"total_bets"`
	TotalStakedCents int64     `json:"total_staked_cents"`
	TotalPaidCents   int64     `json:"total_paid_cents"`
	Ts               time.Time `json:"ts"`
}

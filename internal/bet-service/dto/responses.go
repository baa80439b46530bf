package dto

import "time"

type PlaceBetResponse struct {
	BetID           string `json:"betId"`
	Status          string `json:"status"` // PENDING
	NewBalanceCents int64  `json:"new_balance_cents"`
}

type BetResponse struct {
	BetID       string     `json:"betId"`
	UserID      string     `json:"userId"`
	GameID      string     `json:"gameId"`
	Prediction  string     `json:"prediction"`
	StakeCents  int64      `json:"stake_cents"`
	Status      string     `json:"status"`
	PayoutCents int64      `json:"payout_cents"`
	CreatedAt   time.Time  `json:"created_at"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
}

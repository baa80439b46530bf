package dto

import "time"

type GameResponse struct {
	ID               string           `json:"id"`
	GameType         string           `json:"game_type"`
	Mode             string           `json:"mode"`
	Status           string           `json:"status"`
	Odds             map[string]int64 `json:"odds"`
	MinStakeCents    int64            `json:"min_stake_cents"`
	MaxStakeCents    int64            `json:"max_stake_cents"`
	WinningOutcome   *string          `json:"winning_outcome,omitempty"`
	CreatedBy        string           `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	ClosedAt         *time.Time       `json:"closed_at,omitempty"`
	ResultDeclaredAt *time.Time       `json:"result_declared_at,omitempty"`
}

type SettledBet struct {
	BetID       string `json:"bet_id"`
	UserID      string `json:"user_id"`
	Prediction  string `json:"prediction"`
	StakeCents  int64  `json:"stake_cents"`
	Status      string `json:"status"`
	PayoutCents int64  `json:"payout_cents"`
}

type SettlementResponse struct {
	GameID           string       `json:"game_id"`
	Outcome          string       `json:"outcome"`
	TotalBets        int          `json:"total_bets"`
	WonCount         int          `json:"won_count"`
	LostCount        int          `json:"lost_count"`
	TotalStakedCents int64        `json:"total_staked_cents"`
	TotalPaidCents   int64        `json:"total_paid_cents"`
	Results          []SettledBet `json:"results"`
}

package dto

type PlaceBetRequest struct {
	UserID     string `json:"userId"`
	GameID     string `json:"gameId"`
	Prediction string `json:"prediction"` // ex: "heads", "team_a", "47", "A7"
	StakeCents int64  `json:"stake_cents"`
}

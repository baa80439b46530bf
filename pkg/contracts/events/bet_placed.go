package events

// Evento publicado pelo bet-service após o débito e a criação da aposta.
type BetPlaced struct {
	BetID      string `json:"bet_id"`
	UserID     string `json:"user_id"`
	GameID     string `json:"game_id"`
	GameType   string `json:"game_type"`
	Mode       string `json:"mode"`
	Prediction string `json:"prediction"`
	StakeCents int64  `json:"stake_cents"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}

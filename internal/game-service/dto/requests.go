package dto

type CreateGameRequest struct {
	GameType string           `json:"game_type"` // coin_flip | satamatka | cricket_toss | team_match
	Mode     string           `json:"mode"`      // single | jodi | harf | odd_even | crossing
	Odds     map[string]int64 `json:"odds"`      // outcome -> multiplicador (base 100)

	// Limites de aposta opcionais; zero usa o default do tipo de jogo
	MinStakeCents int64 `json:"min_stake_cents,omitempty"`
	MaxStakeCents int64 `json:"max_stake_cents,omitempty"`
}

type DeclareResultRequest struct {
	Outcome string `json:"outcome"`
}

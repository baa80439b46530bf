package topics

const (
	// Apostas
	BetPlaced = "bet_placed"

	// Resultado / liquidação
	GameResulted = "game_resulted"
	BetSettled   = "bet_settled"

	// DLQs
	BetPlacedDLQ  = "bet_placed_dlq"
	BetSettledDLQ = "bet_settled_dlq"
)

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPrediction(t *testing.T) {
	cases := []struct {
		name string
		gt   Type
		mode Mode
		pred string
		want bool
	}{
		{"coin flip heads", TypeCoinFlip, ModeSingle, "heads", true},
		{"coin flip tails", TypeCoinFlip, ModeSingle, "tails", true},
		{"coin flip bogus", TypeCoinFlip, ModeSingle, "edge", false},
		{"cricket toss team", TypeCricketToss, ModeSingle, "team_b", true},
		{"team match draw", TypeTeamMatch, ModeSingle, "draw", true},
		{"draw not valid for toss", TypeCricketToss, ModeSingle, "draw", false},
		{"jodi two digits", TypeSatamatka, ModeJodi, "47", true},
		{"jodi one digit", TypeSatamatka, ModeJodi, "7", false},
		{"jodi letters", TypeSatamatka, ModeJodi, "4a", false},
		{"harf andar", TypeSatamatka, ModeHarf, "A4", true},
		{"harf bahar", TypeSatamatka, ModeHarf, "B9", true},
		{"harf bad prefix", TypeSatamatka, ModeHarf, "C4", false},
		{"harf bare digit", TypeSatamatka, ModeHarf, "4", false},
		{"odd_even odd", TypeSatamatka, ModeOddEven, "odd", true},
		{"odd_even even", TypeSatamatka, ModeOddEven, "even", true},
		{"odd_even number", TypeSatamatka, ModeOddEven, "47", false},
		{"crossing three digits", TypeSatamatka, ModeCrossing, "147", true},
		{"crossing repeated digit", TypeSatamatka, ModeCrossing, "144", false},
		{"crossing too short", TypeSatamatka, ModeCrossing, "1", false},
		{"crossing too long", TypeSatamatka, ModeCrossing, "12345", false},
		{"mode not in type", TypeCoinFlip, ModeJodi, "47", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidPrediction(tc.gt, tc.mode, tc.pred))
		})
	}
}

func TestValidOutcome(t *testing.T) {
	assert.True(t, ValidOutcome(TypeCoinFlip, "heads"))
	assert.False(t, ValidOutcome(TypeCoinFlip, "47"))
	assert.True(t, ValidOutcome(TypeSatamatka, "07"))
	assert.True(t, ValidOutcome(TypeSatamatka, "99"))
	assert.False(t, ValidOutcome(TypeSatamatka, "7"))
	assert.False(t, ValidOutcome(TypeSatamatka, "100"))
	assert.True(t, ValidOutcome(TypeTeamMatch, "draw"))
	assert.False(t, ValidOutcome(Type("roulette"), "red"))
}

func TestMatches(t *testing.T) {
	cases := []struct {
		name    string
		gt      Type
		mode    Mode
		pred    string
		outcome string
		want    bool
	}{
		{"single exact", TypeCricketToss, ModeSingle, "team_a", "team_a", true},
		{"single miss", TypeCricketToss, ModeSingle, "team_a", "team_b", false},
		{"jodi exact", TypeSatamatka, ModeJodi, "47", "47", true},
		{"jodi miss", TypeSatamatka, ModeJodi, "47", "74", false},
		{"harf andar hit", TypeSatamatka, ModeHarf, "A4", "45", true},
		{"harf andar miss", TypeSatamatka, ModeHarf, "A4", "54", false},
		{"harf bahar hit", TypeSatamatka, ModeHarf, "B5", "45", true},
		{"harf bahar miss", TypeSatamatka, ModeHarf, "B4", "45", false},
		{"odd outcome", TypeSatamatka, ModeOddEven, "odd", "47", true},
		{"even outcome", TypeSatamatka, ModeOddEven, "even", "48", true},
		{"odd vs even", TypeSatamatka, ModeOddEven, "odd", "48", false},
		{"crossing both digits in set", TypeSatamatka, ModeCrossing, "147", "47", true},
		{"crossing same digit twice", TypeSatamatka, ModeCrossing, "147", "44", true},
		{"crossing one digit out", TypeSatamatka, ModeCrossing, "147", "12", false},
		{"invalid outcome never matches", TypeCricketToss, ModeSingle, "team_a", "team_c", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.gt, tc.mode, tc.pred, tc.outcome))
		})
	}
}

func TestValidateOdds(t *testing.T) {
	// domínio fechado: todo resultado precisa de preço
	err := ValidateOdds(TypeTeamMatch, ModeSingle, Odds{"team_a": 150, "team_b": 220})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draw")

	assert.NoError(t, ValidateOdds(TypeTeamMatch, ModeSingle, Odds{"team_a": 150, "team_b": 220, "draw": 300}))
	assert.NoError(t, ValidateOdds(TypeCoinFlip, ModeSingle, Odds{"heads": 195, "tails": 195}))

	// multiplicador precisa ser positivo
	assert.Error(t, ValidateOdds(TypeCoinFlip, ModeSingle, Odds{"heads": 195, "tails": 0}))
	assert.Error(t, ValidateOdds(TypeCoinFlip, ModeSingle, Odds{"heads": -10, "tails": 195}))

	// chave desconhecida é rejeitada
	assert.Error(t, ValidateOdds(TypeCoinFlip, ModeSingle, Odds{"heads": 195, "tails": 195, "edge": 500}))

	// satamatka exige o coringa; override específico é aceito
	assert.Error(t, ValidateOdds(TypeSatamatka, ModeJodi, Odds{"47": 9000}))
	assert.NoError(t, ValidateOdds(TypeSatamatka, ModeJodi, Odds{"*": 9000}))
	assert.NoError(t, ValidateOdds(TypeSatamatka, ModeJodi, Odds{"*": 9000, "47": 9500}))

	// tabela vazia e tipo/modo desconhecidos
	assert.Error(t, ValidateOdds(TypeCoinFlip, ModeSingle, Odds{}))
	assert.Error(t, ValidateOdds(Type("roulette"), ModeSingle, Odds{"red": 200}))
	assert.Error(t, ValidateOdds(TypeCoinFlip, ModeJodi, Odds{"47": 200}))
}

func TestMultiplierFor(t *testing.T) {
	odds := Odds{"*": 9000, "47": 9500}

	m, ok := MultiplierFor(odds, "47")
	assert.True(t, ok)
	assert.Equal(t, int64(9500), m)

	m, ok = MultiplierFor(odds, "12")
	assert.True(t, ok)
	assert.Equal(t, int64(9000), m)

	_, ok = MultiplierFor(Odds{"heads": 195}, "tails")
	assert.False(t, ok)
}

func TestPayoutFloors(t *testing.T) {
	// 1000 * 1.5x = 1500 exato
	assert.Equal(t, int64(1500), Payout(1000, 150))
	// 999 * 1.5x = 1498.5 -> sempre pra baixo
	assert.Equal(t, int64(1498), Payout(999, 150))
	// odd de 1.95x
	assert.Equal(t, int64(195), Payout(100, 195))
	assert.Equal(t, int64(1), Payout(1, 195))
}

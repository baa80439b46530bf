package game

import (
	"fmt"
	"strconv"

	"github.com/radieske/game-bet-platform/internal/shared/errs"
)

// Tipos de jogo suportados pela plataforma.
type Type string

const (
	TypeCoinFlip    Type = "coin_flip"
	TypeSatamatka   Type = "satamatka"
	TypeCricketToss Type = "cricket_toss"
	TypeTeamMatch   Type = "team_match"
)

// Mode é a variante do jogo. Jogos de resultado direto usam "single";
// satamatka tem modos com regra de acerto graduada.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeJodi     Mode = "jodi"
	ModeHarf     Mode = "harf"
	ModeOddEven  Mode = "odd_even"
	ModeCrossing Mode = "crossing"
)

// Status da instância de jogo. Transições monotônicas OPEN -> CLOSED -> RESULTED.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusClosed   Status = "CLOSED"
	StatusResulted Status = "RESULTED"
)

// OddsScale é a base fixed-point das odds: 150 significa 1.5x.
const OddsScale = 100

// WildcardOutcome é a chave coringa da tabela de odds — multiplicador
// único para qualquer palpite sem preço específico (ex.: jodi 90x).
const WildcardOutcome = "*"

// Odds é a tabela de multiplicadores da instância, em base OddsScale.
type Odds map[string]int64

// Definition descreve um tipo de jogo do registro estático.
type Definition struct {
	Type     Type
	Modes    []Mode
	Outcomes []string // domínio fechado de resultados; vazio para satamatka (00..99)

	DefaultMinStakeCents int64
	DefaultMaxStakeCents int64
}

// registry é o registro estático de jogos. Um único ponto de verdade
// para domínio de palpites, regra de acerto e limites de aposta.
var registry = map[Type]Definition{
	TypeCoinFlip: {
		Type:                 TypeCoinFlip,
		Modes:                []Mode{ModeSingle},
		Outcomes:             []string{"heads", "tails"},
		DefaultMinStakeCents: 1000,    // 10.00
		DefaultMaxStakeCents: 1000000, // 10k.00
	},
	TypeSatamatka: {
		Type:                 TypeSatamatka,
		Modes:                []Mode{ModeJodi, ModeHarf, ModeOddEven, ModeCrossing},
		DefaultMinStakeCents: 500,
		DefaultMaxStakeCents: 500000,
	},
	TypeCricketToss: {
		Type:                 TypeCricketToss,
		Modes:                []Mode{ModeSingle},
		Outcomes:             []string{"team_a", "team_b"},
		DefaultMinStakeCents: 1000,
		DefaultMaxStakeCents: 1000000,
	},
	TypeTeamMatch: {
		Type:                 TypeTeamMatch,
		Modes:                []Mode{ModeSingle},
		Outcomes:             []string{"team_a", "team_b", "draw"},
		DefaultMinStakeCents: 1000,
		DefaultMaxStakeCents: 2000000,
	},
}

// Lookup retorna a definição de um tipo de jogo.
func Lookup(t Type) (Definition, bool) {
	d, ok := registry[t]
	return d, ok
}

// HasMode verifica se a variante pertence ao tipo de jogo.
func (d Definition) HasMode(m Mode) bool {
	for _, dm := range d.Modes {
		if dm == m {
			return true
		}
	}
	return false
}

// ValidOutcome valida um resultado declarável para o tipo/variante.
// Para satamatka o resultado é sempre o número de dois dígitos "00".."99",
// independente do modo apostado.
func ValidOutcome(t Type, outcome string) bool {
	d, ok := registry[t]
	if !ok {
		return false
	}
	if t == TypeSatamatka {
		return isTwoDigit(outcome)
	}
	for _, o := range d.Outcomes {
		if o == outcome {
			return true
		}
	}
	return false
}

// ValidPrediction valida um palpite para o tipo/variante.
func ValidPrediction(t Type, m Mode, prediction string) bool {
	d, ok := registry[t]
	if !ok || !d.HasMode(m) {
		return false
	}

	switch m {
	case ModeSingle:
		for _, o := range d.Outcomes {
			if o == prediction {
				return true
			}
		}
		return false
	case ModeJodi:
		return isTwoDigit(prediction)
	case ModeHarf:
		// "A<d>" = dígito da esquerda (andar), "B<d>" = da direita (bahar)
		if len(prediction) != 2 || (prediction[0] != 'A' && prediction[0] != 'B') {
			return false
		}
		return isDigit(prediction[1])
	case ModeOddEven:
		return prediction == "odd" || prediction == "even"
	case ModeCrossing:
		// 2 a 4 dígitos distintos; ganha se ambos os dígitos do
		// resultado pertencerem ao conjunto
		if len(prediction) < 2 || len(prediction) > 4 {
			return false
		}
		seen := map[byte]bool{}
		for i := 0; i < len(prediction); i++ {
			c := prediction[i]
			if !isDigit(c) || seen[c] {
				return false
			}
			seen[c] = true
		}
		return true
	}
	return false
}

// Matches aplica a regra de acerto da variante: igualdade simples para
// jogos de resultado direto, regra graduada para os modos de satamatka.
func Matches(t Type, m Mode, prediction, outcome string) bool {
	if !ValidOutcome(t, outcome) || !ValidPrediction(t, m, prediction) {
		return false
	}

	switch m {
	case ModeSingle, ModeJodi:
		return prediction == outcome
	case ModeHarf:
		if prediction[0] == 'A' {
			return prediction[1] == outcome[0]
		}
		return prediction[1] == outcome[1]
	case ModeOddEven:
		n, err := strconv.Atoi(outcome)
		if err != nil {
			return false
		}
		if n%2 == 0 {
			return prediction == "even"
		}
		return prediction == "odd"
	case ModeCrossing:
		return containsDigit(prediction, outcome[0]) && containsDigit(prediction, outcome[1])
	}
	return false
}

// ValidateOdds valida a tabela de odds na criação da instância.
// Jogos de domínio fechado exigem preço para cada resultado possível;
// satamatka exige o coringa "*" (multiplicador flat da variante) e
// aceita overrides por palpite específico.
func ValidateOdds(t Type, m Mode, odds Odds) error {
	d, ok := registry[t]
	if !ok {
		return fmt.Errorf("%w: unknown game type %q", errs.ErrValidation, t)
	}
	if !d.HasMode(m) {
		return fmt.Errorf("%w: mode %q not valid for %q", errs.ErrValidation, m, t)
	}
	if len(odds) == 0 {
		return fmt.Errorf("%w: empty odds table", errs.ErrValidation)
	}

	for k, mult := range odds {
		if mult <= 0 {
			return fmt.Errorf("%w: odds[%s] must be positive", errs.ErrValidation, k)
		}
		if k == WildcardOutcome {
			continue
		}
		if !ValidPrediction(t, m, k) {
			return fmt.Errorf("%w: odds key %q is not a valid outcome", errs.ErrValidation, k)
		}
	}

	if t == TypeSatamatka {
		if _, ok := odds[WildcardOutcome]; !ok {
			return fmt.Errorf("%w: satamatka odds require the %q entry", errs.ErrValidation, WildcardOutcome)
		}
		return nil
	}

	for _, o := range d.Outcomes {
		if _, ok := odds[o]; !ok {
			return fmt.Errorf("%w: missing odds for outcome %q", errs.ErrValidation, o)
		}
	}
	return nil
}

// MultiplierFor resolve o multiplicador de um palpite vencedor:
// preço específico primeiro, coringa como fallback.
func MultiplierFor(odds Odds, prediction string) (int64, bool) {
	if mult, ok := odds[prediction]; ok {
		return mult, true
	}
	mult, ok := odds[WildcardOutcome]
	return mult, ok
}

// Payout calcula o prêmio em centavos: floor(stake * mult / OddsScale).
// Sempre arredonda pra baixo — nunca paga fração de centavo a mais.
func Payout(stakeCents, multiplier int64) int64 {
	return stakeCents * multiplier / OddsScale
}

func isTwoDigit(s string) bool {
	return len(s) == 2 && isDigit(s[0]) && isDigit(s[1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func containsDigit(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

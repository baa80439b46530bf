package settlement

import (
	"fmt"

	"github.com/radieske/game-bet-platform/internal/game-service/game"
	"github.com/radieske/game-bet-platform/internal/shared/errs"
)

// Status terminais de aposta gravados pela liquidação.
const (
	StatusWon  = "WON"
	StatusLost = "LOST"
)

// BetInput é a projeção mínima de uma aposta PENDING a liquidar.
type BetInput struct {
	ID         string
	UserID     string
	Prediction string
	StakeCents int64
}

// BetResult é a decisão da liquidação para uma aposta.
type BetResult struct {
	BetID       string
	UserID      string
	Prediction  string
	StakeCents  int64
	Status      string
	PayoutCents int64
}

// Report consolida o resultado da liquidação de uma instância.
type Report struct {
	GameID           string
	Outcome          string
	Results          []BetResult
	TotalBets        int
	WonCount         int
	LostCount        int
	TotalStakedCents int64
	TotalPaidCents   int64
}

// Compute decide o destino de cada aposta do lote, sem tocar em estado.
// Puro de propósito: a aplicação transacional fica no repositório, e o
// cálculo fica testável isolado.
//
// Prêmio = floor(stake * multiplicador / OddsScale); aposta perdida
// recebe payout 0. Palpite vencedor sem preço na tabela aborta o lote
// inteiro — meio lote liquidado é violação grave de consistência.
func Compute(gameID string, t game.Type, m game.Mode, odds game.Odds, outcome string, bets []BetInput) (*Report, error) {
	if !game.ValidOutcome(t, outcome) {
		return nil, fmt.Errorf("%w: outcome %q not valid for %s", errs.ErrValidation, outcome, t)
	}

	rep := &Report{
		GameID:    gameID,
		Outcome:   outcome,
		TotalBets: len(bets),
		Results:   make([]BetResult, 0, len(bets)),
	}

	for _, b := range bets {
		res := BetResult{
			BetID:      b.ID,
			UserID:     b.UserID,
			Prediction: b.Prediction,
			StakeCents: b.StakeCents,
			Status:     StatusLost,
		}
		rep.TotalStakedCents += b.StakeCents

		if game.Matches(t, m, b.Prediction, outcome) {
			mult, ok := game.MultiplierFor(odds, b.Prediction)
			if !ok {
				return nil, fmt.Errorf("settle %s: no odds for winning prediction %q (bet %s)", gameID, b.Prediction, b.ID)
			}
			res.Status = StatusWon
			res.PayoutCents = game.Payout(b.StakeCents, mult)
			rep.WonCount++
			rep.TotalPaidCents += res.PayoutCents
		} else {
			rep.LostCount++
		}

		rep.Results = append(rep.Results, res)
	}

	return rep, nil
}

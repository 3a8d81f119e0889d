// Package game holds the pure rules of the casino mini-games.
package game

import (
	"math"

	"vie_bot/internal/domain"
)

// Outcome is the settled result of one game.
type Outcome struct {
	Result     domain.GameResult `json:"result"`
	Multiplier float64           `json:"multiplier"`
	Payout     int64             `json:"payout"` // credited back, stake included
	Reason     string            `json:"reason"`
}

// Net is the balance delta of a game whose stake was bet.
func (o Outcome) Net(bet int64) int64 {
	return o.Payout - bet
}

// Payout floors bet*multiplier.
func Payout(bet int64, multiplier float64) int64 {
	if multiplier <= 0 || bet <= 0 {
		return 0
	}
	return int64(math.Floor(float64(bet)*multiplier + 1e-9))
}

func settle(bet int64, multiplier float64, reason string) Outcome {
	res := domain.GameResultLose
	switch {
	case multiplier > 1:
		res = domain.GameResultWin
	case multiplier == 1:
		res = domain.GameResultDraw
	}
	return Outcome{Result: res, Multiplier: multiplier, Payout: Payout(bet, multiplier), Reason: reason}
}

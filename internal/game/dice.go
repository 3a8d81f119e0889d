package game

import (
	"vie_bot/internal/domain"
	"vie_bot/internal/random"
)

// BauCuaFaces are the six faces of a bầu cua die.
var BauCuaFaces = []string{"bau", "cua", "tom", "ca", "ga", "nai"}

// ParseBauCua validates a face name.
func ParseBauCua(face string) (string, error) {
	for _, f := range BauCuaFaces {
		if f == face {
			return f, nil
		}
	}
	return "", domain.Fail(domain.ErrInvalidTarget, "unknown face %q, pick one of %v", face, BauCuaFaces)
}

// BauCuaRoll is three dice and the number that matched the pick.
type BauCuaRoll struct {
	Pick    string    `json:"pick"`
	Dice    [3]string `json:"dice"`
	Matches int       `json:"matches"`
	Outcome Outcome   `json:"outcome"`
}

// PlayBauCua rolls three dice. The payout is bet times the number of matches.
func PlayBauCua(pick string, bet int64, src random.Source) BauCuaRoll {
	r := BauCuaRoll{Pick: pick}
	for i := range r.Dice {
		r.Dice[i] = random.Pick(src, BauCuaFaces)
		if r.Dice[i] == pick {
			r.Matches++
		}
	}
	r.Outcome = settle(bet, float64(r.Matches), "matches")
	return r
}

const (
	XocDiaEven = "chan"
	XocDiaOdd  = "le"
)

// XocDiaRoll is two dice and the parity of their sum.
type XocDiaRoll struct {
	Pick    string  `json:"pick"`
	Dice    [2]int  `json:"dice"`
	Parity  string  `json:"parity"`
	Outcome Outcome `json:"outcome"`
}

// ParseXocDia validates a parity pick.
func ParseXocDia(pick string) (string, error) {
	if pick != XocDiaEven && pick != XocDiaOdd {
		return "", domain.Fail(domain.ErrInvalidTarget, "pick %q or %q", XocDiaEven, XocDiaOdd)
	}
	return pick, nil
}

// PlayXocDia pays multiplier when the parity of two dice matches pick.
func PlayXocDia(pick string, bet int64, multiplier float64, src random.Source) XocDiaRoll {
	r := XocDiaRoll{Pick: pick}
	r.Dice[0] = src.Intn(6) + 1
	r.Dice[1] = src.Intn(6) + 1
	r.Parity = XocDiaOdd
	if (r.Dice[0]+r.Dice[1])%2 == 0 {
		r.Parity = XocDiaEven
	}
	if r.Parity == pick {
		r.Outcome = settle(bet, multiplier, "parity")
	} else {
		r.Outcome = settle(bet, 0, "parity")
	}
	return r
}

// CoinFlip is the plain 50/50 bet: a draw in [0,100) under winChance pays
// multiplier.
func CoinFlip(bet int64, winChance, multiplier float64, src random.Source) Outcome {
	if random.Percent(src) < winChance {
		return settle(bet, multiplier, "heads")
	}
	return settle(bet, 0, "tails")
}

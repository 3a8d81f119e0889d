package game

import (
	"fmt"
	"strings"

	"vie_bot/internal/random"
)

// Card ranks run 1 (ace) to 13 (king).
type Card int

func (c Card) String() string {
	switch c {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return fmt.Sprint(int(c))
	}
}

func drawCard(src random.Source) Card {
	return Card(src.Intn(13) + 1)
}

// Hand is a list of cards.
type Hand []Card

// Value counts faces as 10 and aces as 11 unless that busts the hand.
func (h Hand) Value() int {
	total, aces := 0, 0
	for _, c := range h {
		switch {
		case c == 1:
			aces++
			total += 11
		case c >= 10:
			total += 10
		default:
			total += int(c)
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// Natural reports a two-card 21.
func (h Hand) Natural() bool {
	return len(h) == 2 && h.Value() == 21
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ") + fmt.Sprintf(" (%d)", h.Value())
}

type BlackjackState string

const (
	BlackjackPlaying  BlackjackState = "playing"
	BlackjackFinished BlackjackState = "finished"
)

// BlackjackRules are the payout multipliers and the dealer's stand total.
type BlackjackRules struct {
	BlackjackMultiplier float64
	WinMultiplier       float64
	DealerStand         int
}

// Blackjack is one hand against the dealer.
type Blackjack struct {
	Bet     int64          `json:"bet"`
	Player  Hand           `json:"player"`
	Dealer  Hand           `json:"dealer"`
	Doubled bool           `json:"doubled"`
	State   BlackjackState `json:"state"`
	Outcome *Outcome       `json:"outcome,omitempty"`

	rules BlackjackRules
}

// DealBlackjack deals two cards each. A natural settles immediately.
func DealBlackjack(bet int64, rules BlackjackRules, src random.Source) *Blackjack {
	if rules.DealerStand == 0 {
		rules.DealerStand = 17
	}
	g := &Blackjack{
		Bet:    bet,
		Player: Hand{drawCard(src), drawCard(src)},
		Dealer: Hand{drawCard(src), drawCard(src)},
		State:  BlackjackPlaying,
		rules:  rules,
	}
	if g.Player.Natural() || g.Dealer.Natural() {
		g.finish()
	}
	return g
}

// Finished reports whether the hand is settled.
func (g *Blackjack) Finished() bool { return g.State == BlackjackFinished }

// Stake is the total amount at risk, doubled bets included.
func (g *Blackjack) Stake() int64 {
	if g.Doubled {
		return g.Bet * 2
	}
	return g.Bet
}

// Hit draws a card for the player; a bust settles the hand.
func (g *Blackjack) Hit(src random.Source) error {
	if g.Finished() {
		return errFinished
	}
	g.Player = append(g.Player, drawCard(src))
	if v := g.Player.Value(); v >= 21 {
		if v == 21 {
			g.dealerPlay(src)
		}
		g.finish()
	}
	return nil
}

// Stand lets the dealer play out and settles.
func (g *Blackjack) Stand(src random.Source) error {
	if g.Finished() {
		return errFinished
	}
	g.dealerPlay(src)
	g.finish()
	return nil
}

// CanDouble reports whether Double would be accepted.
func (g *Blackjack) CanDouble() error {
	if g.Finished() {
		return errFinished
	}
	if len(g.Player) != 2 {
		return errDoubleLate
	}
	return nil
}

// Clone returns an independent copy of the hand.
func (g *Blackjack) Clone() *Blackjack {
	cp := *g
	cp.Player = append(Hand(nil), g.Player...)
	cp.Dealer = append(Hand(nil), g.Dealer...)
	if g.Outcome != nil {
		o := *g.Outcome
		cp.Outcome = &o
	}
	return &cp
}

// Double doubles the stake, draws exactly one card and stands. Only allowed
// on the opening two cards.
func (g *Blackjack) Double(src random.Source) error {
	if err := g.CanDouble(); err != nil {
		return err
	}
	g.Doubled = true
	g.Player = append(g.Player, drawCard(src))
	if g.Player.Value() <= 21 {
		g.dealerPlay(src)
	}
	g.finish()
	return nil
}

func (g *Blackjack) dealerPlay(src random.Source) {
	for g.Dealer.Value() < g.rules.DealerStand {
		g.Dealer = append(g.Dealer, drawCard(src))
	}
}

func (g *Blackjack) finish() {
	stake := g.Stake()
	p, d := g.Player.Value(), g.Dealer.Value()
	var o Outcome
	switch {
	case g.Player.Natural() && g.Dealer.Natural():
		o = settle(stake, 1, "both blackjack")
	case g.Player.Natural():
		o = settle(stake, g.rules.BlackjackMultiplier, "blackjack")
	case p > 21:
		o = settle(stake, 0, "bust")
	case g.Dealer.Natural():
		o = settle(stake, 0, "dealer blackjack")
	case d > 21:
		o = settle(stake, g.rules.WinMultiplier, "dealer bust")
	case p > d:
		o = settle(stake, g.rules.WinMultiplier, "win")
	case p < d:
		o = settle(stake, 0, "lose")
	default:
		o = settle(stake, 1, "push")
	}
	g.Outcome = &o
	g.State = BlackjackFinished
}

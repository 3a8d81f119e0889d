package game

import (
	"errors"
	"strings"
	"testing"
	"unicode"

	"vie_bot/internal/domain"
	"vie_bot/internal/random"
)

var rules = BlackjackRules{BlackjackMultiplier: 2.5, WinMultiplier: 2, DealerStand: 17}

// seq replays a fixed list of Intn results.
type seq struct {
	ints []int
	i    int
}

func (s *seq) Intn(n int) int {
	v := s.ints[s.i%len(s.ints)] % n
	s.i++
	return v
}

func (s *seq) Float64() float64 { return 0.5 }

// cards converts ranks to the Intn draws that produce them.
func cards(ranks ...int) *seq {
	ints := make([]int, len(ranks))
	for i, r := range ranks {
		ints[i] = r - 1
	}
	return &seq{ints: ints}
}

func TestHandValue(t *testing.T) {
	cases := []struct {
		hand Hand
		want int
	}{
		{Hand{1, 13}, 21},
		{Hand{1, 1}, 12},
		{Hand{1, 1, 9}, 21},
		{Hand{10, 12, 5}, 25},
		{Hand{1, 5, 10}, 16},
		{Hand{7, 8}, 15},
	}
	for _, c := range cases {
		if got := c.hand.Value(); got != c.want {
			t.Errorf("%v value = %d, want %d", c.hand, got, c.want)
		}
	}
	if !(Hand{1, 12}).Natural() || (Hand{7, 7, 7}).Natural() {
		t.Fatal("natural detection wrong")
	}
}

func TestBlackjackNaturalPays(t *testing.T) {
	// player A K, dealer 9 7
	g := DealBlackjack(100, rules, cards(1, 13, 9, 7))
	if !g.Finished() || g.Outcome.Result != domain.GameResultWin || g.Outcome.Payout != 250 {
		t.Fatalf("natural: %+v", g.Outcome)
	}
	if err := g.Hit(cards(2)); !errors.Is(err, domain.ErrStateConflict) {
		t.Fatalf("hit after finish: %v", err)
	}
}

func TestBlackjackStandPush(t *testing.T) {
	// player 10 9, dealer 10 6 draws a 3
	g := DealBlackjack(100, rules, cards(10, 9, 10, 6))
	if g.Finished() {
		t.Fatal("should still be playing")
	}
	if err := g.Stand(cards(3)); err != nil {
		t.Fatal(err)
	}
	// dealer 10 6 3 = 19 vs player 19 -> push
	if g.Outcome.Result != domain.GameResultDraw || g.Outcome.Payout != 100 {
		t.Fatalf("push: %+v dealer %v", g.Outcome, g.Dealer)
	}
}

func TestBlackjackBust(t *testing.T) {
	g := DealBlackjack(50, rules, cards(10, 6, 10, 7))
	if err := g.Hit(cards(9)); err != nil {
		t.Fatal(err)
	}
	if !g.Finished() || g.Outcome.Result != domain.GameResultLose || g.Outcome.Payout != 0 {
		t.Fatalf("bust: %+v", g.Outcome)
	}
}

func TestBlackjackDouble(t *testing.T) {
	// player 5 6, dealer 10 7; double draws 10 -> 21 vs 17
	g := DealBlackjack(100, rules, cards(5, 6, 10, 7))
	if err := g.Double(cards(10)); err != nil {
		t.Fatal(err)
	}
	if g.Stake() != 200 || g.Outcome.Payout != 400 || g.Outcome.Result != domain.GameResultWin {
		t.Fatalf("double: stake %d %+v", g.Stake(), g.Outcome)
	}

	late := DealBlackjack(100, rules, cards(2, 3, 10, 7))
	_ = late.Hit(cards(2))
	if err := late.Double(cards(2)); !errors.Is(err, domain.ErrStateConflict) {
		t.Fatalf("late double: %v", err)
	}
}

func TestBauCua(t *testing.T) {
	// faces index: bau=0 cua=1 ...
	r := PlayBauCua("cua", 100, &seq{ints: []int{1, 1, 4}})
	if r.Matches != 2 || r.Outcome.Payout != 200 || r.Outcome.Net(100) != 100 {
		t.Fatalf("two matches: %+v", r)
	}
	r = PlayBauCua("nai", 100, &seq{ints: []int{0, 1, 2}})
	if r.Matches != 0 || r.Outcome.Payout != 0 || r.Outcome.Result != domain.GameResultLose {
		t.Fatalf("no match: %+v", r)
	}
	if _, err := ParseBauCua("rong"); !errors.Is(err, domain.ErrInvalidTarget) {
		t.Fatalf("bad face: %v", err)
	}
}

func TestXocDia(t *testing.T) {
	// dice 1+3 = 4 even
	r := PlayXocDia(XocDiaEven, 100, 1.95, &seq{ints: []int{0, 2}})
	if r.Parity != XocDiaEven || r.Outcome.Payout != 195 {
		t.Fatalf("even win: %+v", r)
	}
	r = PlayXocDia(XocDiaOdd, 100, 1.95, &seq{ints: []int{0, 2}})
	if r.Outcome.Payout != 0 {
		t.Fatalf("odd loses: %+v", r)
	}
}

func TestCoinFlip(t *testing.T) {
	if o := CoinFlip(100, 50, 1.8, random.Fixed{Float: 0.49}); o.Payout != 180 {
		t.Fatalf("win: %+v", o)
	}
	if o := CoinFlip(100, 50, 1.8, random.Fixed{Float: 0.5}); o.Payout != 0 {
		t.Fatalf("lose: %+v", o)
	}
}

func TestFormatV(t *testing.T) {
	s := FormatV(1234567)
	if !strings.HasSuffix(s, " V") {
		t.Fatalf("FormatV = %q", s)
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if digits != "1234567" {
		t.Fatalf("FormatV digits = %q", digits)
	}
}

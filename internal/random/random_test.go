package random

import "testing"

func TestBetweenStaysInRange(t *testing.T) {
	src := New(42)
	for i := 0; i < 1000; i++ {
		v := Between(src, 100, 999)
		if v < 100 || v > 999 {
			t.Fatalf("Between out of range: %d", v)
		}
	}
	if got := Between(src, 7, 7); got != 7 {
		t.Fatalf("Between(7,7) = %d", got)
	}
	if got := Between(src, 9, 3); got != 9 {
		t.Fatalf("Between(9,3) = %d", got)
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(1), New(1)
	for i := 0; i < 20; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("sequences diverged")
		}
	}
}

func TestPercentRange(t *testing.T) {
	src := New(3)
	for i := 0; i < 1000; i++ {
		if p := Percent(src); p < 0 || p >= 100 {
			t.Fatalf("Percent out of range: %f", p)
		}
	}
}

// Package random provides the randomness used by game rules.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source draws the random values game rules need.
type Source interface {
	// Intn returns a uniform int in [0, n). n must be positive.
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// PCG is a mutex-guarded PCG generator safe for concurrent use.
type PCG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a generator seeded with seed.
func New(seed uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSeeded returns a generator seeded from crypto/rand.
func NewSeeded() (*PCG, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

func (p *PCG) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}

func (p *PCG) Float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Float64()
}

// Between returns a uniform int64 in [min, max]. If max < min it returns min.
func Between(src Source, min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + int64(src.Intn(int(max-min+1)))
}

// Percent draws a uniform value in [0, 100).
func Percent(src Source) float64 {
	return src.Float64() * 100
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Fixed always returns the same draws, clamped to the requested range. Useful
// for forcing outcomes.
type Fixed struct {
	Int   int
	Float float64
}

func (f Fixed) Intn(n int) int {
	if f.Int >= n {
		return n - 1
	}
	if f.Int < 0 {
		return 0
	}
	return f.Int
}

func (f Fixed) Float64() float64 { return f.Float }

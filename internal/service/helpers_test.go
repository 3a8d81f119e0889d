package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/gamedata"
	"vie_bot/internal/random"
	"vie_bot/internal/store"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	st    *store.Store
	be    *store.MemoryBackend
	clock *testClock
	ctx   context.Context
}

// newFixture opens a memory-backed store. A nil src uses a seeded PCG.
func newFixture(t *testing.T, src random.Source) *fixture {
	t.Helper()
	data, err := gamedata.Load("../../data/game_config.json", "../../data/shop_config.json")
	if err != nil {
		t.Fatalf("load game data: %v", err)
	}
	if src == nil {
		src = random.New(11)
	}
	clock := &testClock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	be := store.NewMemoryBackend()
	st, err := store.Open(context.Background(), be, data,
		store.WithClock(clock.Now), store.WithRandom(src))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return &fixture{st: st, be: be, clock: clock, ctx: context.Background()}
}

// alwaysWin makes every roll succeed and every range draw its minimum.
var alwaysWin = random.Fixed{Int: 0, Float: 0}

// alwaysLose makes every roll fail, since rates are capped below 100.
var alwaysLose = random.Fixed{Int: 0, Float: 0.9999}

func (f *fixture) setup(t *testing.T, id string, fn func(p *domain.PlayerRecord)) {
	t.Helper()
	if err := f.st.Update(f.ctx, id, func(p *domain.PlayerRecord) error {
		fn(p)
		return nil
	}); err != nil {
		t.Fatalf("setup %s: %v", id, err)
	}
}

func (f *fixture) balance(id string) int64 {
	return f.st.GetUser(id).Balance
}

func requireKind(t *testing.T, err, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !domain.IsFailure(err) || !errors.Is(err, kind) {
		t.Fatalf("expected %v failure, got %v", kind, err)
	}
}

package service

import (
	"testing"
	"time"

	"vie_bot/internal/domain"
)

func TestHatcheryFlow(t *testing.T) {
	f := newFixture(t, alwaysWin)
	svc := NewHatcheryService(f.st, nil)

	_, err := svc.Plant(f.ctx, "u1", "trung_ga")
	requireKind(t, err, domain.ErrInsufficientItems)
	_, err = svc.Plant(f.ctx, "u1", "trung_ngan")
	requireKind(t, err, domain.ErrInvalidTarget)

	f.setup(t, "u1", func(p *domain.PlayerRecord) { _ = p.AddItem(domain.CategoryEggs, "trung_ga", 2) })
	pr, err := svc.Plant(f.ctx, "u1", "trung_ga")
	if err != nil {
		t.Fatalf("Plant: %v", err)
	}
	if pr.GrowTime != 30 {
		t.Fatalf("grow time %d", pr.GrowTime)
	}
	_, err = svc.Plant(f.ctx, "u1", "trung_ga")
	requireKind(t, err, domain.ErrStateConflict)

	st := svc.Status("u1")
	if st.Planted != "trung_ga" || st.Ready || st.RemainingMinutes != 30 || st.Eggs["trung_ga"] != 1 {
		t.Fatalf("unexpected status %+v", st)
	}

	_, err = svc.Collect(f.ctx, "u1")
	requireKind(t, err, domain.ErrStateConflict)

	f.clock.Advance(30 * time.Minute)
	res, err := svc.Collect(f.ctx, "u1")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if res.Reward != 300 || res.Balance != 300 || res.Pet != "ga_con" || res.Kg != 0.5 {
		t.Fatalf("unexpected hatch %+v", res)
	}

	_, err = svc.Collect(f.ctx, "u1")
	requireKind(t, err, domain.ErrStateConflict)

	_, err = svc.Upgrade(f.ctx, "u1")
	requireKind(t, err, domain.ErrInsufficientFunds)
	f.setup(t, "u1", func(p *domain.PlayerRecord) { p.Balance = 5000 })
	up, err := svc.Upgrade(f.ctx, "u1")
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if up.NewLevel != 2 || f.balance("u1") != 0 {
		t.Fatalf("unexpected upgrade %+v", up)
	}
}

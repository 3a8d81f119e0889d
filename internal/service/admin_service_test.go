package service

import (
	"testing"

	"vie_bot/internal/domain"
)

func TestAdminBalanceOps(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewAdminService(f.st, NewAuditService(nil, nil))

	if _, ok := svc.GetUser("ghost"); ok {
		t.Fatal("GetUser must not create records")
	}

	ch, err := svc.AddBalance(f.ctx, "admin", "u1", 700)
	if err != nil || ch.OldBalance != 0 || ch.NewBalance != 700 {
		t.Fatalf("AddBalance: %+v %v", ch, err)
	}
	ch, err = svc.RemoveBalance(f.ctx, "admin", "u1", 1000)
	if err != nil || ch.NewBalance != 0 {
		t.Fatalf("RemoveBalance should clamp at zero: %+v %v", ch, err)
	}
	_, err = svc.AddBalance(f.ctx, "admin", "u1", -5)
	requireKind(t, err, domain.ErrInvalidTarget)

	f.setup(t, "u2", func(p *domain.PlayerRecord) { p.Balance = 123 })
	if ch, err := svc.ResetBalance(f.ctx, "admin", "u2"); err != nil || ch.OldBalance != 123 || ch.NewBalance != 0 {
		t.Fatalf("ResetBalance: %+v %v", ch, err)
	}

	stats := svc.GetStats()
	if stats.TotalPlayers != 2 || stats.TotalBalance != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLeaderboardWithoutCache(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewLeaderboardService(f.st, nil)
	f.setup(t, "a", func(p *domain.PlayerRecord) { p.Balance = 10 })
	f.setup(t, "b", func(p *domain.PlayerRecord) { p.Balance = 900 })
	f.setup(t, "c", func(p *domain.PlayerRecord) { p.Balance = 500 })

	top := svc.Top(f.ctx, 2)
	if len(top) != 2 || top[0].UserID != "b" || top[1].UserID != "c" || top[1].Rank != 2 {
		t.Fatalf("unexpected top %+v", top)
	}
	if r := svc.Rank(f.ctx, "a"); r != 3 {
		t.Fatalf("rank of a = %d, want 3", r)
	}
	if err := svc.Refresh(f.ctx); err != nil {
		t.Fatalf("Refresh without cache: %v", err)
	}
}

package service

import (
	"testing"
	"time"

	"vie_bot/internal/domain"
)

func TestWorkScenario(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewEconomyService(f.st, NewQuestService(f.st), nil)
	f.setup(t, "u1", func(p *domain.PlayerRecord) { p.Balance = 1000 })

	res, err := svc.Work(f.ctx, "u1")
	if err != nil {
		t.Fatalf("Work: %v", err)
	}
	gain := f.balance("u1") - 1000
	if gain < 105 || gain > 1004 {
		t.Fatalf("gain %d outside [105, 1004]", gain)
	}
	if gain != res.Earned {
		t.Fatalf("reported %d, balance moved by %d", res.Earned, gain)
	}

	st := f.st.CheckCooldown("u1", KeyWork)
	if st.CanUse || st.RemainingMinutes != 60 {
		t.Fatalf("expected 60 minute cooldown, got %+v", st)
	}
	if p := f.st.GetUser("u1"); p.XP != 10 {
		t.Fatalf("expected 10 XP, got %d", p.XP)
	}

	_, err = svc.Work(f.ctx, "u1")
	requireKind(t, err, domain.ErrCooldownActive)

	f.clock.Advance(61 * time.Minute)
	if _, err := svc.Work(f.ctx, "u1"); err != nil {
		t.Fatalf("Work after cooldown: %v", err)
	}
}

func TestDailyStreak(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewEconomyService(f.st, nil, nil)

	res, err := svc.Daily(f.ctx, "u1")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if res.Streak != 1 || res.Earned != 550 {
		t.Fatalf("first claim: %+v", res)
	}

	_, err = svc.Daily(f.ctx, "u1")
	requireKind(t, err, domain.ErrStateConflict)

	f.clock.Advance(24 * time.Hour)
	res, err = svc.Daily(f.ctx, "u1")
	if err != nil {
		t.Fatalf("second day: %v", err)
	}
	if res.Streak != 2 || res.Earned != 600 {
		t.Fatalf("second claim: %+v", res)
	}

	f.clock.Advance(72 * time.Hour)
	res, err = svc.Daily(f.ctx, "u1")
	if err != nil {
		t.Fatalf("after gap: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("streak should reset after a missed day, got %d", res.Streak)
	}
}

func TestWeeklyRange(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewEconomyService(f.st, nil, nil)

	res, err := svc.Weekly(f.ctx, "u1")
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	if res.Earned < 1200 || res.Earned >= 2200 {
		t.Fatalf("weekly %d outside [1200, 2200)", res.Earned)
	}
	if res.CooldownMinutes != 10080 {
		t.Fatalf("cooldown %d", res.CooldownMinutes)
	}
}

func TestGive(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewEconomyService(f.st, nil, nil)
	f.setup(t, "a", func(p *domain.PlayerRecord) { p.Balance = 300 })

	if _, err := svc.Give(f.ctx, "a", "b", 120); err != nil {
		t.Fatalf("Give: %v", err)
	}
	if f.balance("a") != 180 || f.balance("b") != 120 {
		t.Fatalf("balances %d / %d", f.balance("a"), f.balance("b"))
	}

	_, err := svc.Give(f.ctx, "a", "b", 1000)
	requireKind(t, err, domain.ErrInsufficientFunds)
	if f.balance("a") != 180 || f.balance("b") != 120 {
		t.Fatal("failed transfer moved money")
	}

	_, err = svc.Give(f.ctx, "a", "a", 10)
	requireKind(t, err, domain.ErrInvalidTarget)
	_, err = svc.Give(f.ctx, "a", "b", 0)
	requireKind(t, err, domain.ErrInvalidTarget)
}

func TestCashRank(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewEconomyService(f.st, nil, nil)
	f.setup(t, "rich", func(p *domain.PlayerRecord) { p.Balance = 60000 })
	f.setup(t, "poor", func(p *domain.PlayerRecord) { p.Balance = 10 })

	v := svc.Cash("poor")
	if v.Rank != 2 || v.Players != 2 {
		t.Fatalf("unexpected cash view %+v", v)
	}
	if rich := svc.Cash("rich"); rich.Rank != 1 || rich.Title == v.Title {
		t.Fatalf("unexpected rich view %+v", rich)
	}
}

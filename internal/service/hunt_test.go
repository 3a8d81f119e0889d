package service

import (
	"testing"
	"time"

	"vie_bot/internal/domain"
)

func TestHuntWin(t *testing.T) {
	f := newFixture(t, alwaysWin)
	svc := NewHuntService(f.st, nil)
	f.setup(t, "u1", func(p *domain.PlayerRecord) { p.PitySystem[PityHunt] = &domain.PityState{ConsecutiveFails: 3} })

	res, err := svc.Hunt(f.ctx, "u1")
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if res.Result != domain.GameResultWin || res.Monster != "slime" || res.Reward != 50 {
		t.Fatalf("unexpected hunt %+v", res)
	}
	if res.Rate.PityBonus != 15 || res.Rate.FinalRate != 95 {
		t.Fatalf("unexpected rate %+v", res.Rate)
	}

	p := f.st.GetUser("u1")
	if p.ConsecutiveFails(PityHunt) != 0 {
		t.Fatal("pity not reset after a win")
	}
	if p.ItemQuantity(domain.CategoryMonsterItems, "chat_nhay") != 1 || p.XP != 5 || p.Balance != 50 {
		t.Fatalf("unexpected record %+v", p)
	}

	_, err = svc.Hunt(f.ctx, "u1")
	requireKind(t, err, domain.ErrCooldownActive)
	f.clock.Advance(2 * time.Minute)
	if _, err := svc.Hunt(f.ctx, "u1"); err != nil {
		t.Fatalf("Hunt after cooldown: %v", err)
	}
}

func TestHuntLossBuildsPity(t *testing.T) {
	f := newFixture(t, alwaysLose)
	svc := NewHuntService(f.st, nil)

	for i := 1; i <= 3; i++ {
		res, err := svc.Hunt(f.ctx, "u1")
		if err != nil {
			t.Fatalf("Hunt %d: %v", i, err)
		}
		if res.Result != domain.GameResultLose || res.Reward != 0 {
			t.Fatalf("expected a loss, got %+v", res)
		}
		f.clock.Advance(3 * time.Minute)
	}
	p := f.st.GetUser("u1")
	if p.ConsecutiveFails(PityHunt) != 3 || p.Balance != 0 {
		t.Fatalf("fails %d balance %d", p.ConsecutiveFails(PityHunt), p.Balance)
	}
}

func TestGearAddsToHunt(t *testing.T) {
	f := newFixture(t, alwaysWin)
	svc := NewHuntService(f.st, nil)
	f.setup(t, "u1", func(p *domain.PlayerRecord) {
		_ = p.AddItem(domain.CategoryWeapons, "dep_to_ong", 1)
		_ = p.AddItem(domain.CategoryDungeonGear, "lucky_charm", 1)
	})

	if err := svc.Equip(f.ctx, "u1", domain.SlotWeapon, "dep_to_ong"); err != nil {
		t.Fatalf("Equip: %v", err)
	}
	if err := svc.UseCharm(f.ctx, "u1", "dep_to_ong"); err == nil {
		t.Fatal("a weapon is not a charm")
	}
	if err := svc.UseCharm(f.ctx, "u1", "lucky_charm"); err != nil {
		t.Fatalf("UseCharm: %v", err)
	}

	inv := svc.HuntInventory("u1")
	if inv.TotalSuccess != 10 || inv.TotalReward != 50 || len(inv.Gear) != 2 {
		t.Fatalf("unexpected hunt inventory %+v", inv)
	}

	res, err := svc.Hunt(f.ctx, "u1")
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if res.GearBonus != 25 || res.Reward != 75 || res.Rate.WeaponBonus != 10 {
		t.Fatalf("unexpected geared hunt %+v", res)
	}
}

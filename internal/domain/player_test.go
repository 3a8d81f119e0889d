package domain

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestAddXPSplitInvariance(t *testing.T) {
	grants := [][]int64{
		{250},
		{100, 150},
		{50, 50, 50, 50, 50},
		{1, 249},
	}
	var want *PlayerRecord
	for _, split := range grants {
		p := NewPlayerRecord("u", t0)
		for _, g := range split {
			p.AddXP(g)
		}
		if want == nil {
			want = p
			continue
		}
		if p.Level != want.Level || p.XP != want.XP {
			t.Fatalf("split %v: level %d xp %d, want level %d xp %d", split, p.Level, p.XP, want.Level, want.XP)
		}
	}
	// level 1 threshold is 400
	if want.Level != 1 || want.XP != 250 {
		t.Fatalf("250 XP from level 1: got level %d xp %d", want.Level, want.XP)
	}
}

func TestAddXPMultiLevelJump(t *testing.T) {
	p := NewPlayerRecord("u", t0)
	// 400 (1->2) + 900 (2->3) + 1600 (3->4) = 2900, plus 10 surplus
	res := p.AddXP(2910)
	if !res.LeveledUp || res.NewLevel != 4 {
		t.Fatalf("AddXP result %+v", res)
	}
	if p.Level != 4 || p.XP != 10 {
		t.Fatalf("level %d xp %d, want 4 and 10", p.Level, p.XP)
	}
}

func TestCooldownRoundTrip(t *testing.T) {
	for _, m := range []int64{1, 5, 60, 1440} {
		p := NewPlayerRecord("u", t0)
		p.SetCooldown("work", m, t0)

		st := p.CheckCooldown("work", t0.Add(300*time.Millisecond))
		if st.CanUse {
			t.Fatalf("m=%d: expected blocked", m)
		}
		if st.RemainingMinutes != m && st.RemainingMinutes != m-1 {
			t.Fatalf("m=%d: remaining %d", m, st.RemainingMinutes)
		}
		if !p.CheckCooldown("work", t0.Add(time.Duration(m)*time.Minute)).CanUse {
			t.Fatalf("m=%d: expected usable at expiry", m)
		}
		if !p.CheckCooldown("hunt", t0).CanUse {
			t.Fatal("unrelated key should be usable")
		}
	}
}

func TestSetCooldownOverwrites(t *testing.T) {
	p := NewPlayerRecord("u", t0)
	p.SetCooldown("daily", 1440, t0)
	p.SetCooldown("daily", 2, t0)
	if got := p.CheckCooldown("daily", t0).RemainingMinutes; got != 2 {
		t.Fatalf("remaining = %d, want 2", got)
	}
	err := p.RequireCooldown("daily", t0)
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("want CooldownActive, got %v", err)
	}
}

func TestReducedMinutes(t *testing.T) {
	cases := []struct{ in, pct, want int64 }{
		{60, 0, 60},
		{60, 10, 54},
		{5, 30, 4},
		{1, 50, 1},
		{60, 100, 1},
	}
	for _, c := range cases {
		if got := ReducedMinutes(c.in, c.pct); got != c.want {
			t.Errorf("ReducedMinutes(%d, %d) = %d, want %d", c.in, c.pct, got, c.want)
		}
	}
}

func TestPityMonotonicAndReset(t *testing.T) {
	rules := PityRules{BonusPerFail: 5, MaxBonus: 30}
	p := NewPlayerRecord("u", t0)

	prev := -1.0
	for i := 0; i < 12; i++ {
		r := p.CalculateSuccessRate(40, "hunt", 0, rules)
		if r.PityBonus < prev {
			t.Fatalf("pity decreased at %d fails: %f < %f", i, r.PityBonus, prev)
		}
		prev = r.PityBonus
		p.UpdatePity("hunt", GameResultLose)
	}
	if prev != 30 {
		t.Fatalf("pity should cap at 30, got %f", prev)
	}
	if p.ConsecutiveFails("dungeon_nhan") != 0 {
		t.Fatal("categories must be independent")
	}

	p.UpdatePity("hunt", GameResultWin)
	if r := p.CalculateSuccessRate(40, "hunt", 0, rules); r.PityBonus != 0 || r.FinalRate != 40 {
		t.Fatalf("after win: %+v", r)
	}
}

func TestSuccessRateCeilingAndFloor(t *testing.T) {
	rules := PityRules{BonusPerFail: 50, MaxBonus: 500}
	p := NewPlayerRecord("u", t0)
	for i := 0; i < 5; i++ {
		p.UpdatePity("x", GameResultLose)
	}
	if r := p.CalculateSuccessRate(90, "x", 40, rules); r.FinalRate != MaxSuccessRate {
		t.Fatalf("final = %f, want %f", r.FinalRate, MaxSuccessRate)
	}
	if r := NewPlayerRecord("v", t0).CalculateSuccessRate(-20, "x", 0, rules); r.FinalRate != 0 {
		t.Fatalf("final = %f, want 0", r.FinalRate)
	}
}

func TestRoll(t *testing.T) {
	rate := SuccessRate{FinalRate: 70}
	if Roll(rate, 69.99) != GameResultWin || Roll(rate, 70) != GameResultLose {
		t.Fatal("roll boundary wrong")
	}
}

func TestRemoveItemNeverNegative(t *testing.T) {
	p := NewPlayerRecord("u", t0)
	if err := p.AddItem(CategoryMonsterItems, "nanh_soi", 5); err != nil {
		t.Fatal(err)
	}
	err := p.RemoveItem(CategoryMonsterItems, "nanh_soi", 10)
	if !errors.Is(err, ErrInsufficientItems) {
		t.Fatalf("want InsufficientItems, got %v", err)
	}
	if q := p.ItemQuantity(CategoryMonsterItems, "nanh_soi"); q != 5 {
		t.Fatalf("quantity = %d, want 5", q)
	}
	if err := p.RemoveItem(CategoryMonsterItems, "nanh_soi", 5); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.CategorizedInventory[CategoryMonsterItems]["nanh_soi"]; ok {
		t.Fatal("zero entry should be pruned")
	}
}

func TestEquip(t *testing.T) {
	p := NewPlayerRecord("u", t0)
	if err := p.Equip(SlotWeapon, "kiem_go"); !errors.Is(err, ErrInsufficientItems) {
		t.Fatalf("equip unowned: %v", err)
	}
	_ = p.AddItem(CategoryWeapons, "kiem_go", 1)
	_ = p.AddItem(CategoryWeapons, "kiem_sat", 1)
	if err := p.Equip(SlotWeapon, "kiem_go"); err != nil {
		t.Fatal(err)
	}
	if err := p.Equip(SlotWeapon, "kiem_sat"); err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Equipped(SlotWeapon); got != "kiem_sat" {
		t.Fatalf("equipped = %q", got)
	}
	if p.ItemQuantity(CategoryWeapons, "kiem_go") != 1 {
		t.Fatal("equipping must not consume")
	}
	if err := p.RemoveItem(CategoryWeapons, "kiem_sat", 1); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Equipped(SlotWeapon); ok {
		t.Fatal("removing the last unit should unequip")
	}
	if err := p.Equip(Slot("hat"), "kiem_go"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("unknown slot: %v", err)
	}
}

func TestDebitRefusesOverdraft(t *testing.T) {
	p := NewPlayerRecord("u", t0)
	p.Balance = 50
	if err := p.Debit(100); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want InsufficientFunds, got %v", err)
	}
	if p.Balance != 50 {
		t.Fatalf("balance = %d", p.Balance)
	}
}

func TestHatcheryTimer(t *testing.T) {
	var h Hatchery
	if err := h.Plant("trung_ga", 30, t0); err != nil {
		t.Fatal(err)
	}
	if err := h.Plant("trung_ga", 30, t0); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("double plant: %v", err)
	}
	if _, err := h.Harvest(t0.Add(29 * time.Minute)); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("early harvest: %v", err)
	}
	egg, err := h.Harvest(t0.Add(30 * time.Minute))
	if err != nil || egg.Type != "trung_ga" {
		t.Fatalf("harvest: %v %+v", err, egg)
	}
	if _, err := h.Harvest(t0.Add(31 * time.Minute)); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("second harvest: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := NewPlayerRecord("u", t0)
	_ = p.AddItem(CategoryEggs, "trung_ga", 2)
	p.SetCooldown("work", 60, t0)

	c := p.Clone()
	_ = c.AddItem(CategoryEggs, "trung_ga", 1)
	c.Cooldowns["work"] = 0

	if p.ItemQuantity(CategoryEggs, "trung_ga") != 2 || p.Cooldowns["work"] == 0 {
		t.Fatal("clone shares state with original")
	}
}

func TestDailyQuestsAdvance(t *testing.T) {
	d := &DailyQuests{Date: DayKey(t0), Quests: []Quest{
		{ID: "work_3", Action: QuestActionWork, Target: 3, Reward: 600},
		{ID: "hunt_5", Action: QuestActionHunt, Target: 5, Reward: 800},
	}}
	if done := d.Advance(QuestActionWork, 2); len(done) != 0 {
		t.Fatalf("completed early: %+v", done)
	}
	done := d.Advance(QuestActionWork, 2)
	if len(done) != 1 || done[0].ID != "work_3" || d.Quests[0].Progress != 3 {
		t.Fatalf("advance: %+v / %+v", done, d.Quests[0])
	}
	if done := d.Advance(QuestActionWork, 1); len(done) != 0 {
		t.Fatal("finished quest completed twice")
	}
	if d.Expired(t0) || !d.Expired(t0.AddDate(0, 0, 1)) {
		t.Fatal("expiry by calendar day is wrong")
	}
}

func TestDaysBetween(t *testing.T) {
	if n := DaysBetween("2025-03-13", "2025-03-14"); n != 1 {
		t.Fatalf("got %d", n)
	}
	if n := DaysBetween("2025-02-28", "2025-03-02"); n != 2 {
		t.Fatalf("got %d", n)
	}
	if n := DaysBetween("", "2025-03-02"); n < 2 {
		t.Fatalf("empty date should count as far apart, got %d", n)
	}
}

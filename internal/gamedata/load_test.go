package gamedata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vie_bot/internal/domain"
)

func loadRepoData(t *testing.T) *Data {
	t.Helper()
	d, err := Load("../../data/game_config.json", "../../data/shop_config.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return d
}

func TestLoadBundledData(t *testing.T) {
	d := loadRepoData(t)

	if d.Economy.Work.Min != 100 || d.Economy.Work.Max != 999 || d.Economy.Work.Cooldown != 60 {
		t.Fatalf("unexpected work config: %+v", d.Economy.Work)
	}
	if _, err := d.DungeonTier("thien"); err != nil {
		t.Fatalf("thien tier missing: %v", err)
	}
	it, err := d.ShopItem("trung_ga")
	if err != nil {
		t.Fatalf("trung_ga missing: %v", err)
	}
	if it.Category != domain.CategoryEggs || it.Price != 100 {
		t.Fatalf("unexpected trung_ga: %+v", it)
	}
	if eq := d.EquipmentFor("dep_to_ong"); eq.Slot != domain.SlotWeapon || eq.RewardMultiplier != 50 {
		t.Fatalf("unexpected dep_to_ong: %+v", eq)
	}
}

func TestLookupsReturnInvalidTarget(t *testing.T) {
	d := loadRepoData(t)

	checks := map[string]error{}
	_, checks["egg"] = d.Egg("nope")
	_, checks["monster"] = d.Monster("nope")
	_, checks["tier"] = d.DungeonTier("nope")
	_, checks["recipe"] = d.Recipe("nope")
	_, checks["shop"] = d.ShopItem("nope")

	for name, err := range checks {
		if !errors.Is(err, domain.ErrInvalidTarget) {
			t.Errorf("%s: want InvalidTarget, got %v", name, err)
		}
	}
}

func TestWealthTitle(t *testing.T) {
	d := loadRepoData(t)

	cases := []struct {
		balance int64
		want    string
	}{
		{0, "Người mới"},
		{9_999, "Người mới"},
		{10_000, "Khá giả"},
		{500_000, "Tỷ phú"},
		{5_000_000, "Huyền thoại"},
	}
	for _, c := range cases {
		if got := d.WealthTitle(c.balance); got != c.want {
			t.Errorf("WealthTitle(%d) = %q, want %q", c.balance, got, c.want)
		}
	}
}

func TestGuildBuffsCapCooldown(t *testing.T) {
	d := &Data{Guild: Guild{
		MaxCooldownReduction: 10,
		Ranks: []GuildRank{
			{Level: 1, IncomeBonus: 5, CooldownReduction: 5, XPBonus: 5},
			{Level: 2, IncomeBonus: 10, CooldownReduction: 20, XPBonus: 10},
		},
	}}

	if b := d.GuildBuffs(2); b.CooldownReduction != 10 || b.IncomeBonus != 10 {
		t.Fatalf("GuildBuffs(2) = %+v", b)
	}
	if b := d.GuildBuffs(9); b.IncomeBonus != 10 {
		t.Fatalf("rank above max should clamp, got %+v", b)
	}
	if b := d.GuildBuffs(0); b != (domain.GuildBuffs{}) {
		t.Fatalf("rank 0 should have no buffs, got %+v", b)
	}
}

func TestSellPrice(t *testing.T) {
	d := loadRepoData(t)

	if p, ok := d.SellPrice("kiem_go"); !ok || p != 250 {
		t.Fatalf("kiem_go sell = %d %v, want 250", p, ok)
	}
	if p, ok := d.SellPrice("ngoc_linh"); !ok || p != 1000 {
		t.Fatalf("ngoc_linh sell = %d %v", p, ok)
	}
	if _, ok := d.SellPrice("linh_dan_cao_cap"); ok {
		t.Fatal("unpriced item should not be sellable")
	}
}

func TestLoadRejectsInvalidData(t *testing.T) {
	dir := t.TempDir()
	game := filepath.Join(dir, "game.json")
	shop := filepath.Join(dir, "shop.json")

	writeFile(t, game, `{"economy":{"work":{"min":500,"max":100}},"equipment":{"x":{"slot":"hat"}}}`)
	writeFile(t, shop, `{"items":{"y":{"category":"weird","price":-1}}}`)

	if _, err := Load(game, shop); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), "also-missing.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRejectsMixedCaseKeys(t *testing.T) {
	raw, err := os.ReadFile("../../data/shop_config.json")
	if err != nil {
		t.Fatal(err)
	}
	shop := filepath.Join(t.TempDir(), "shop.json")
	mixed := strings.Replace(string(raw), `"trung_ga":`, `"Trung_Ga":`, 1)
	if err := os.WriteFile(shop, []byte(mixed), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = Load("../../data/game_config.json", shop)
	if err == nil || !strings.Contains(err.Error(), "items.Trung_Ga") {
		t.Fatalf("expected a key case error, got %v", err)
	}
}

func TestValidateRejectsMixedCaseReferences(t *testing.T) {
	d := loadRepoData(t)
	tier := d.Dungeons["thien"]
	tier.Requirements = []ItemQuantity{{Category: domain.CategoryDungeonGear, Item: "Bua_Ho_Menh", Qty: 1}}
	d.Dungeons["thien"] = tier

	err := d.Validate()
	if err == nil || !strings.Contains(err.Error(), `"Bua_Ho_Menh"`) {
		t.Fatalf("expected a reference case error, got %v", err)
	}
}

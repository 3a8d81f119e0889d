package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vie_bot/internal/domain"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "vie.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPlayersRoundTripInInsertionOrder(t *testing.T) {
	s, path := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	z := domain.NewPlayerRecord("zeta", now)
	a := domain.NewPlayerRecord("alpha", now)
	a.Balance = 1_234_567_890_123
	a.SetCooldown("dungeon_thien", 15, now)
	_ = a.AddItem(domain.CategoryDungeonLoot, "linh_hon_thap", 7)
	a.Hatchery.PlantedEgg = domain.PlantedEgg{Type: "trung_ga", PlantedAt: now.UnixMilli(), HarvestAt: now.UnixMilli() + 1}

	if err := s.SavePlayers(ctx, []*domain.PlayerRecord{z, a}); err != nil {
		t.Fatal(err)
	}
	a.Balance = 5
	if err := s.SavePlayers(ctx, []*domain.PlayerRecord{a}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.LoadPlayers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].UserID != "zeta" || got[1].UserID != "alpha" {
		t.Fatalf("order lost: %+v", got)
	}
	p := got[1]
	if p.Balance != 5 {
		t.Fatalf("balance %d", p.Balance)
	}
	if p.Cooldowns["dungeon_thien"] != a.Cooldowns["dungeon_thien"] {
		t.Fatal("cooldown timestamp changed")
	}
	if p.ItemQuantity(domain.CategoryDungeonLoot, "linh_hon_thap") != 7 || p.Hatchery.PlantedEgg.Type != "trung_ga" {
		t.Fatalf("record mismatch: %+v", p)
	}
}

func TestGuilds(t *testing.T) {
	s, _ := openTempStore(t)
	ctx := context.Background()

	g := &domain.Guild{ID: "rong-vang", Name: "Rồng Vàng", OwnerID: "1", RankLevel: 1}
	if err := s.SaveGuild(ctx, g); err != nil {
		t.Fatal(err)
	}
	g.RankLevel = 3
	if err := s.SaveGuild(ctx, g); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadGuilds(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RankLevel != 3 {
		t.Fatalf("guilds %+v", got)
	}
	if err := s.SaveGuild(ctx, &domain.Guild{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestCanceledContext(t *testing.T) {
	s, _ := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Ping(ctx); err == nil {
		t.Fatal("expected context error")
	}
	if err := s.SavePlayers(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
}

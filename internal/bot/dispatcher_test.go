package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/gamedata"
	"vie_bot/internal/random"
	"vie_bot/internal/service"
	"vie_bot/internal/store"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func newDispatcher(t *testing.T) (*Dispatcher, *store.Store) {
	t.Helper()
	data, err := gamedata.Load("../../data/game_config.json", "../../data/shop_config.json")
	if err != nil {
		t.Fatalf("load game data: %v", err)
	}
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	st, err := store.Open(context.Background(), store.NewMemoryBackend(), data,
		store.WithClock(func() time.Time { return now }), store.WithRandom(random.Fixed{}))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	quests := service.NewQuestService(st)
	audit := service.NewAuditService(nil, nil)
	svc := Services{
		Economy:     service.NewEconomyService(st, quests, audit),
		Hatchery:    service.NewHatcheryService(st, quests),
		Hunt:        service.NewHuntService(st, quests),
		Dungeon:     service.NewDungeonService(st, quests),
		Shop:        service.NewShopService(st, quests, audit),
		Casino:      service.NewCasinoService(st, quests, audit, service.CasinoLimits{}),
		Quests:      quests,
		Guilds:      service.NewGuildService(st, audit),
		Admin:       service.NewAdminService(st, audit),
		Leaderboard: service.NewLeaderboardService(st, nil),
	}
	isAdmin := func(id string) bool { return id == "admin" }
	return NewDispatcher(svc, isAdmin, &recorder{}), st
}

func TestHandleWork(t *testing.T) {
	d, st := newDispatcher(t)

	r := d.Handle(context.Background(), Interaction{UserID: "u1", Command: "work"})
	if r.Failure != "" || r.Ephemeral {
		t.Fatalf("unexpected failure reply: %+v", r)
	}
	res, ok := r.Data.(service.IncomeResult)
	if !ok {
		t.Fatalf("data is %T", r.Data)
	}
	if res.Earned <= 0 || st.GetUser("u1").Balance != res.Earned {
		t.Fatalf("earned %d, balance %d", res.Earned, st.GetUser("u1").Balance)
	}

	r = d.Handle(context.Background(), Interaction{UserID: "u1", Command: "work"})
	if !r.Ephemeral || r.Failure != "cooldown_active" {
		t.Fatalf("second work: %+v", r)
	}
	if !strings.HasPrefix(r.Content, "❌") {
		t.Fatalf("content %q", r.Content)
	}
}

func TestHandleFailureLeavesState(t *testing.T) {
	d, st := newDispatcher(t)

	r := d.Handle(context.Background(), Interaction{UserID: "u1", Command: "buy", Options: map[string]string{"item_id": "kiem_go"}})
	if r.Failure != "insufficient_funds" {
		t.Fatalf("buy: %+v", r)
	}
	p := st.GetUser("u1")
	if p.Balance != 0 || p.ItemQuantity(domain.CategoryWeapons, "kiem_go") != 0 {
		t.Fatalf("state changed: balance %d", p.Balance)
	}

	r = d.Handle(context.Background(), Interaction{UserID: "u1", Command: "give", Options: map[string]string{"user": "<@u1>", "amount": "10"}})
	if r.Failure != "invalid_target" {
		t.Fatalf("give to self: %+v", r)
	}
}

func TestHandleUnknownAndMissingUser(t *testing.T) {
	d, _ := newDispatcher(t)

	r := d.Handle(context.Background(), Interaction{UserID: "u1", Command: "fly"})
	if !r.Ephemeral || !strings.Contains(r.Content, "fly") {
		t.Fatalf("unknown: %+v", r)
	}
	r = d.Handle(context.Background(), Interaction{Command: "work"})
	if r.Failure != "invalid_target" {
		t.Fatalf("missing user: %+v", r)
	}
}

func TestAdminCommandsAreGated(t *testing.T) {
	d, st := newDispatcher(t)
	opts := map[string]string{"user": "u2", "amount": "1.000"}

	r := d.Handle(context.Background(), Interaction{UserID: "u1", Command: "admin-add", Options: opts})
	if r.Failure != "invalid_target" {
		t.Fatalf("non-admin: %+v", r)
	}
	if st.Exists("u2") {
		t.Fatal("non-admin call touched the target")
	}

	r = d.Handle(context.Background(), Interaction{UserID: "admin", Command: "admin-add", Options: opts})
	if r.Failure != "" {
		t.Fatalf("admin: %+v", r)
	}
	if got := st.GetUser("u2").Balance; got != 1000 {
		t.Fatalf("balance = %d, want 1000", got)
	}
}

func TestGiveMovesBalance(t *testing.T) {
	d, st := newDispatcher(t)
	ctx := context.Background()
	if err := st.Update(ctx, "u1", func(p *domain.PlayerRecord) error { p.Credit(500); return nil }); err != nil {
		t.Fatal(err)
	}

	r := d.Handle(ctx, Interaction{UserID: "u1", Command: "give", Options: map[string]string{"user": "<@!u2>", "amount": "200"}})
	if r.Failure != "" {
		t.Fatalf("give: %+v", r)
	}
	if st.GetUser("u1").Balance != 300 || st.GetUser("u2").Balance != 200 {
		t.Fatalf("balances %d/%d", st.GetUser("u1").Balance, st.GetUser("u2").Balance)
	}
}

func TestCommandsListsRoutes(t *testing.T) {
	d, _ := newDispatcher(t)
	names := d.Commands()
	want := map[string]bool{"work": false, "baucua": false, "dungeon-enter": false, "guildowner": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("command %s not routed", n)
		}
	}
}

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vie_bot/internal/bot"
	"vie_bot/internal/config"
	"vie_bot/internal/gamedata"
	httpserver "vie_bot/internal/http"
	"vie_bot/internal/http/handlers"
	"vie_bot/internal/http/middleware"
	"vie_bot/internal/random"
	"vie_bot/internal/service"
	"vie_bot/internal/store"
	"vie_bot/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type server struct {
	url string
	st  *store.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")
	middleware.InitRedisRateLimiter(nil)

	data, err := gamedata.Load("../../data/game_config.json", "../../data/shop_config.json")
	if err != nil {
		t.Fatalf("load game data: %v", err)
	}
	st, err := store.Open(context.Background(), store.NewMemoryBackend(), data, store.WithRandom(random.New(5)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cfg := &config.Config{
		AdminUserIDs:      []string{"1"},
		APIRateLimit:      1000,
		APIRateWindow:     60,
		CommandRateLimit:  1000,
		CommandRateWindow: 60,
	}

	quests := service.NewQuestService(st)
	audit := service.NewAuditService(nil, nil)
	svc := bot.Services{
		Economy:     service.NewEconomyService(st, quests, audit),
		Hatchery:    service.NewHatcheryService(st, quests),
		Hunt:        service.NewHuntService(st, quests),
		Dungeon:     service.NewDungeonService(st, quests),
		Shop:        service.NewShopService(st, quests, audit),
		Casino:      service.NewCasinoService(st, quests, audit, service.CasinoLimits{MinBet: 10}),
		Quests:      quests,
		Guilds:      service.NewGuildService(st, audit),
		Admin:       service.NewAdminService(st, audit),
		Leaderboard: service.NewLeaderboardService(st, nil),
	}
	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	r := gin.New()
	httpserver.RegisterRoutes(r, httpserver.Deps{
		Config:     cfg,
		Version:    "test",
		Dispatcher: bot.NewDispatcher(svc, cfg.IsAdmin, hub),
		Services:   svc,
		Audit:      audit,
		Hub:        hub,
		Checks:     map[string]handlers.Check{"store": st.Ping},
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &server{url: srv.URL, st: st}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := service.GenerateJWT(userID, false)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (s *server) interact(t *testing.T, tok, command string, opts map[string]string) (int, bot.Reply) {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"command": command, "options": opts})
	req, _ := http.NewRequest(http.MethodPost, s.url+"/api/v1/interactions", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s: %v", command, err)
	}
	defer res.Body.Close()
	var reply bot.Reply
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		t.Fatalf("%s: decode: %v", command, err)
	}
	return res.StatusCode, reply
}

func TestHealthEndpoints(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/health", "/healthz", "/readyz", "/metrics"} {
		res, err := http.Get(s.url + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, res.StatusCode)
		}
	}
}

func TestInteractionsOverHTTP(t *testing.T) {
	s := newServer(t)
	tok := token(t, "42")

	code, reply := s.interact(t, tok, "work", nil)
	if code != http.StatusOK || reply.Failure != "" {
		t.Fatalf("work: %d %+v", code, reply)
	}
	code, reply = s.interact(t, tok, "work", nil)
	if code != http.StatusTooManyRequests || reply.Failure != "cooldown_active" {
		t.Fatalf("second work: %d %+v", code, reply)
	}
	code, _ = s.interact(t, tok, "admin-stats", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("admin-stats as player: %d", code)
	}

	res, err := http.Get(s.url + "/api/v1/players/42")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("profile status %d", res.StatusCode)
	}
	res, err = http.Get(s.url + "/api/v1/players/nobody")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound || s.st.Exists("nobody") {
		t.Fatalf("unknown profile: status %d", res.StatusCode)
	}
}

func TestInteractionRequiresToken(t *testing.T) {
	s := newServer(t)
	res, err := http.Post(s.url+"/api/v1/interactions", "application/json", strings.NewReader(`{"command":"work"}`))
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestFeedReceivesGuildJoin(t *testing.T) {
	s := newServer(t)
	admin := token(t, "1")
	player := token(t, "42")

	code, reply := s.interact(t, admin, "guildowner", map[string]string{"user": "<@7>", "name": "Rồng Lửa"})
	if code != http.StatusOK {
		t.Fatalf("guildowner: %d %+v", code, reply)
	}

	wsURL := "ws" + strings.TrimPrefix(s.url, "http") + "/ws/feed?token=" + player
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ready ws.Message
	if err := conn.ReadJSON(&ready); err != nil || ready.Type != ws.MsgReady {
		t.Fatalf("ready: %+v %v", ready, err)
	}
	// Register runs right after the ready frame is queued; give it a moment.
	time.Sleep(50 * time.Millisecond)

	code, reply = s.interact(t, player, "guild-join", map[string]string{"name": "Rồng Lửa"})
	if code != http.StatusOK {
		t.Fatalf("guild-join: %d %+v", code, reply)
	}

	for {
		var msg struct {
			Type    string    `json:"type"`
			Payload bot.Event `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read feed: %v", err)
		}
		if msg.Type == ws.MsgEvent && msg.Payload.Type == "guild_join" {
			if msg.Payload.UserID != "42" {
				t.Fatalf("event user %q", msg.Payload.UserID)
			}
			return
		}
	}
}

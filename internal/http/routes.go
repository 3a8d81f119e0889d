package http

import (
	"time"

	"vie_bot/internal/bot"
	"vie_bot/internal/config"
	"vie_bot/internal/http/handlers"
	"vie_bot/internal/http/middleware"
	"vie_bot/internal/service"
	"vie_bot/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Config     *config.Config
	Version    string
	Dispatcher *bot.Dispatcher
	Services   bot.Services
	Audit      *service.AuditService
	Hub        *ws.Hub
	Checks     map[string]handlers.Check
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	h := handlers.NewHandler(d.Dispatcher, d.Services, d.Audit)
	healthHandler := handlers.NewHealthHandler(d.Version, d.Checks)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiWindow := time.Duration(cfg.APIRateWindow) * time.Second
	cmdWindow := time.Duration(cfg.CommandRateWindow) * time.Second

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))

	// Public reads
	v1.GET("/commands", h.Commands)
	v1.GET("/leaderboard", h.GetLeaderboard)
	v1.GET("/leaderboard/dungeon", h.GetDungeonLeaderboard)
	v1.GET("/players/:id", h.Profile)
	v1.GET("/guilds", h.Guilds)
	v1.GET("/guilds/:id", h.Guild)
	v1.GET("/shop", h.Shop)

	authed := v1.Group("")
	authed.Use(middleware.JWT())
	{
		authed.POST("/interactions", middleware.CommandRateLimit(cfg.CommandRateLimit, cmdWindow), h.Interact)
		authed.GET("/me", h.Me)
		authed.GET("/me/inventory", h.MyInventory)
		authed.GET("/me/quests", h.MyQuests)
		authed.POST("/me/quests/claim", h.ClaimQuests)
		authed.GET("/me/games", h.MyGames)
		authed.GET("/me/dungeon", h.MyDungeon)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.JWT(), middleware.RequireAdmin(cfg.IsAdmin))
	{
		admin.POST("/tokens", h.IssueToken)
		admin.GET("/stats", h.AdminStats)
		admin.GET("/games", h.RecentGames)
		admin.POST("/players/:id/balance", h.AdjustBalance)
		admin.GET("/players/:id/audit", h.PlayerAudit)
	}

	// Activity feed
	r.GET("/ws/feed", middleware.JWT(), ws.HandleFeed(d.Hub, cfg.AllowedOrigin))
}

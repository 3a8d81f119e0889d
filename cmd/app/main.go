package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vie_bot/internal/backup"
	"vie_bot/internal/bot"
	"vie_bot/internal/cache"
	"vie_bot/internal/config"
	"vie_bot/internal/db"
	"vie_bot/internal/gamedata"
	httpServer "vie_bot/internal/http"
	"vie_bot/internal/http/handlers"
	"vie_bot/internal/http/middleware"
	"vie_bot/internal/logger"
	"vie_bot/internal/repository"
	"vie_bot/internal/scheduler"
	"vie_bot/internal/service"
	"vie_bot/internal/storage/bolt"
	"vie_bot/internal/store"
	"vie_bot/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := gamedata.Load(cfg.GameConfigPath, cfg.ShopConfigPath)
	if err != nil {
		logger.Fatal("load game data", "error", err)
	}

	// Storage backend; postgres also hosts the audit and game history tables
	var (
		backend store.Backend
		audit   *service.AuditService
	)
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connect database", "error", err)
		}
		defer pool.Close()
		backend = repository.NewPlayerRepository(pool)
		audit = service.NewAuditService(repository.NewAuditRepository(pool), repository.NewGameHistoryRepository(pool))
	case "bolt":
		bs, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			logger.Fatal("open bolt", "error", err, "path", cfg.BoltPath)
		}
		backend = bs
		audit = service.NewAuditService(nil, nil)
	default:
		backend = store.NewMemoryBackend()
		audit = service.NewAuditService(nil, nil)
	}

	var opts []store.Option
	if cfg.WriteBehind {
		opts = append(opts, store.WithWriteBehind())
	}
	st, err := store.Open(ctx, backend, data, opts...)
	if err != nil {
		logger.Fatal("open store", "error", err)
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		// fail open: rate limits fall back to memory and the leaderboard to scans
		logger.Warn("redis unavailable", "error", err)
		redisClient = nil
	}
	middleware.InitRedisRateLimiter(redisClient)

	var board service.LeaderboardCache
	if redisClient != nil {
		board = cache.NewLeaderboard(redisClient)
	}

	quests := service.NewQuestService(st)
	svc := bot.Services{
		Economy:  service.NewEconomyService(st, quests, audit),
		Hatchery: service.NewHatcheryService(st, quests),
		Hunt:     service.NewHuntService(st, quests),
		Dungeon:  service.NewDungeonService(st, quests),
		Shop:     service.NewShopService(st, quests, audit),
		Casino: service.NewCasinoService(st, quests, audit, service.CasinoLimits{
			MinBet:           cfg.MinBet,
			MaxBet:           cfg.MaxBet,
			BlackjackTimeout: cfg.BlackjackTimeout,
		}),
		Quests:      quests,
		Guilds:      service.NewGuildService(st, audit),
		Admin:       service.NewAdminService(st, audit),
		Leaderboard: service.NewLeaderboardService(st, board),
	}
	if err := svc.Leaderboard.Refresh(ctx); err != nil {
		logger.Warn("initial leaderboard refresh failed", "error", err)
	}

	hub := ws.NewHub()
	hub.StartCleanup(time.Minute)
	dispatcher := bot.NewDispatcher(svc, cfg.IsAdmin, hub)

	uploader, err := backup.New(ctx, cfg.Backup)
	if err != nil {
		logger.Fatal("backup", "error", err)
	}
	sched, err := scheduler.New(scheduler.Jobs{
		Store:       st,
		Casino:      svc.Casino,
		Leaderboard: svc.Leaderboard,
		Backup:      uploader,
	}, scheduler.Intervals{
		Flush:       cfg.FlushInterval,
		Sweep:       cfg.SessionSweepInterval,
		Leaderboard: cfg.LeaderboardInterval,
		Backup:      cfg.Backup.Interval,
	})
	if err != nil {
		logger.Fatal("scheduler", "error", err)
	}
	sched.Start()

	checks := map[string]handlers.Check{"store": st.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	httpServer.RegisterRoutes(r, httpServer.Deps{
		Config:     cfg,
		Version:    version,
		Dispatcher: dispatcher,
		Services:   svc,
		Audit:      audit,
		Hub:        hub,
		Checks:     checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	hub.Close()
	if err := sched.Shutdown(); err != nil {
		logger.Error("scheduler shutdown", "error", err)
	}
	// settle what is left so no stake stays debited
	if n := svc.Casino.SweepExpired(shutdownCtx, time.Now().Add(cfg.BlackjackTimeout)); n > 0 {
		logger.Info("open blackjack hands settled", "count", n)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := st.Close(shutdownCtx); err != nil {
		logger.Error("store close", "error", err)
	}
	logger.Info("server exited")
}

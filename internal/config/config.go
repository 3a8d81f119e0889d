package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	// Storage: "bolt" (embedded file), "postgres" or "memory"
	StoreBackend string `env:"STORE_BACKEND" envDefault:"bolt"`
	BoltPath     string `env:"BOLT_PATH" envDefault:"data/vie.db"`
	DatabaseURL  string `env:"DATABASE_URL"`
	WriteBehind  bool   `env:"WRITE_BEHIND" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret     string   `env:"JWT_SECRET,required,notEmpty"`
	AdminUserIDs  []string `env:"ADMIN_USER_IDS" envSeparator:","`
	AllowedOrigin string   `env:"ALLOWED_ORIGIN"`

	GameConfigPath string `env:"GAME_CONFIG_PATH" envDefault:"data/game_config.json"`
	ShopConfigPath string `env:"SHOP_CONFIG_PATH" envDefault:"data/shop_config.json"`

	// Game limits
	MinBet int64 `env:"MIN_BET" envDefault:"10"`
	MaxBet int64 `env:"MAX_BET" envDefault:"1000000"`

	// Per-IP API rate limit: APIRateLimit requests per APIRateWindow seconds
	APIRateLimit  int `env:"API_RATE_LIMIT" envDefault:"120"`
	APIRateWindow int `env:"API_RATE_WINDOW_SECONDS" envDefault:"60"`

	// Per-user command rate limit: CommandRateLimit calls per CommandRateWindow seconds
	CommandRateLimit  int `env:"COMMAND_RATE_LIMIT" envDefault:"30"`
	CommandRateWindow int `env:"COMMAND_RATE_WINDOW" envDefault:"60"`

	FlushInterval        time.Duration `env:"FLUSH_INTERVAL" envDefault:"30s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10s"`
	LeaderboardInterval  time.Duration `env:"LEADERBOARD_INTERVAL" envDefault:"5m"`
	BlackjackTimeout     time.Duration `env:"BLACKJACK_TIMEOUT" envDefault:"60s"`

	Backup BackupConfig `envPrefix:"BACKUP_"`
}

// BackupConfig points at an S3-compatible bucket. Backups are off when Bucket is empty.
type BackupConfig struct {
	Bucket          string        `env:"BUCKET"`
	Endpoint        string        `env:"ENDPOINT"`
	Region          string        `env:"REGION" envDefault:"auto"`
	AccessKeyID     string        `env:"ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"SECRET_ACCESS_KEY"`
	Prefix          string        `env:"PREFIX" envDefault:"snapshots"`
	Interval        time.Duration `env:"INTERVAL" envDefault:"6h"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "bolt":
		if c.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH is not set")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.MinBet <= 0 || c.MaxBet < c.MinBet {
		return fmt.Errorf("invalid bet limits: min %d max %d", c.MinBet, c.MaxBet)
	}
	if c.CommandRateLimit <= 0 || c.CommandRateWindow <= 0 {
		return fmt.Errorf("invalid command rate limit")
	}
	if c.APIRateLimit <= 0 || c.APIRateWindow <= 0 {
		return fmt.Errorf("invalid api rate limit")
	}
	for i, id := range c.AdminUserIDs {
		id = strings.TrimSpace(id)
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return fmt.Errorf("ADMIN_USER_IDS: %q is not a user id", id)
		}
		c.AdminUserIDs[i] = id
	}
	return nil
}

// IsAdmin reports whether userID is listed in ADMIN_USER_IDS.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_USER_IDS", "123, 456")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != "bolt" || cfg.AppPort != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MinBet != 10 {
		t.Fatalf("MinBet = %d, want 10", cfg.MinBet)
	}
	if !cfg.IsAdmin("456") || cfg.IsAdmin("789") {
		t.Fatalf("admin ids not parsed: %v", cfg.AdminUserIDs)
	}
	if cfg.Backup.Bucket != "" {
		t.Fatalf("backup should be disabled by default")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadRejectsPostgresWithoutDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres without DATABASE_URL")
	}
}

func TestLoadRejectsBadAdminID(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_USER_IDS", "abc")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric admin id")
	}
}

func TestLoadMemoryBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "memory")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIRateLimit != 120 || cfg.LeaderboardInterval.Minutes() != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FRONTEND_ORIGIN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address() != ":5000" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
	if cfg.FrontendOrigin != "http://localhost:3000" {
		t.Fatalf("unexpected origin %q", cfg.FrontendOrigin)
	}
	if cfg.HorizonURL != TestnetHorizonURL || cfg.NetworkPassphrase != TestnetPassphrase {
		t.Fatalf("expected testnet endpoints, got %s / %s", cfg.HorizonURL, cfg.NetworkPassphrase)
	}
	if cfg.ShutdownPeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown period %s", cfg.ShutdownPeriod)
	}
}

func TestLoadDurationOverrides(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("IDEMPOTENCY_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.ShutdownPeriod)
	}
	if cfg.IdempotencyTTL != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", cfg.IdempotencyTTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CREATE_RATE_LIMIT", "many")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric rate limit")
	}

	t.Setenv("CREATE_RATE_LIMIT", "")
	t.Setenv("FRONTEND_ORIGIN", "*")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origin")
	}
}

func TestAddressKeepsColonPrefix(t *testing.T) {
	if got := (Config{Port: ":8081"}).Address(); got != ":8081" {
		t.Fatalf("unexpected address %q", got)
	}
}

func TestLoadTokenSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ACCESS_TOKEN_TTL_SECONDS", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")

	first, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, _ := Load()
	if len(first.JWTSecret) != 64 || first.JWTSecret == second.JWTSecret {
		t.Fatalf("expected distinct generated secrets, got %q and %q", first.JWTSecret, second.JWTSecret)
	}
	if first.AccessTokenTTL != time.Hour {
		t.Fatalf("unexpected default ttl %s", first.AccessTokenTTL)
	}

	t.Setenv("JWT_SECRET", "fixed")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "fixed" || cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("unexpected token settings %q %s", cfg.JWTSecret, cfg.AccessTokenTTL)
	}
}

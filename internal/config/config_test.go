package config

import (
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"DB_DSN": "postgres://localhost/slots"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != EnvDevelopment {
		t.Fatalf("expected development env, got %q", cfg.Environment)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.StoreDriver)
	}
	if cfg.HTTPAddr != ":4000" {
		t.Fatalf("expected :4000, got %q", cfg.HTTPAddr)
	}
	if cfg.DBLockTimeout != 5*time.Second {
		t.Fatalf("expected 5s lock timeout, got %v", cfg.DBLockTimeout)
	}
	if cfg.RateLimitRPS != 20 {
		t.Fatalf("expected 20 rps, got %v", cfg.RateLimitRPS)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", cfg.CORSOrigins)
	}
	if cfg.JWTSecret != defaultJWTSecret {
		t.Fatalf("expected development jwt secret")
	}
	if cfg.BotLocation != time.UTC {
		t.Fatalf("expected UTC bot location, got %v", cfg.BotLocation)
	}
}

func TestFromEnv_RequiresDSNForPostgres(t *testing.T) {
	if _, err := FromEnv(envMap(nil)); err == nil {
		t.Fatalf("expected error without DB_DSN")
	}
}

func TestFromEnv_MemoryDriverNeedsNoDSN(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"STORE_DRIVER": "memory"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.StoreDriver)
	}
}

func TestFromEnv_ProductionRequiresSecret(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{
		"ENV":          EnvProduction,
		"STORE_DRIVER": StoreDriverMemory,
	}))
	if err == nil {
		t.Fatalf("expected error without JWT_SECRET in production")
	}
}

func TestFromEnv_ParsesLists(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"STORE_DRIVER":    StoreDriverMemory,
		"CORS_ORIGINS":    " https://a.example , https://b.example,, ",
		"DB_LOCK_TIMEOUT": "750ms",
		"RATE_LIMIT_RPS":  "0",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.DBLockTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected lock timeout: %v", cfg.DBLockTimeout)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limit disabled")
	}
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":       {"STORE_DRIVER": "sqlite"},
		"lock timeout": {"STORE_DRIVER": StoreDriverMemory, "DB_LOCK_TIMEOUT": "soon"},
		"negative rps": {"STORE_DRIVER": StoreDriverMemory, "RATE_LIMIT_RPS": "-1"},
		"timezone":     {"STORE_DRIVER": StoreDriverMemory, "BOT_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(envMap(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverMongo || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be opt-in, got %q", cfg.Redis.Addr)
	}
	if cfg.Redirect.Admin != "/admin" || cfg.Redirect.User != "/user" || cfg.Redirect.Default != "/" {
		t.Fatalf("unexpected redirects: %+v", cfg.Redirect)
	}
	if !cfg.Seed.Enabled || cfg.Hash.Algorithm != "bcrypt" {
		t.Fatalf("unexpected seed/hash defaults: %+v %+v", cfg.Seed, cfg.Hash)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"STORE_DRIVER":   "sqlite",
		"SQLITE_PATH":    "/tmp/x.db",
		"TOKEN_TTL":      "15m",
		"HASH_ALGORITHM": "argon2id",
		"REDIS_ADDR":     "redis:6379",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.SQLite.Path != "/tmp/x.db" || cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Hash.Algorithm != "argon2id" || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER": "postgres",
	}))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"JWT_SECRET", "STORE_DRIVER"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err)
		}
	}
}

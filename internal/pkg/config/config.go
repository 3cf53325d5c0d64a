package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo    MongoConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Hash     HashConfig
	Seed     SeedConfig
	Redirect RedirectConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_directory"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=data/directory.db"`
}

// RedisConfig is optional: with an empty Addr logout revocations are kept in
// process memory.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type HashConfig struct {
	Algorithm  string `env:"HASH_ALGORITHM, default=bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST,    default=10"`
}

type SeedConfig struct {
	Enabled  bool   `env:"SEED_ENABLED,  default=true"`
	Password string `env:"SEED_PASSWORD"`
}

type RedirectConfig struct {
	Admin   string `env:"REDIRECT_ADMIN,   default=/admin"`
	User    string `env:"REDIRECT_USER,    default=/user"`
	Default string `env:"REDIRECT_DEFAULT, default=/"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	switch c.StoreDriver {
	case DriverMongo, DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of mongo, sqlite, memory", c.StoreDriver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

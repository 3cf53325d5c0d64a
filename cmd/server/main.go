// Command server runs the user directory API.
//
// @title                       User Directory API
// @version                     1.0
// @description                 User accounts, role assignment and role-gated access.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/accessdesk/user-directory/internal/api"
	"github.com/accessdesk/user-directory/internal/api/handler"
	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
	"github.com/accessdesk/user-directory/internal/core/service"
	"github.com/accessdesk/user-directory/internal/infrastructure/db/memory"
	mongostore "github.com/accessdesk/user-directory/internal/infrastructure/db/mongo"
	redisstore "github.com/accessdesk/user-directory/internal/infrastructure/db/redis"
	"github.com/accessdesk/user-directory/internal/infrastructure/db/sqlite"
	"github.com/accessdesk/user-directory/internal/infrastructure/password"
	"github.com/accessdesk/user-directory/internal/pkg/config"
	"github.com/accessdesk/user-directory/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// stores is what the selected driver provides.
type stores struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	pinger handler.Pinger
	close  func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-directory",
		Caller:  cfg.IsDevelopment(),
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	readiness := map[string]handler.Pinger{cfg.StoreDriver: st.pinger}

	var revocations ports.TokenRevocations = memory.NewRevocations()
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		revocations = redisstore.NewRevocationStore(rdb)
		readiness["redis"] = redisstore.NewPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocations in redis")
	} else {
		log.Warn().Msg("REDIS_ADDR not set; token revocations are kept in memory")
	}

	hasher, err := password.New(password.Options{
		Algorithm:  cfg.Hash.Algorithm,
		BcryptCost: cfg.Hash.BcryptCost,
	})
	if err != nil {
		return err
	}

	roles := service.NewRoleService(st.roles, logger.WithComponent("roles"))
	users := service.NewUserService(st.users, roles, hasher, logger.WithComponent("users"))
	auth := service.NewAuthService(users, hasher, revocations, service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Destinations: domain.Destinations{
			Admin:   cfg.Redirect.Admin,
			User:    cfg.Redirect.User,
			Default: cfg.Redirect.Default,
		},
	}, logger.WithComponent("auth"))

	if cfg.Seed.Enabled {
		if err := service.Bootstrap(ctx, st.roles, users, service.SeedOptions{Password: cfg.Seed.Password}, logger.WithComponent("bootstrap")); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		Users:     users,
		Roles:     roles,
		Auth:      auth,
		Readiness: readiness,
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &stores{
			users:  mongostore.NewUserRepository(db),
			roles:  mongostore.NewRoleRepository(db),
			pinger: mongostore.NewPinger(client),
			close:  client.Disconnect,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("sqlite store ready")
		return &stores{
			users:  sqlite.NewUserRepository(db),
			roles:  sqlite.NewRoleRepository(db),
			pinger: sqlite.NewPinger(db),
			close:  func(context.Context) error { return db.Close() },
		}, nil

	default:
		log.Warn().Msg("memory store selected; data is lost on restart")
		return &stores{
			users:  memory.NewUserStore(),
			roles:  memory.NewRoleStore(),
			pinger: memoryPinger{},
			close:  func(context.Context) error { return nil },
		}, nil
	}
}

type memoryPinger struct{}

func (memoryPinger) Ping(context.Context) error { return nil }

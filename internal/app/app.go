// Package app wires configuration into concrete backends. It is the only
// place that knows about every repository, cache and lock implementation;
// the commands build their dependencies through it.
package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/solera-labs/estancia/internal/cache/memory"
	"github.com/solera-labs/estancia/internal/cache/redis"
	"github.com/solera-labs/estancia/internal/config"
	"github.com/solera-labs/estancia/internal/lock"
	"github.com/solera-labs/estancia/internal/repository"
	memoryrepo "github.com/solera-labs/estancia/internal/repository/memory"
	"github.com/solera-labs/estancia/internal/repository/postgres"
	"github.com/solera-labs/estancia/internal/repository/sqlite"
)

// Backend bundles the repositories of the configured driver with the
// handle needed to ping and close it. Health is nil for the volatile driver.
type Backend struct {
	Repos  *repository.Repositories
	Health repository.DatabaseHealth
}

// Close releases the backend's resources.
func (b *Backend) Close() error {
	if b.Health == nil {
		return nil
	}
	return b.Health.Close()
}

// OpenBackend opens the repositories selected by database.driver, running
// schema migrations for the durable drivers.
func OpenBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	switch cfg.Database.Driver {
	case "memory":
		return &Backend{Repos: memoryrepo.NewRepositories()}, nil

	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return &Backend{Repos: sqlite.NewRepositories(db), Health: db}, nil

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate postgres database: %w", err)
		}
		return &Backend{Repos: postgres.NewRepositories(db), Health: db}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// OpenCache returns the Redis cache when redis.enabled is set, the
// in-process cache otherwise.
func OpenCache(ctx context.Context, cfg *config.Config) (repository.Cache, error) {
	if !cfg.Redis.Enabled {
		return memory.NewCache(), nil
	}

	cache, err := redis.NewCache(ctx, redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open redis cache: %w", err)
	}
	return cache, nil
}

// OpenLocker returns a Redis-backed locker sharing the cache's connection
// when Redis is enabled, an in-process locker otherwise.
func OpenLocker(cfg *config.Config, cache repository.Cache) lock.Locker {
	if cfg.Redis.Enabled {
		if rc, ok := cache.(interface{ Client() *goredis.Client }); ok {
			return lock.NewRedisLocker(rc.Client())
		}
	}
	return lock.NewMemoryLocker()
}

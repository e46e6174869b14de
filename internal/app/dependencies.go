package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/smartworking/order-processing/internal/domain"
	healthcheck "github.com/smartworking/order-processing/internal/health"
	"github.com/smartworking/order-processing/internal/service/status"
	"github.com/smartworking/order-processing/internal/storage/memory"
	"github.com/smartworking/order-processing/internal/storage/postgres"
	redisstore "github.com/smartworking/order-processing/internal/storage/redis"
)

// Dependencies содержит хранилища и внешние подключения приложения.
// Отсутствие DSN или адреса в конфигурации переключает компонент на
// in-memory реализацию для локального запуска.
type Dependencies struct {
	Repo      domain.OrderRepository
	Changelog domain.ChangelogRepository
	Cooldown  domain.CooldownStore
	Logger    *log.Entry

	pg      *postgres.Store
	redis   *redisstore.CooldownStore
	sweeper status.ExpiredCooldownStore
}

// NewDependencies создаёт хранилища согласно конфигурации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.pg = store
		deps.Repo = postgres.NewOrderRepository(store)
		deps.Changelog = postgres.NewChangelogRepository(store)
		// Таблица cooldown_locks не имеет нативного TTL и требует
		// фоновой уборки истёкших записей.
		cooldowns := postgres.NewCooldownStore(store)
		deps.Cooldown = cooldowns
		deps.sweeper = cooldowns
		logger.Info("postgres storage initialized")
	} else {
		deps.Repo = memory.NewOrderRepository()
		deps.Changelog = memory.NewChangelogRepository()
		deps.Cooldown = memory.NewCooldownStore()
		logger.Warn("postgres is not configured, using in-memory storage")
	}

	if cfg.RedisAddr != "" {
		store, err := redisstore.Open(ctx, cfg.RedisAddr)
		if err != nil {
			_ = deps.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		deps.redis = store
		deps.Cooldown = store
		// Redis истекает ключи сам, уборка не нужна.
		deps.sweeper = nil
		logger.WithField("addr", cfg.RedisAddr).Info("redis cooldown store initialized")
	}

	return deps, nil
}

// CooldownSweeper возвращает активное cooldown-хранилище, требующее
// фоновой уборки истёкших записей, либо nil.
func (d *Dependencies) CooldownSweeper() status.ExpiredCooldownStore {
	return d.sweeper
}

// RegisterHealthCheckers добавляет проверки подключений в health handler.
func (d *Dependencies) RegisterHealthCheckers(handler *healthcheck.Handler) {
	if d.pg != nil {
		handler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return d.pg.Ping(context.Background())
		}))
	}
	if d.redis != nil {
		handler.RegisterChecker("redis", healthcheck.NewSimpleChecker("redis", func() error {
			return d.redis.Ping(context.Background())
		}))
	}
}

// Close закрывает внешние подключения.
func (d *Dependencies) Close() error {
	var firstErr error
	if d.redis != nil {
		if err := d.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.pg != nil {
		if err := d.pg.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

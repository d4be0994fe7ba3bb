package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anurags10/medibook"
	"github.com/anurags10/medibook/internal/backend"
	"github.com/anurags10/medibook/internal/config"
	"github.com/anurags10/medibook/internal/logging"
	"github.com/anurags10/medibook/pkg/adapters/file"
	httpadapter "github.com/anurags10/medibook/pkg/adapters/http"
	"github.com/anurags10/medibook/pkg/adapters/memory"
	"github.com/anurags10/medibook/pkg/adapters/postgres"
	"github.com/anurags10/medibook/pkg/adapters/redis"
	"github.com/anurags10/medibook/pkg/ledger"
	"github.com/anurags10/medibook/pkg/observability"
	"github.com/anurags10/medibook/pkg/persistence/middleware"
	"github.com/anurags10/medibook/pkg/ports"
)

// NewLogger builds the process logger from cfg.Log.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.Log.Format == "json"), nil
}

// NewEngine creates a conversation that talks to the configured scheduling service.
// Debug mode adds step and remote-call logging hooks.
func NewEngine(cfg config.Config, logger *slog.Logger, debug bool, extra ...medibook.Option) *medibook.Engine {
	client := httpadapter.NewClient(cfg.Backend.URL,
		httpadapter.WithTimeout(cfg.Backend.Timeout),
		httpadapter.WithAuthSecret(cfg.Backend.Secret),
		httpadapter.WithClientLogger(logger),
	)

	opts := []medibook.Option{medibook.WithLogger(logger)}
	if debug {
		opts = append(opts, medibook.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	opts = append(opts, extra...)
	return medibook.New(client, opts...)
}

// NewBookingStore opens the store selected by cfg.Service.Store, sealing
// patient details when service.encryption_key is set.
// The returned cleanup closes it.
func NewBookingStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.BookingStore, ports.DistributedLocker, func(), error) {
	active, fallback, err := cfg.Service.Keys()
	if err != nil {
		return nil, nil, nil, err
	}
	store, locker, cleanup, err := openBookingStore(ctx, cfg, logger)
	if err != nil || active == nil {
		return store, locker, cleanup, err
	}
	logger.Info("patient details encrypted at rest", "fallback_keys", len(fallback))
	store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallback,
	}))
	return store, locker, cleanup, nil
}

func openBookingStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.BookingStore, ports.DistributedLocker, func(), error) {
	switch cfg.Service.Store {
	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		var locker ports.DistributedLocker
		if cfg.Redis.Lock {
			locker = redis.NewLocker(store.Client(), cfg.Redis.Prefix)
		}
		logger.Info("booking store ready", "store", "redis", "addr", cfg.Redis.Addr, "distributed_lock", cfg.Redis.Lock)
		return store, locker, func() { _ = store.Close() }, nil

	case config.StorePostgres:
		store, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		logger.Info("booking store ready", "store", "postgres")
		return store, nil, store.Close, nil

	case config.StoreFile:
		logger.Info("booking store ready", "store", "file", "dir", cfg.File.Dir)
		return file.New(cfg.File.Dir), nil, func() {}, nil
	}

	logger.Info("booking store ready", "store", "memory")
	return memory.NewStore(), nil, func() {}, nil
}

// NewBackendHandler assembles the reference scheduling service over store.
func NewBackendHandler(cfg config.Config, store ports.BookingStore, locker ports.DistributedLocker, logger *slog.Logger) (http.Handler, error) {
	day := backend.WorkingDay{Open: cfg.Service.OpenTime, Close: cfg.Service.CloseTime}
	open, err := time.Parse("15:04", day.Open)
	if err != nil {
		return nil, fmt.Errorf("invalid service.open %q: %w", day.Open, err)
	}
	closing, err := time.Parse("15:04", day.Close)
	if err != nil {
		return nil, fmt.Errorf("invalid service.close %q: %w", day.Close, err)
	}
	if !open.Before(closing) {
		return nil, fmt.Errorf("service.open %s must be before service.close %s", day.Open, day.Close)
	}

	ledgerOpts := []ledger.Option{ledger.WithLogger(logger), ledger.WithLockTTL(cfg.Service.LockTTL)}
	if locker != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithLocker(locker))
	}
	svc := backend.NewService(ledger.NewManager(store, ledgerOpts...),
		backend.WithWorkingDay(day),
		backend.WithLogger(logger),
	)

	handlerOpts := []backend.HandlerOption{backend.WithAuthSecret(cfg.Service.Secret)}
	if cfg.Service.Metrics {
		metrics := observability.NewMetrics()
		handlerOpts = append(handlerOpts,
			backend.WithMiddleware(metrics.Middleware),
			backend.WithMetricsHandler(metrics.Handler()),
		)
	}
	return backend.NewHandler(svc, handlerOpts...), nil
}

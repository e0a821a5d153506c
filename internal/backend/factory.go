package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"incassi/internal/cache"
	"incassi/internal/store"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new store factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateStore builds the configured backend and wraps it with the TTL read
// cache. A backend that cannot initialize is a hard failure: the caller must
// not serve without storage.
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Minute
	}

	var (
		inner   store.Store
		cleanup CleanupFunc
	)

	switch config.Type {
	case MongoBackend:
		m, err := store.NewMongo(ctx, config.MongoURI, config.MongoDB, config.Now)
		if err != nil {
			return nil, fmt.Errorf("initialize mongo backend: %w", err)
		}
		inner = m
		cleanup = m.Close
		f.logger.Info("Initialized mongo backend", "database", config.MongoDB)

	case SQLiteBackend:
		s, err := store.NewSQLite(config.SQLiteDBPath, config.Now)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		inner = s
		cleanup = func(context.Context) error { return s.Close() }
		f.logger.Info("Initialized sqlite backend", "db_path", config.SQLiteDBPath)

	case MemoryBackend:
		inner = store.NewMemory(config.Now)
		f.logger.Info("Initialized memory backend")

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	cached := store.NewCached(inner, config.CacheTTL, config.Now)

	manager := cache.NewManager()
	cached.RegisterWith(manager)
	manager.StartCleanup(10 * time.Minute)

	innerCleanup := cleanup
	cleanup = func(ctx context.Context) error {
		manager.Stop()
		if innerCleanup != nil {
			return innerCleanup(ctx)
		}
		return nil
	}

	return &Result{Store: cached, Cleanup: cleanup}, nil
}

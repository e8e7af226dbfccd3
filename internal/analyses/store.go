package analyses

import (
	"context"
	"fmt"

	"leadgenius_backend/internal/analyses/repository"
	apphttp "leadgenius_backend/internal/http"
	"leadgenius_backend/platform/config"
	"leadgenius_backend/platform/db"
)

// StoreConfig combines the config interfaces needed to open a store.
type StoreConfig interface {
	config.AnalysesConfig
	config.DatabaseConfig
	config.SchedulerConfig
}

// OpenedStore is an analyses store together with its readiness check.
type OpenedStore struct {
	Store  repository.Store
	Health apphttp.HealthChecker
	Close  func()
}

// OpenStore opens the store selected by ANALYSES_STORE. Postgres runs the
// pending migrations before connecting. The memory store has no health
// check.
func OpenStore(ctx context.Context, cfg StoreConfig) (*OpenedStore, error) {
	switch cfg.GetAnalysesStore() {
	case config.StorePostgres:
		if err := db.RunMigrations(ctx, cfg); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &OpenedStore{
			Store:  repository.NewPostgresStore(pool),
			Health: db.NewPoolAdapter(pool),
			Close:  pool.Close,
		}, nil
	case config.StoreRedis:
		client, err := db.NewRedisClient(ctx, cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &OpenedStore{
			Store:  repository.NewRedisStore(client),
			Health: db.NewRedisAdapter(client),
			Close:  func() { _ = client.Close() },
		}, nil
	default:
		return &OpenedStore{
			Store: repository.NewMemoryStore(),
			Close: func() {},
		}, nil
	}
}

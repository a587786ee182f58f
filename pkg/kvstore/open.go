package kvstore

import (
	"context"
	"fmt"

	"github.com/noah-isme/campus-events-api/pkg/cache"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/database"
)

// Open builds the backend selected by cfg.Store.Backend, namespaced with the
// configured key prefix.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var store Store
	switch cfg.Store.Backend {
	case "", config.StoreMemory:
		store = NewMemoryStore()
	case config.StoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		store = NewRedisStore(client)
	case config.StorePostgres, config.StoreSQLite:
		sqlStore, err := openSQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = sqlStore
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return WithPrefix(store, cfg.Store.KeyPrefix), nil
}

func openSQL(ctx context.Context, cfg *config.Config) (*SQLStore, error) {
	open := database.NewPostgres
	if cfg.Store.Backend == config.StoreSQLite {
		open = database.NewSQLite
	}
	db, err := open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Store.Backend, err)
	}
	store, err := NewSQLStore(db, cfg.Store.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

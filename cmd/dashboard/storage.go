package main

import (
	"context"
	"fmt"

	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/infrastructure/db/mongo"
	"github.com/research-tracker/dashboard/internal/infrastructure/db/redis"
	"github.com/research-tracker/dashboard/internal/infrastructure/storage"
	"github.com/research-tracker/dashboard/internal/pkg/config"
)

// openStorage builds the session storage selected by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config) (ports.SessionStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil
	case config.StorageFile:
		fs, err := storage.NewFileStore(cfg.Storage.Path, cfg.Storage.Secret)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.StorageRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return redis.NewSessionStorage(client, cfg.Storage.Namespace, cfg.Storage.TTL), nil
	case config.StorageMongo:
		_, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return mongo.NewSessionStorage(db, cfg.Storage.Namespace), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/montage/internal/adapter/cache"
	gormAdapter "github.com/bornholm/montage/internal/adapter/gorm"
	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

var getTaskStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*gormAdapter.TaskStore, error) {
	db, err := getGormDatabaseFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return gormAdapter.NewTaskStore(db), nil
})

var getProfileStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.ProfileStore, error) {
	db, err := getGormDatabaseFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var store port.ProfileStore = gormAdapter.NewProfileStore(db)

	cacheConf := conf.Dispatcher.RecipientCache
	if cacheConf.Enabled {
		slog.DebugContext(ctx, "using cached profile store", slog.Duration("ttl", cacheConf.TTL), slog.Int("cache_size", cacheConf.Size))
		store = cache.NewProfileStore(store, cacheConf.Size, cacheConf.TTL)
	}

	return store, nil
})

var getLockerFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.Locker, error) {
	db, err := getGormDatabaseFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return gormAdapter.NewLocker(db), nil
})

func NewTaskStoreFromConfig(ctx context.Context, conf *config.Config) (port.TaskStore, error) {
	store, err := getTaskStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
}

func NewProfileStoreFromConfig(ctx context.Context, conf *config.Config) (port.ProfileStore, error) {
	store, err := getProfileStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
}

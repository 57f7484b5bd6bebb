package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/montage/internal/config"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode=wal",
	"PRAGMA foreign_keys=on",
	"PRAGMA busy_timeout=5000",
}

var getGormDatabaseFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*gorm.DB, error) {
	dsn := conf.Storage.Database.DSN

	db, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(conf.Logger.Level)),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open database '%s'", dsn)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// The dispatcher lock relies on a single writer connection
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			return nil, errors.Wrapf(err, "could not execute '%s'", pragma)
		}
	}

	slog.DebugContext(ctx, "database opened", slog.String("dsn", dsn))

	return db, nil
})

// gormLogLevel keeps the sql traces for the debug level.
func gormLogLevel(level slog.Level) logger.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return logger.Info
	case level <= slog.LevelWarn:
		return logger.Warn
	default:
		return logger.Error
	}
}

package gorm

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/montage/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lease is a named, expiring mutual exclusion lock.
type Lease struct {
	Name string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time

	Owner string
	// ExpiresAt is the lease expiry, in unix milliseconds.
	ExpiresAt int64 `gorm:"index"`
}

func (Lease) TableName() string {
	return "dispatcher_locks"
}

type Locker struct {
	getDatabase getDatabaseFunc
	clock       func() time.Time
}

// Acquire implements port.Locker.
func (l *Locker) Acquire(ctx context.Context, name string, ttl time.Duration) (port.ReleaseFunc, error) {
	owner := xid.New().String()
	now := l.clock()

	var acquired bool

	err := withRetry(ctx, l.getDatabase, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Where("name = ? AND expires_at <= ?", name, now.UnixMilli()).Delete(&Lease{}).Error; err != nil {
			return errors.WithStack(err)
		}

		lease := &Lease{
			Name:      name,
			Owner:     owner,
			ExpiresAt: now.Add(ttl).UnixMilli(),
		}

		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(lease)
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}

		acquired = res.RowsAffected > 0

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !acquired {
		return nil, errors.WithStack(port.ErrLocked)
	}

	slog.DebugContext(ctx, "lock acquired", slog.String("lock", name), slog.String("owner", owner))

	release := func(ctx context.Context) error {
		err := withRetry(ctx, l.getDatabase, func(ctx context.Context, db *gorm.DB) error {
			if err := db.Where("name = ? AND owner = ?", name, owner).Delete(&Lease{}).Error; err != nil {
				return errors.WithStack(err)
			}

			return nil
		}, sqlite3.LOCKED, sqlite3.BUSY)
		if err != nil {
			return errors.WithStack(err)
		}

		slog.DebugContext(ctx, "lock released", slog.String("lock", name), slog.String("owner", owner))

		return nil
	}

	return release, nil
}

func NewLocker(db *gorm.DB) *Locker {
	return &Locker{
		getDatabase: createGetDatabase(db, &Lease{}),
		clock:       time.Now,
	}
}

var _ port.Locker = &Locker{}

package port

import (
	"context"
	"time"
)

type ReleaseFunc func(ctx context.Context) error

type Locker interface {
	// Acquire takes the named lock for at most ttl. It returns ErrLocked
	// when the lock is held by someone else.
	Acquire(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error)
}

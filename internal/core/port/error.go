package port

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrCanceled = errors.New("canceled")
	// ErrMissingDestination reports a dispatcher without a delivery
	// destination. It is a configuration error, fatal to an invocation.
	ErrMissingDestination = errors.New("missing notification destination")
	// ErrLocked reports that another invocation currently holds the lock.
	ErrLocked = errors.New("locked")
)

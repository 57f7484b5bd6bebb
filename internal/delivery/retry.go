package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

// RetryDeliverer retries the deliveries failing with a transient error, with
// an exponential backoff.
type RetryDeliverer struct {
	baseDelay  time.Duration
	maxRetries int
	transient  func(err error) bool
	deliverer  port.Deliverer
}

// Deliver implements [port.Deliverer].
func (d *RetryDeliverer) Deliver(ctx context.Context, payload model.NotificationPayload) error {
	backoff := d.baseDelay
	retries := 0

	for {
		err := d.deliverer.Deliver(ctx, payload)
		if err == nil {
			return nil
		}

		if retries >= d.maxRetries || !d.transient(err) {
			return errors.WithStack(err)
		}

		slog.DebugContext(ctx, "delivery failed, will retry", slog.Int("retries", retries), slog.Duration("backoff", backoff), slog.Any("error", errors.WithStack(err)))

		retries++

		select {
		case <-ctx.Done():
			return errors.WithStack(err)
		case <-time.After(backoff):
		}

		backoff *= 2
	}
}

func NewRetryDeliverer(deliverer port.Deliverer, transient func(err error) bool, baseDelay time.Duration, maxRetries int) *RetryDeliverer {
	return &RetryDeliverer{
		baseDelay:  baseDelay,
		maxRetries: maxRetries,
		transient:  transient,
		deliverer:  deliverer,
	}
}

var _ port.Deliverer = &RetryDeliverer{}

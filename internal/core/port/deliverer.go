package port

import (
	"context"

	"github.com/bornholm/montage/internal/core/model"
)

type Deliverer interface {
	// Deliver sends a single notification to the external channel.
	Deliver(ctx context.Context, payload model.NotificationPayload) error
}

type DelivererFunc func(ctx context.Context, payload model.NotificationPayload) error

func (f DelivererFunc) Deliver(ctx context.Context, payload model.NotificationPayload) error {
	return f(ctx, payload)
}

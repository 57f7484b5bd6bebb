package delivery

import (
	"context"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitedDeliverer bounds the rate of the calls to the wrapped deliverer.
type RateLimitedDeliverer struct {
	limiter   *rate.Limiter
	deliverer port.Deliverer
}

// Deliver implements [port.Deliverer].
func (d *RateLimitedDeliverer) Deliver(ctx context.Context, payload model.NotificationPayload) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return errors.WithStack(err)
	}

	return d.deliverer.Deliver(ctx, payload)
}

func NewRateLimitedDeliverer(deliverer port.Deliverer, interval time.Duration, maxBurst int) *RateLimitedDeliverer {
	return &RateLimitedDeliverer{
		limiter:   rate.NewLimiter(rate.Every(interval), maxBurst),
		deliverer: deliverer,
	}
}

var _ port.Deliverer = &RateLimitedDeliverer{}

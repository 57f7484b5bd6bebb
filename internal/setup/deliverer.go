package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/montage/internal/adapter/discord"
	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/delivery"
	"github.com/pkg/errors"
)

// getDelivererFromConfig returns a nil deliverer when no webhook is
// configured. The dispatcher reports it as a misconfiguration on run.
var getDelivererFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.Deliverer, error) {
	webhook := conf.Dispatcher.Webhook
	if webhook.URL == "" {
		slog.WarnContext(ctx, "no webhook url configured, dispatches will fail")
		return nil, nil
	}

	client, err := discord.NewClient(
		webhook.URL,
		discord.WithUsername(webhook.Username),
		discord.WithAvatarURL(webhook.AvatarURL),
		discord.WithFooter(webhook.Footer),
		discord.WithColor(webhook.Color),
		discord.WithTimeout(webhook.Timeout),
		discord.WithMaxRetries(webhook.MaxRetries),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create webhook client for '%s'", discord.RedactURL(webhook.URL))
	}

	var deliverer port.Deliverer = client

	retry := conf.Dispatcher.Delivery
	if retry.MaxRetries > 0 {
		deliverer = delivery.NewRetryDeliverer(deliverer, discord.IsTransient, retry.BaseDelay, retry.MaxRetries)
	}

	rateLimit := conf.Dispatcher.RateLimit
	if rateLimit.Enabled {
		slog.DebugContext(ctx, "using rate limited deliverer", slog.Duration("interval", rateLimit.Interval), slog.Int("burst", rateLimit.Burst))
		deliverer = delivery.NewRateLimitedDeliverer(deliverer, rateLimit.Interval, rateLimit.Burst)
	}

	return deliverer, nil
})

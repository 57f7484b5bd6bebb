package setup

import (
	"context"

	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/http"
	"github.com/bornholm/montage/internal/http/handler/metrics"
	"github.com/pkg/errors"
)

func NewHTTPServerFromConfig(ctx context.Context, conf *config.Config) (*http.Server, error) {
	api, err := getAPIHandlerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure api handler from config")
	}

	options := []http.OptionFunc{
		http.WithAddress(conf.HTTP.Address),
		http.WithBaseURL(conf.HTTP.BaseURL),
		http.WithBasicAuth(conf.HTTP.Auth.Username, conf.HTTP.Auth.Password),
		http.WithAllowedOrigins(conf.HTTP.CORS.AllowedOrigins...),
		http.WithMount("/api/v1/", api),
		http.WithMount("/metrics/", metrics.NewHandler()),
	}

	if conf.HTTP.RateLimit.Enabled {
		options = append(options, http.WithRateLimit(conf.HTTP.RateLimit.Interval, conf.HTTP.RateLimit.Burst, conf.HTTP.RateLimit.TrustHeaders))
	}

	server := http.NewServer(options...)

	return server, nil
}

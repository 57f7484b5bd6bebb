package config

import (
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	Logger     Logger     `envPrefix:"LOGGER_"`
	HTTP       HTTP       `envPrefix:"HTTP_"`
	Storage    Storage    `envPrefix:"STORAGE_"`
	Dispatcher Dispatcher `envPrefix:"DISPATCHER_"`
	JobRunner  JobRunner  `envPrefix:"JOB_RUNNER_"`
	Sentry     Sentry     `envPrefix:"SENTRY_"`
}

// Parse reads the MONTAGE_ prefixed environment and rejects values
// the dispatcher could not run with.
func Parse() (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: "MONTAGE_",
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := conf.Dispatcher.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid dispatcher configuration")
	}

	return &conf, nil
}

func (d Dispatcher) validate() error {
	if d.Horizon <= 0 {
		return errors.Errorf("horizon must be positive, got '%s'", d.Horizon)
	}

	if _, err := time.LoadLocation(d.Timezone); err != nil {
		return errors.Wrapf(err, "unknown timezone '%s'", d.Timezone)
	}

	if d.RateLimit.Enabled && d.RateLimit.Burst < 1 {
		return errors.Errorf("rate limit burst must be at least 1, got '%d'", d.RateLimit.Burst)
	}

	if d.Delivery.MaxRetries < 0 {
		return errors.Errorf("delivery max retries cannot be negative, got '%d'", d.Delivery.MaxRetries)
	}

	return nil
}

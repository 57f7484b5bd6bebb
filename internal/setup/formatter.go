package setup

import (
	"context"
	"time"

	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/service/dispatch"
	"github.com/pkg/errors"
)

var getFormatterFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*dispatch.Formatter, error) {
	location, err := time.LoadLocation(conf.Dispatcher.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load timezone '%s'", conf.Dispatcher.Timezone)
	}

	formatter, err := dispatch.NewFormatter(
		dispatch.WithFormatterBaseURL(conf.Dispatcher.BaseURL),
		dispatch.WithFormatterLocation(location),
		dispatch.WithFormatterDateLayout(conf.Dispatcher.DateLayout),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not create formatter")
	}

	return formatter, nil
})

package setup

import (
	"context"

	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/service/dispatch"
	"github.com/pkg/errors"
)

var getDispatcherFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*dispatch.Dispatcher, error) {
	taskStore, err := getTaskStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create task store from config")
	}

	profileStore, err := getProfileStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create profile store from config")
	}

	formatter, err := getFormatterFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create formatter from config")
	}

	deliverer, err := getDelivererFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create deliverer from config")
	}

	options := []dispatch.DispatcherOptionFunc{
		dispatch.WithHorizon(conf.Dispatcher.Horizon),
		dispatch.WithMentionFormat(conf.Dispatcher.MentionFormat),
		dispatch.WithMarkTimeout(conf.Dispatcher.MarkTimeout),
	}

	if conf.Dispatcher.Lock.Enabled {
		locker, err := getLockerFromConfig(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "could not create locker from config")
		}

		options = append(options, dispatch.WithLocker(locker, dispatch.DefaultLockName, conf.Dispatcher.Lock.TTL))
	}

	reporting, err := setupSentryFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if reporting {
		options = append(options, dispatch.WithFailureHook(sentryFailureHook))
	}

	dispatcher := dispatch.NewDispatcher(taskStore, taskStore, profileStore, formatter, deliverer, options...)

	return dispatcher, nil
})

func NewDispatcherFromConfig(ctx context.Context, conf *config.Config) (*dispatch.Dispatcher, error) {
	dispatcher, err := getDispatcherFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return dispatcher, nil
}

package setup

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/core/service/dispatch"
	"github.com/pkg/errors"
)

var JobRunner = NewRegistry[port.JobRunner]()

var getJobRunnerFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.JobRunner, error) {
	jobRunner, err := JobRunner.From(conf.JobRunner.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve job runner for uri '%s'", conf.JobRunner.URI)
	}

	if err := setupJobHandlers(ctx, conf, jobRunner); err != nil {
		return nil, errors.WithStack(err)
	}

	go func() {
		jobRunnerCtx := context.Background()
		backoff := time.Second
		for {
			start := time.Now()
			if err := jobRunner.Run(jobRunnerCtx); err != nil {
				slog.ErrorContext(jobRunnerCtx, "error while running job runner", slog.Any("error", errors.WithStack(err)))
			}
			time.Sleep(backoff)
			if time.Since(start) > backoff/2 {
				backoff = time.Second
			} else {
				backoff *= 2
			}
		}
	}()

	return jobRunner, nil
})

func setupJobHandlers(ctx context.Context, conf *config.Config, jobRunner port.JobRunner) error {
	dispatcher, err := getDispatcherFromConfig(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "could not create dispatcher from config")
	}

	jobRunner.RegisterJob(dispatch.JobTypeDispatch, dispatch.NewDispatchHandler(dispatcher, conf.Dispatcher.RunTimeout))

	return nil
}

// NewSchedulerFromConfig returns nil when the in-process scheduler is
// disabled.
func NewSchedulerFromConfig(ctx context.Context, conf *config.Config) (*dispatch.Scheduler, error) {
	if conf.Dispatcher.ScheduleInterval <= 0 {
		return nil, nil
	}

	jobRunner, err := getJobRunnerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create job runner from config")
	}

	return dispatch.NewScheduler(jobRunner, conf.Dispatcher.ScheduleInterval), nil
}

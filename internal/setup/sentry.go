package setup

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/montage/internal/build"
	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/service/dispatch"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

// setupSentryFromConfig initializes the sentry client and reports whether
// error reporting is enabled.
var setupSentryFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (bool, error) {
	if conf.Sentry.DSN == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         conf.Sentry.DSN,
		Environment: conf.Sentry.Environment,
		SampleRate:  conf.Sentry.SampleRate,
		Release:     "montage@" + build.ShortVersion,
	})
	if err != nil {
		return false, errors.Wrap(err, "could not initialize sentry")
	}

	slog.DebugContext(ctx, "sentry error reporting enabled", slog.String("environment", conf.Sentry.Environment))

	return true, nil
})

func SetupSentryFromConfig(ctx context.Context, conf *config.Config) error {
	if _, err := setupSentryFromConfig(ctx, conf); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ReportError captures a fatal error when error reporting is enabled.
func ReportError(err error) {
	if sentry.CurrentHub().Client() == nil {
		return
	}

	sentry.CaptureException(err)
	sentry.Flush(2 * time.Second)
}

func sentryFailureHook(ctx context.Context, task model.Task, err *dispatch.StageError) {
	hub := sentry.CurrentHub().Clone()

	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("task_id", string(task.ID))
		scope.SetTag("stage", string(err.Stage))
		scope.SetTag("project_id", string(task.Project.ID))
	})

	hub.CaptureException(err)
}

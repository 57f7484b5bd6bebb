package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/setup"
	"github.com/pkg/errors"

	// Adapters
	_ "github.com/bornholm/montage/internal/adapter/memory"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conf, err := config.Parse()
	if err != nil {
		slog.ErrorContext(ctx, "could not parse config", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	logger := slog.New(slogx.ContextHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     conf.Logger.Level,
			AddSource: true,
		}),
	})

	slog.SetDefault(logger)

	if err := setup.SetupSentryFromConfig(ctx, conf); err != nil {
		slog.ErrorContext(ctx, "could not setup error reporting", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	server, err := setup.NewHTTPServerFromConfig(ctx, conf)
	if err != nil {
		setup.ReportError(err)
		slog.ErrorContext(ctx, "could not setup http server", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	scheduler, err := setup.NewSchedulerFromConfig(ctx, conf)
	if err != nil {
		setup.ReportError(err)
		slog.ErrorContext(ctx, "could not setup dispatch scheduler", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	if scheduler != nil {
		go func() {
			if err := scheduler.Run(ctx); err != nil {
				slog.ErrorContext(ctx, "dispatch scheduler stopped", slog.Any("error", errors.WithStack(err)))
			}
		}()
	}

	slog.InfoContext(ctx, "starting server", slog.String("address", conf.HTTP.Address))

	if err := server.Run(ctx); err != nil {
		setup.ReportError(err)
		slog.ErrorContext(ctx, "could not run server", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}
}

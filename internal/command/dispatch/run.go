package dispatch

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bornholm/montage/internal/command/common"
	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/setup"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a dispatch against the configured database, for cron invocations",
		Flags: []cli.Flag{
			common.FlagJSON,
		},
		Action: func(cCtx *cli.Context) error {
			ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			conf, err := config.Parse()
			if err != nil {
				return errors.Wrap(err, "could not parse configuration")
			}

			if err := setup.SetupSentryFromConfig(ctx, conf); err != nil {
				return errors.WithStack(err)
			}

			dispatcher, err := setup.NewDispatcherFromConfig(ctx, conf)
			if err != nil {
				setup.ReportError(err)
				return errors.Wrap(err, "could not create dispatcher")
			}

			result, err := dispatcher.Run(ctx)
			if err != nil {
				setup.ReportError(err)
				return errors.Wrap(err, "dispatch failed")
			}

			return common.Print(cCtx, result, result.Summary())
		},
	}
}

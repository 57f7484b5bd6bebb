package command

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/montage/internal/build"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Main(name string, usage string, commands ...*cli.Command) {
	app := &cli.App{
		Name:     name,
		Usage:    usage,
		Commands: commands,
		Version:  build.LongVersion,
		Before: func(ctx *cli.Context) error {
			// Switch to new working directory if defined
			if workdir := ctx.String("workdir"); workdir != "" {
				if err := os.Chdir(workdir); err != nil {
					return errors.Wrap(err, "could not change working directory")
				}
			}

			logger, err := newLogger(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			slog.SetDefault(logger)

			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{"MONTAGE_CLI_CONFIG"},
				Aliases: []string{"c"},
				Usage:   "yaml configuration file providing the command flags",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Value:   false,
				EnvVars: []string{"MONTAGE_CLI_DEBUG"},
				Usage:   "Toggle debug mode",
			},
			&cli.StringFlag{
				Name:    "workdir",
				Value:   "",
				EnvVars: []string{"MONTAGE_CLI_WORKDIR"},
				Usage:   "The working directory",
			},
			&cli.StringFlag{
				Name:    "log-format",
				EnvVars: []string{"MONTAGE_CLI_LOG_FORMAT"},
				Usage:   "Set logging format (text, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"MONTAGE_CLI_LOG_LEVEL"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		if err == nil {
			return
		}

		debug := ctx.Bool("debug")

		if !debug {
			slog.ErrorContext(ctx.Context, err.Error())
		} else {
			slog.ErrorContext(ctx.Context, fmt.Sprintf("%+v", err))
		}
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newLogger(ctx *cli.Context) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(ctx.String("log-level"))); err != nil {
		return nil, errors.Wrapf(err, "invalid log level '%s'", ctx.String("log-level"))
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: ctx.Bool("debug"),
	}

	var handler slog.Handler

	switch format := ctx.String("log-format"); format {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return nil, errors.Errorf("invalid log format '%s'", format)
	}

	return slog.New(slogx.ContextHandler{Handler: handler}), nil
}

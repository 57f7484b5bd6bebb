package common

import (
	"net/url"

	"github.com/bornholm/montage/pkg/client"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	paramServer   = "server"
	paramUsername = "username"
	paramPassword = "password"
)

var (
	flagServer = altsrc.NewStringFlag(&cli.StringFlag{
		Name:    paramServer,
		Aliases: []string{"s"},
		Value:   "http://localhost:3002",
		EnvVars: []string{"MONTAGE_CLI_SERVER"},
		Usage:   "Montage server base url",
	})
	flagUsername = altsrc.NewStringFlag(&cli.StringFlag{
		Name:    paramUsername,
		EnvVars: []string{"MONTAGE_CLI_USERNAME"},
		Usage:   "Montage server basic auth username",
	})
	flagPassword = altsrc.NewStringFlag(&cli.StringFlag{
		Name:    paramPassword,
		EnvVars: []string{"MONTAGE_CLI_PASSWORD"},
		Usage:   "Montage server basic auth password",
	})
)

func WithCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		flagServer,
		flagUsername,
		flagPassword,
	}, flags...)
}

// InitConfigSource loads the flag values from the yaml file given with the
// global --config flag.
func InitConfigSource(flags []cli.Flag) cli.BeforeFunc {
	return altsrc.InitInputSourceWithContext(flags, func(cCtx *cli.Context) (altsrc.InputSourceContext, error) {
		if cCtx.String("config") == "" {
			return altsrc.NewMapInputSource("", map[any]any{}), nil
		}

		return altsrc.NewYamlSourceFromFlagFunc("config")(cCtx)
	})
}

func GetMontageClient(ctx *cli.Context) (*client.Client, error) {
	rawServerURL := ctx.String(paramServer)

	serverURL, err := url.Parse(rawServerURL)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse server url '%s'", rawServerURL)
	}

	options := []client.OptionFunc{
		client.WithBaseURL(serverURL),
	}

	if username := ctx.String(paramUsername); username != "" {
		options = append(options, client.WithBasicAuth(username, ctx.String(paramPassword)))
	}

	return client.New(options...), nil
}

package dispatch

import (
	"net/http"

	"github.com/bornholm/montage/internal/command/common"
	"github.com/bornholm/montage/pkg/client"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func TriggerCommand() *cli.Command {
	flags := common.WithCommonFlags(common.FlagJSON)

	return &cli.Command{
		Name:   "trigger",
		Usage:  "Run a synchronous dispatch on a remote server",
		Flags:  flags,
		Before: common.InitConfigSource(flags),
		Action: func(cCtx *cli.Context) error {
			montage, err := common.GetMontageClient(cCtx)
			if err != nil {
				return errors.Wrap(err, "could not create montage client")
			}

			dispatch, err := montage.Dispatch(cCtx.Context)
			if err != nil {
				if client.StatusCode(err) == http.StatusConflict {
					return errors.New("another dispatch is already running")
				}

				return errors.Wrap(err, "could not trigger dispatch")
			}

			return common.Print(cCtx, dispatch, dispatch.Summary)
		},
	}
}

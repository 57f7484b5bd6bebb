package dispatch

import (
	"fmt"
	"time"

	"github.com/bornholm/montage/internal/command/common"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/pkg/client"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	paramWait         = "wait"
	paramPollInterval = "poll-interval"
)

func ScheduleCommand() *cli.Command {
	flags := common.WithCommonFlags(
		common.FlagJSON,
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:  paramWait,
			Usage: "Wait for the dispatch job to finish",
		}),
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:  paramPollInterval,
			Value: 2 * time.Second,
			Usage: "Delay between two job state polls when waiting",
		}),
	)

	return &cli.Command{
		Name:   "schedule",
		Usage:  "Schedule an asynchronous dispatch on a remote server",
		Flags:  flags,
		Before: common.InitConfigSource(flags),
		Action: func(cCtx *cli.Context) error {
			montage, err := common.GetMontageClient(cCtx)
			if err != nil {
				return errors.Wrap(err, "could not create montage client")
			}

			ctx := cCtx.Context

			jobID, err := montage.ScheduleDispatch(ctx)
			if err != nil {
				return errors.Wrap(err, "could not schedule dispatch")
			}

			if !cCtx.Bool(paramWait) {
				return common.Print(cCtx, map[string]any{"jobId": jobID}, string(jobID))
			}

			job, err := montage.WaitForJob(ctx, jobID, client.WithWaitForPollInterval(cCtx.Duration(paramPollInterval)))
			if err != nil {
				return errors.Wrapf(err, "could not wait for job '%s'", jobID)
			}

			if job.Status == port.JobStatusFailed {
				return errors.Errorf("dispatch job '%s' failed: %s", jobID, job.Error)
			}

			return common.Print(cCtx, job, fmt.Sprintf("%s: %s", jobID, job.Message))
		},
	}
}

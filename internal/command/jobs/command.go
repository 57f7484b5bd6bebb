package jobs

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bornholm/montage/internal/command/common"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const paramStatus = "status"

func Command() *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Inspect the jobs of a remote server",
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
			cancelCommand(),
		},
	}
}

func listCommand() *cli.Command {
	flags := common.WithCommonFlags(
		common.FlagJSON,
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  paramStatus,
			Usage: "Only list the jobs with the given status (pending, running, succeeded, failed)",
		}),
	)

	return &cli.Command{
		Name:   "list",
		Usage:  "List the jobs",
		Flags:  flags,
		Before: common.InitConfigSource(flags),
		Action: func(cCtx *cli.Context) error {
			montage, err := common.GetMontageClient(cCtx)
			if err != nil {
				return errors.Wrap(err, "could not create montage client")
			}

			jobs, err := montage.ListJobs(cCtx.Context, port.JobStatus(cCtx.String(paramStatus)))
			if err != nil {
				return errors.Wrap(err, "could not list jobs")
			}

			var sb strings.Builder

			w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tSCHEDULED")
			for _, j := range jobs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", j.ID, j.Type, j.Status, humanize.Time(j.ScheduledAt))
			}

			if err := w.Flush(); err != nil {
				return errors.WithStack(err)
			}

			return common.Print(cCtx, jobs, strings.TrimSuffix(sb.String(), "\n"))
		},
	}
}

func showCommand() *cli.Command {
	flags := common.WithCommonFlags(common.FlagJSON)

	return &cli.Command{
		Name:      "show",
		Usage:     "Print the state of a job",
		ArgsUsage: "<job-id>",
		Flags:     flags,
		Before:    common.InitConfigSource(flags),
		Action: func(cCtx *cli.Context) error {
			jobID := model.JobID(cCtx.Args().First())
			if jobID == "" {
				return errors.New("missing job id argument")
			}

			montage, err := common.GetMontageClient(cCtx)
			if err != nil {
				return errors.Wrap(err, "could not create montage client")
			}

			job, err := montage.GetJob(cCtx.Context, jobID)
			if err != nil {
				return errors.Wrapf(err, "could not retrieve job '%s'", jobID)
			}

			var sb strings.Builder

			fmt.Fprintf(&sb, "id:        %s\n", job.ID)
			fmt.Fprintf(&sb, "type:      %s\n", job.Type)
			fmt.Fprintf(&sb, "status:    %s\n", job.Status)
			fmt.Fprintf(&sb, "progress:  %.0f%%\n", job.Progress*100)
			fmt.Fprintf(&sb, "scheduled: %s\n", job.ScheduledAt.Format(time.RFC3339))
			if !job.FinishedAt.IsZero() {
				fmt.Fprintf(&sb, "finished:  %s\n", job.FinishedAt.Format(time.RFC3339))
			}
			if job.Message != "" {
				fmt.Fprintf(&sb, "message:   %s\n", job.Message)
			}
			if job.Error != "" {
				fmt.Fprintf(&sb, "error:     %s\n", job.Error)
			}

			return common.Print(cCtx, job, strings.TrimSuffix(sb.String(), "\n"))
		},
	}
}

func cancelCommand() *cli.Command {
	flags := common.WithCommonFlags()

	return &cli.Command{
		Name:      "cancel",
		Usage:     "Cancel a pending or running job",
		ArgsUsage: "<job-id>",
		Flags:     flags,
		Before:    common.InitConfigSource(flags),
		Action: func(cCtx *cli.Context) error {
			jobID := model.JobID(cCtx.Args().First())
			if jobID == "" {
				return errors.New("missing job id argument")
			}

			montage, err := common.GetMontageClient(cCtx)
			if err != nil {
				return errors.Wrap(err, "could not create montage client")
			}

			if err := montage.CancelJob(cCtx.Context, jobID); err != nil {
				return errors.Wrapf(err, "could not cancel job '%s'", jobID)
			}

			return nil
		},
	}
}

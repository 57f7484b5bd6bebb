package dispatch

import (
	"github.com/urfave/cli/v2"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "dispatch",
		Usage: "Notify the assignees of the tasks reaching their deadline",
		Subcommands: []*cli.Command{
			RunCommand(),
			TriggerCommand(),
			ScheduleCommand(),
		},
	}
}

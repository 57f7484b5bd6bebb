package data

import (
	"github.com/urfave/cli/v2"
)

// Command groups the maintenance commands working directly on the
// configured database.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "data",
		Usage: "Manage the projects, profiles and tasks of the local database",
		Subcommands: []*cli.Command{
			projectCommand(),
			profileCommand(),
			taskCommand(),
		},
	}
}

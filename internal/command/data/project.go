package data

import (
	"fmt"

	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/setup"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	paramID    = "id"
	paramTitle = "title"
)

func projectCommand() *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Manage projects",
		Subcommands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Create or rename a project",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  paramID,
						Usage: "Project identifier, generated when empty",
					},
					&cli.StringFlag{
						Name:     paramTitle,
						Usage:    "Project title",
						Required: true,
					},
				},
				Action: func(cCtx *cli.Context) error {
					ctx := cCtx.Context

					conf, err := config.Parse()
					if err != nil {
						return errors.Wrap(err, "could not parse configuration")
					}

					store, err := setup.NewTaskStoreFromConfig(ctx, conf)
					if err != nil {
						return errors.Wrap(err, "could not create task store")
					}

					project := model.Project{
						ID:    model.ProjectID(cCtx.String(paramID)),
						Title: cCtx.String(paramTitle),
					}

					if project.ID == "" {
						project.ID = model.NewProjectID()
					}

					if err := store.CreateProject(ctx, project); err != nil {
						return errors.Wrap(err, "could not save project")
					}

					if _, err := fmt.Fprintln(cCtx.App.Writer, project.ID); err != nil {
						return errors.WithStack(err)
					}

					return nil
				},
			},
		},
	}
}

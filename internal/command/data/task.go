package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/bornholm/montage/internal/command/common"
	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/setup"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	paramProject  = "project"
	paramDue      = "due"
	paramAssignee = "assignee"
	paramStatus   = "status"
)

func taskCommand() *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Manage tasks",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a task",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     paramProject,
						Usage:    "Owning project identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:     paramTitle,
						Usage:    "Task title",
						Required: true,
					},
					newDueFlag(),
					&cli.StringSliceFlag{
						Name:  paramAssignee,
						Usage: "Assignee profile identifier, repeatable",
					},
					&cli.StringFlag{
						Name:  paramStatus,
						Usage: "Task status",
						Value: string(model.TaskStatusPending),
					},
				},
				Action: func(cCtx *cli.Context) error {
					ctx := cCtx.Context

					store, err := getTaskStore(cCtx)
					if err != nil {
						return errors.WithStack(err)
					}

					assignees := make([]model.ProfileID, 0)
					for _, a := range cCtx.StringSlice(paramAssignee) {
						assignees = append(assignees, model.ProfileID(a))
					}

					task := model.Task{
						ID:        model.NewTaskID(),
						Title:     cCtx.String(paramTitle),
						Status:    model.TaskStatus(cCtx.String(paramStatus)),
						DueDate:   *cCtx.Timestamp(paramDue),
						Project:   model.Project{ID: model.ProjectID(cCtx.String(paramProject))},
						Assignees: assignees,
					}

					if err := store.CreateTask(ctx, task); err != nil {
						return errors.Wrap(err, "could not create task")
					}

					if _, err := fmt.Fprintln(cCtx.App.Writer, task.ID); err != nil {
						return errors.WithStack(err)
					}

					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Print a task",
				ArgsUsage: "<task-id>",
				Flags:     []cli.Flag{common.FlagJSON},
				Action: func(cCtx *cli.Context) error {
					id := model.TaskID(cCtx.Args().First())
					if id == "" {
						return errors.New("missing task id argument")
					}

					store, err := getTaskStore(cCtx)
					if err != nil {
						return errors.WithStack(err)
					}

					task, err := store.GetTaskByID(cCtx.Context, id)
					if err != nil {
						return errors.Wrapf(err, "could not retrieve task '%s'", id)
					}

					assignees := make([]string, 0, len(task.Assignees))
					for _, a := range task.Assignees {
						assignees = append(assignees, string(a))
					}

					var sb strings.Builder
					fmt.Fprintf(&sb, "id:        %s\n", task.ID)
					fmt.Fprintf(&sb, "title:     %s\n", task.Title)
					fmt.Fprintf(&sb, "status:    %s\n", task.Status)
					fmt.Fprintf(&sb, "due:       %s\n", task.DueDate.Format(time.RFC3339))
					fmt.Fprintf(&sb, "project:   %s (%s)\n", task.Project.Title, task.Project.ID)
					fmt.Fprintf(&sb, "assignees: %s\n", strings.Join(assignees, ", "))
					fmt.Fprintf(&sb, "notified:  %t", task.Notified)

					return common.Print(cCtx, task, sb.String())
				},
			},
			{
				Name:      "reschedule",
				Usage:     "Change the due date of a task, making it eligible for a new notification",
				ArgsUsage: "<task-id>",
				Flags:     []cli.Flag{newDueFlag()},
				Action: func(cCtx *cli.Context) error {
					id := model.TaskID(cCtx.Args().First())
					if id == "" {
						return errors.New("missing task id argument")
					}

					store, err := getTaskStore(cCtx)
					if err != nil {
						return errors.WithStack(err)
					}

					if err := store.RescheduleTask(cCtx.Context, id, *cCtx.Timestamp(paramDue)); err != nil {
						return errors.Wrapf(err, "could not reschedule task '%s'", id)
					}

					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a task",
				ArgsUsage: "<task-id>",
				Action: func(cCtx *cli.Context) error {
					id := model.TaskID(cCtx.Args().First())
					if id == "" {
						return errors.New("missing task id argument")
					}

					store, err := getTaskStore(cCtx)
					if err != nil {
						return errors.WithStack(err)
					}

					if err := store.DeleteTask(cCtx.Context, id); err != nil {
						return errors.Wrapf(err, "could not delete task '%s'", id)
					}

					return nil
				},
			},
		},
	}
}

func getTaskStore(cCtx *cli.Context) (port.TaskStore, error) {
	conf, err := config.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse configuration")
	}

	store, err := setup.NewTaskStoreFromConfig(cCtx.Context, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create task store")
	}

	return store, nil
}

func newDueFlag() *cli.TimestampFlag {
	return &cli.TimestampFlag{
		Name:     paramDue,
		Usage:    "Due date, RFC 3339 formatted",
		Layout:   time.RFC3339,
		Required: true,
	}
}

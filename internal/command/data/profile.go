package data

import (
	"fmt"

	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/setup"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	paramName    = "name"
	paramMention = "mention"
)

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage the recipient profiles",
		Subcommands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Create or update a profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  paramID,
						Usage: "Profile identifier, generated when empty",
					},
					&cli.StringFlag{
						Name:  paramName,
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  paramMention,
						Usage: "Identifier of the linked account on the chat platform",
					},
				},
				Action: func(cCtx *cli.Context) error {
					ctx := cCtx.Context

					store, err := getProfileStore(cCtx)
					if err != nil {
						return errors.WithStack(err)
					}

					recipient := model.Recipient{
						ID:           model.ProfileID(cCtx.String(paramID)),
						DisplayName:  cCtx.String(paramName),
						MentionToken: cCtx.String(paramMention),
					}

					if recipient.ID == "" {
						recipient.ID = model.NewProfileID()
					}

					if err := store.SaveProfile(ctx, recipient); err != nil {
						return errors.Wrap(err, "could not save profile")
					}

					if _, err := fmt.Fprintln(cCtx.App.Writer, recipient.ID); err != nil {
						return errors.WithStack(err)
					}

					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a profile, tasks keep referencing it",
				ArgsUsage: "<profile-id>",
				Action: func(cCtx *cli.Context) error {
					id := model.ProfileID(cCtx.Args().First())
					if id == "" {
						return errors.New("missing profile id argument")
					}

					store, err := getProfileStore(cCtx)
					if err != nil {
						return errors.WithStack(err)
					}

					if err := store.DeleteProfile(cCtx.Context, id); err != nil {
						return errors.Wrapf(err, "could not delete profile '%s'", id)
					}

					return nil
				},
			},
		},
	}
}

func getProfileStore(cCtx *cli.Context) (port.ProfileStore, error) {
	conf, err := config.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse configuration")
	}

	store, err := setup.NewProfileStoreFromConfig(cCtx.Context, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create profile store")
	}

	return store, nil
}

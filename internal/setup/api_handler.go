package setup

import (
	"context"

	"github.com/bornholm/montage/internal/config"
	"github.com/bornholm/montage/internal/http/handler/api"
	"github.com/pkg/errors"
)

func getAPIHandlerFromConfig(ctx context.Context, conf *config.Config) (*api.Handler, error) {
	dispatcher, err := getDispatcherFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create dispatcher from config")
	}

	jobRunner, err := getJobRunnerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create job runner from config")
	}

	handler := api.NewHandler(dispatcher, jobRunner)

	return handler, nil
}

package client

import (
	"context"
	"net/http"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/http/handler/api"
	"github.com/pkg/errors"
)

type (
	Dispatch       = api.DispatchResponse
	DispatchStatus = api.DispatchStatus
)

const (
	DispatchStatusEmpty    = api.DispatchStatusEmpty
	DispatchStatusNotified = api.DispatchStatusNotified
)

// Dispatch runs a synchronous dispatch on the server.
func (c *Client) Dispatch(ctx context.Context) (*Dispatch, error) {
	var res api.DispatchResponse
	if err := c.jsonRequest(ctx, http.MethodGet, "/dispatch", nil, nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res, nil
}

// ScheduleDispatch schedules an asynchronous dispatch and returns the
// identifier of the job running it.
func (c *Client) ScheduleDispatch(ctx context.Context) (model.JobID, error) {
	var res api.ScheduleDispatchResponse
	if err := c.jsonRequest(ctx, http.MethodPost, "/dispatches", nil, nil, &res); err != nil {
		return "", errors.WithStack(err)
	}

	return res.JobID, nil
}

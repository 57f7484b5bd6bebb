package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/http/handler/api"
	"github.com/pkg/errors"
)

type (
	Job            = api.Job
	JobStateHeader = api.JobStateHeader
)

func (c *Client) GetJob(ctx context.Context, jobID model.JobID) (*Job, error) {
	var res api.ShowJobResponse
	if err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/jobs/%s", url.PathEscape(string(jobID))), nil, nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return res.Job, nil
}

func (c *Client) ListJobs(ctx context.Context, status port.JobStatus) ([]JobStateHeader, error) {
	path := "/jobs"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}

	var res api.ListJobsResponse
	if err := c.jsonRequest(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return res.Jobs, nil
}

func (c *Client) CancelJob(ctx context.Context, jobID model.JobID) error {
	if err := c.jsonRequest(ctx, http.MethodDelete, fmt.Sprintf("/jobs/%s", url.PathEscape(string(jobID))), nil, nil, nil); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type WaitForOptions struct {
	PollInterval time.Duration
}

type WaitForOptionFunc func(opts *WaitForOptions)

func WithWaitForPollInterval(interval time.Duration) WaitForOptionFunc {
	return func(opts *WaitForOptions) {
		opts.PollInterval = interval
	}
}

func NewWaitForOptions(funcs ...WaitForOptionFunc) *WaitForOptions {
	opts := &WaitForOptions{
		PollInterval: time.Second * 2,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

// WaitForJob polls the job state until it is finished.
func (c *Client) WaitForJob(ctx context.Context, jobID model.JobID, funcs ...WaitForOptionFunc) (*Job, error) {
	opts := NewWaitForOptions(funcs...)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		if job.Status == port.JobStatusSucceeded || job.Status == port.JobStatusFailed {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		case <-ticker.C:
		}
	}
}

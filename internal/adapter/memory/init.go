package memory

import (
	"net/url"
	"strconv"
	"time"

	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/setup"
	"github.com/pkg/errors"
)

func init() {
	setup.JobRunner.Register("memory", func(u *url.URL) (port.JobRunner, error) {
		return NewJobRunnerFromURL(u)
	})
}

// NewJobRunnerFromURL creates a job runner from a
// memory://?parallelism=1&cleanupDelay=1h&cleanupInterval=10m uri.
func NewJobRunnerFromURL(u *url.URL) (*JobRunner, error) {
	query := u.Query()

	parallelism, err := intParam(query, "parallelism", 1)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if parallelism < 1 {
		return nil, errors.Errorf("invalid 'parallelism' parameter '%d': must be greater than zero", parallelism)
	}

	cleanupDelay, err := durationParam(query, "cleanupDelay", time.Hour)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cleanupInterval, err := durationParam(query, "cleanupInterval", 10*time.Minute)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if cleanupInterval <= 0 {
		return nil, errors.Errorf("invalid 'cleanupInterval' parameter '%s': must be positive", cleanupInterval)
	}

	return NewJobRunner(parallelism, cleanupDelay, cleanupInterval), nil
}

func intParam(query url.Values, name string, defaultValue int) (int, error) {
	rawValue := query.Get(name)
	if rawValue == "" {
		return defaultValue, nil
	}

	v, err := strconv.ParseInt(rawValue, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "could not parse '%s' parameter", name)
	}

	return int(v), nil
}

func durationParam(query url.Values, name string, defaultValue time.Duration) (time.Duration, error) {
	rawValue := query.Get(name)
	if rawValue == "" {
		return defaultValue, nil
	}

	v, err := time.ParseDuration(rawValue)
	if err != nil {
		return 0, errors.Wrapf(err, "could not parse '%s' parameter", name)
	}

	return v, nil
}

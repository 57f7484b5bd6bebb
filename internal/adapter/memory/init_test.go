package memory

import (
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestNewJobRunnerFromURL(t *testing.T) {
	type testCase struct {
		URL                     string
		ExpectError             bool
		ExpectedParallelism     int
		ExpectedCleanupDelay    time.Duration
		ExpectedCleanupInterval time.Duration
	}

	testCases := []testCase{
		{
			URL:                     "memory://",
			ExpectedParallelism:     1,
			ExpectedCleanupDelay:    time.Hour,
			ExpectedCleanupInterval: 10 * time.Minute,
		},
		{
			URL:                     "memory://?parallelism=4&cleanupDelay=5m&cleanupInterval=30s",
			ExpectedParallelism:     4,
			ExpectedCleanupDelay:    5 * time.Minute,
			ExpectedCleanupInterval: 30 * time.Second,
		},
		{URL: "memory://?parallelism=0", ExpectError: true},
		{URL: "memory://?parallelism=many", ExpectError: true},
		{URL: "memory://?cleanupDelay=soon", ExpectError: true},
		{URL: "memory://?cleanupInterval=0s", ExpectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.URL, func(t *testing.T) {
			u, err := url.Parse(tc.URL)
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			runner, err := NewJobRunnerFromURL(u)
			if tc.ExpectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectedParallelism, cap(runner.semaphore); e != g {
				t.Errorf("cap(runner.semaphore): expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectedCleanupDelay, runner.cleanupDelay; e != g {
				t.Errorf("runner.cleanupDelay: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.ExpectedCleanupInterval, runner.cleanupInterval; e != g {
				t.Errorf("runner.cleanupInterval: expected '%v', got '%v'", e, g)
			}
		})
	}
}

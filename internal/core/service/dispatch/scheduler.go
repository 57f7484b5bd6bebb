package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

// Scheduler periodically schedules a dispatch job on the job runner.
type Scheduler struct {
	jobRunner port.JobRunner
	interval  time.Duration
}

func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.Errorf("invalid schedule interval '%s'", s.interval)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "dispatch scheduler started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			job := NewDispatchJob()

			if err := s.jobRunner.ScheduleJob(ctx, job); err != nil {
				slog.ErrorContext(ctx, "could not schedule dispatch job", slog.Any("error", errors.WithStack(err)))
				continue
			}

			slog.DebugContext(ctx, "dispatch job scheduled", slog.String("jobID", string(job.ID())))
		}
	}
}

func NewScheduler(jobRunner port.JobRunner, interval time.Duration) *Scheduler {
	return &Scheduler{
		jobRunner: jobRunner,
		interval:  interval,
	}
}

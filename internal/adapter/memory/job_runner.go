package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/montage/internal/adapter/memory/syncx"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type jobEntry struct {
	Job   model.Job
	State port.JobState
}

type JobRunner struct {
	runningMutex *sync.Mutex
	runningCond  *sync.Cond
	running      bool

	jobs       syncx.Map[model.JobID, jobEntry]
	stateMutex sync.Mutex

	handlers  syncx.Map[model.JobType, port.JobHandler]
	semaphore chan struct{}

	// cancelFuncs holds the cancel functions of the pending and running jobs
	cancelFuncs syncx.Map[model.JobID, context.CancelFunc]

	cleanupDelay    time.Duration
	cleanupInterval time.Duration
}

// CancelJob implements [port.JobRunner].
func (r *JobRunner) CancelJob(ctx context.Context, id model.JobID) error {
	entry, exists := r.jobs.Load(id)
	if !exists {
		return errors.WithStack(port.ErrNotFound)
	}

	if entry.State.Status != port.JobStatusPending && entry.State.Status != port.JobStatusRunning {
		return errors.WithStack(port.ErrCanceled)
	}

	cancelFn, exists := r.cancelFuncs.LoadAndDelete(id)
	if !exists {
		return errors.WithStack(port.ErrCanceled)
	}

	cancelFn()

	r.updateState(entry.Job, func(s *port.JobState) {
		s.Error = errors.WithStack(port.ErrCanceled)
		s.Status = port.JobStatusFailed
		s.FinishedAt = time.Now()
	})

	return nil
}

// Run implements [port.JobRunner].
func (r *JobRunner) Run(ctx context.Context) error {
	r.runningMutex.Lock()
	r.running = true
	r.runningCond.Broadcast()
	r.runningMutex.Unlock()

	go func() {
		ticker := time.NewTicker(r.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.cleanup(ctx)
			}
		}
	}()

	<-ctx.Done()

	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (r *JobRunner) cleanup(ctx context.Context) {
	slog.DebugContext(ctx, "running job cleaner")

	var expired []model.JobID

	now := time.Now()

	r.jobs.Range(func(id model.JobID, entry jobEntry) bool {
		if entry.State.FinishedAt.IsZero() || !now.After(entry.State.FinishedAt.Add(r.cleanupDelay)) {
			return true
		}

		expired = append(expired, id)

		return true
	})

	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()

	for _, id := range expired {
		entry, exists := r.jobs.LoadAndDelete(id)
		if !exists {
			continue
		}

		slog.DebugContext(ctx, "deleting expired job", slog.String("jobID", string(id)))

		metrics.Jobs.With(prometheus.Labels{metrics.LabelStatus: string(entry.State.Status)}).Dec()

		r.cancelFuncs.Delete(id)
	}
}

// ListJobs implements [port.JobRunner].
func (r *JobRunner) ListJobs(ctx context.Context) ([]port.JobStateHeader, error) {
	headers := make([]port.JobStateHeader, 0)
	r.jobs.Range(func(id model.JobID, entry jobEntry) bool {
		headers = append(headers, entry.State.JobStateHeader)
		return true
	})
	return headers, nil
}

// RegisterJob implements [port.JobRunner].
func (r *JobRunner) RegisterJob(jobType model.JobType, handler port.JobHandler) {
	r.handlers.Store(jobType, handler)
}

// ScheduleJob implements [port.JobRunner].
func (r *JobRunner) ScheduleJob(ctx context.Context, job model.Job) error {
	jobID := job.ID()

	if _, exists := r.jobs.Load(jobID); exists {
		return errors.Errorf("job '%s' already scheduled", jobID)
	}

	r.updateState(job, func(s *port.JobState) {
		s.ScheduledAt = time.Now()
		s.Status = port.JobStatusPending
		s.Type = job.Type()
	})

	// Jobs outlive the scheduling request, only its log attributes are kept
	jobCtx, cancelFn := context.WithCancel(context.WithoutCancel(ctx))
	r.cancelFuncs.Store(jobID, cancelFn)

	jobCtx = slogx.WithAttrs(jobCtx,
		slog.String("jobID", string(jobID)),
		slog.String("jobType", string(job.Type())),
	)

	go r.execute(jobCtx, job)

	return nil
}

func (r *JobRunner) execute(ctx context.Context, job model.Job) {
	defer func() {
		if cancelFn, exists := r.cancelFuncs.LoadAndDelete(job.ID()); exists {
			cancelFn()
		}

		if recovered := recover(); recovered != nil {
			err, ok := recovered.(error)
			if !ok {
				err = errors.Errorf("%+v", recovered)
			}

			slog.ErrorContext(ctx, "recovered panic while running job", slog.Any("error", errors.WithStack(err)))

			r.updateState(job, func(s *port.JobState) {
				s.Error = errors.WithStack(err)
				s.Status = port.JobStatusFailed
				s.FinishedAt = time.Now()
			})
		}
	}()

	r.runningMutex.Lock()
	for !r.running {
		r.runningCond.Wait()
	}
	r.runningMutex.Unlock()

	select {
	case r.semaphore <- struct{}{}:
	case <-ctx.Done():
		// Canceled while pending
		return
	}
	defer func() {
		<-r.semaphore
	}()

	// select picks randomly when the job was canceled with a free slot
	if ctx.Err() != nil {
		return
	}

	handler, exists := r.handlers.Load(job.Type())
	if !exists {
		r.updateState(job, func(s *port.JobState) {
			s.Error = errors.Errorf("no handler registered for job type '%s'", job.Type())
			s.Status = port.JobStatusFailed
			s.FinishedAt = time.Now()
		})

		return
	}

	r.updateState(job, func(s *port.JobState) {
		s.Status = port.JobStatusRunning
	})

	events := make(chan port.JobEvent)

	var eventsWg sync.WaitGroup
	eventsWg.Add(1)
	go func() {
		defer eventsWg.Done()
		for e := range events {
			r.updateState(job, func(s *port.JobState) {
				if e.Progress != nil {
					s.Progress = max(min(*e.Progress, 1), 0)
				}
				if e.Message != nil {
					s.Message = *e.Message
				}
			})
		}
	}()

	start := time.Now()

	slog.DebugContext(ctx, "executing job")

	err := handler.Handle(ctx, job, events)

	// The final state is written once every event is consumed
	close(events)
	eventsWg.Wait()

	if errors.Is(err, port.ErrCanceled) || errors.Is(ctx.Err(), context.Canceled) {
		slog.DebugContext(ctx, "job was canceled")

		r.updateState(job, func(s *port.JobState) {
			s.Error = errors.WithStack(port.ErrCanceled)
			s.Status = port.JobStatusFailed
			s.FinishedAt = time.Now()
		})

		return
	}

	if err != nil {
		err = errors.WithStack(err)
		slog.ErrorContext(ctx, "job failed", slog.Any("error", err))

		r.updateState(job, func(s *port.JobState) {
			s.Error = err
			s.Status = port.JobStatusFailed
			s.FinishedAt = time.Now()
		})

		return
	}

	slog.DebugContext(ctx, "job finished", slog.Duration("duration", time.Since(start)))

	r.updateState(job, func(s *port.JobState) {
		s.Status = port.JobStatusSucceeded
		s.FinishedAt = time.Now()
		s.Progress = 1
	})
}

func (r *JobRunner) updateState(job model.Job, fn func(s *port.JobState)) {
	r.stateMutex.Lock()
	defer r.stateMutex.Unlock()

	entry, _ := r.jobs.LoadOrStore(job.ID(), jobEntry{
		Job: job,
		State: port.JobState{
			JobStateHeader: port.JobStateHeader{
				ID: job.ID(),
			},
		},
	})

	previous := entry.State.Status

	fn(&entry.State)

	if previous != entry.State.Status {
		if previous != "" {
			metrics.Jobs.With(prometheus.Labels{metrics.LabelStatus: string(previous)}).Dec()
		}
		metrics.Jobs.With(prometheus.Labels{metrics.LabelStatus: string(entry.State.Status)}).Inc()
	}

	r.jobs.Store(job.ID(), entry)
}

// GetJobState implements [port.JobRunner].
func (r *JobRunner) GetJobState(ctx context.Context, id model.JobID) (*port.JobState, error) {
	entry, exists := r.jobs.Load(id)
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return &entry.State, nil
}

func NewJobRunner(parallelism int, cleanupDelay time.Duration, cleanupInterval time.Duration) *JobRunner {
	runningMutex := &sync.Mutex{}
	return &JobRunner{
		runningMutex:    runningMutex,
		runningCond:     sync.NewCond(runningMutex),
		running:         false,
		semaphore:       make(chan struct{}, parallelism),
		cleanupDelay:    cleanupDelay,
		cleanupInterval: cleanupInterval,
	}
}

var _ port.JobRunner = &JobRunner{}

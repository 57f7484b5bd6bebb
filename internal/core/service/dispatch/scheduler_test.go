package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

type recordingJobRunner struct {
	port.JobRunner

	mutex sync.Mutex
	jobs  []model.Job
}

func (r *recordingJobRunner) ScheduleJob(ctx context.Context, job model.Job) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.jobs = append(r.jobs, job)

	return nil
}

func (r *recordingJobRunner) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.jobs)
}

func TestScheduler(t *testing.T) {
	runner := &recordingJobRunner{}
	scheduler := NewScheduler(runner, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- scheduler.Run(ctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for runner.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	if err := <-done; err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if runner.count() < 2 {
		t.Fatalf("runner.count(): expected at least 2 scheduled jobs, got '%d'", runner.count())
	}

	for _, job := range runner.jobs {
		if e, g := JobTypeDispatch, job.Type(); e != g {
			t.Errorf("job.Type(): expected '%v', got '%v'", e, g)
		}
	}
}

func TestSchedulerInvalidInterval(t *testing.T) {
	scheduler := NewScheduler(&recordingJobRunner{}, 0)

	if err := scheduler.Run(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

type DispatchHandler struct {
	dispatcher *Dispatcher
	timeout    time.Duration
}

// Handle implements [port.JobHandler].
func (h *DispatchHandler) Handle(ctx context.Context, job model.Job, events chan port.JobEvent) error {
	if _, ok := job.(*DispatchJob); !ok {
		return errors.Errorf("unexpected job type '%T'", job)
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	events <- port.NewJobEvent(port.WithJobMessage("querying candidates"))

	result, err := h.dispatcher.Run(ctx, WithProgress(func(done, total int) {
		events <- port.NewJobEvent(
			port.WithJobMessage(fmt.Sprintf("processed %d of %d task(s)", done, total)),
			port.WithJobProgress(float32(done)/float32(total)),
		)
	}))
	if err != nil {
		return errors.WithStack(err)
	}

	slog.InfoContext(ctx, "dispatch job done", slog.String("summary", result.Summary()))

	events <- port.NewJobEvent(port.WithJobMessage(result.Summary()), port.WithJobProgress(1))

	return nil
}

func NewDispatchHandler(dispatcher *Dispatcher, timeout time.Duration) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

var _ port.JobHandler = &DispatchHandler{}

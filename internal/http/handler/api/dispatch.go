package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/core/service/dispatch"
	"github.com/pkg/errors"
)

type DispatchStatus string

const (
	DispatchStatusEmpty    DispatchStatus = "empty"
	DispatchStatusNotified DispatchStatus = "notified"
)

type DispatchResponse struct {
	Status     DispatchStatus `json:"status"`
	DispatchID string         `json:"dispatchId"`
	Summary    string         `json:"summary"`
	Candidates int            `json:"candidates"`
	Notified   int            `json:"notified"`
	Failed     int            `json:"failed"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
}

func (h *Handler) runDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.dispatcher.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, port.ErrLocked):
			writeError(ctx, w, http.StatusConflict, "a dispatch is already running")
		case errors.Is(err, port.ErrMissingDestination):
			slog.ErrorContext(ctx, "dispatcher is misconfigured", slog.Any("error", errors.WithStack(err)))
			writeError(ctx, w, http.StatusInternalServerError, "notification destination is not configured")
		default:
			slog.ErrorContext(ctx, "could not run dispatch", slog.Any("error", errors.WithStack(err)))
			writeError(ctx, w, http.StatusInternalServerError, "")
		}
		return
	}

	res := DispatchResponse{
		Status:     DispatchStatusNotified,
		DispatchID: result.DispatchID,
		Summary:    result.Summary(),
		Candidates: result.Candidates,
		Notified:   result.Notified,
		Failed:     result.Failed,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}

	if result.Empty() {
		res.Status = DispatchStatusEmpty
	}

	writeJSON(ctx, w, http.StatusOK, res)
}

type ScheduleDispatchResponse struct {
	JobID model.JobID `json:"jobId"`
}

func (h *Handler) scheduleDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	job := dispatch.NewDispatchJob()

	if err := h.jobRunner.ScheduleJob(ctx, job); err != nil {
		slog.ErrorContext(ctx, "could not schedule dispatch job", slog.Any("error", errors.WithStack(err)))
		writeError(ctx, w, http.StatusInternalServerError, "")
		return
	}

	writeJSON(ctx, w, http.StatusAccepted, ScheduleDispatchResponse{JobID: job.ID()})
}

package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/pkg/errors"
)

type ListJobsResponse struct {
	Jobs []JobStateHeader `json:"jobs"`
}

type JobStateHeader struct {
	ID          model.JobID    `json:"id"`
	Type        model.JobType  `json:"type"`
	ScheduledAt time.Time      `json:"scheduledAt"`
	Status      port.JobStatus `json:"status"`
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	headers, err := h.jobRunner.ListJobs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not list jobs", slog.Any("error", errors.WithStack(err)))
		writeError(ctx, w, http.StatusInternalServerError, "")
		return
	}

	slices.SortFunc(headers, func(h1, h2 port.JobStateHeader) int {
		return h1.ScheduledAt.Compare(h2.ScheduledAt)
	})

	status := port.JobStatus(r.URL.Query().Get("status"))

	jobs := make([]JobStateHeader, 0, len(headers))
	for _, h := range headers {
		if status != "" && h.Status != status {
			continue
		}

		jobs = append(jobs, JobStateHeader{
			ID:          h.ID,
			Type:        h.Type,
			ScheduledAt: h.ScheduledAt,
			Status:      h.Status,
		})
	}

	writeJSON(ctx, w, http.StatusOK, ListJobsResponse{Jobs: jobs})
}

type ShowJobResponse struct {
	Job *Job `json:"job"`
}

type Job struct {
	ID          model.JobID    `json:"id"`
	Type        model.JobType  `json:"type"`
	Status      port.JobStatus `json:"status"`
	Progress    float32        `json:"progress"`
	ScheduledAt time.Time      `json:"scheduledAt"`
	FinishedAt  time.Time      `json:"finishedAt"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message"`
}

func (h *Handler) showJob(w http.ResponseWriter, r *http.Request) {
	jobID := model.JobID(r.PathValue("jobID"))

	ctx := r.Context()

	state, err := h.jobRunner.GetJobState(ctx, jobID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			writeError(ctx, w, http.StatusNotFound, "")
			return
		}

		slog.ErrorContext(ctx, "could not retrieve job state", slog.Any("error", errors.WithStack(err)))
		writeError(ctx, w, http.StatusInternalServerError, "")
		return
	}

	res := ShowJobResponse{
		Job: &Job{
			ID:          jobID,
			Type:        state.Type,
			Status:      state.Status,
			Progress:    state.Progress,
			ScheduledAt: state.ScheduledAt,
			FinishedAt:  state.FinishedAt,
			Message:     state.Message,
		},
	}

	if state.Error != nil {
		res.Job.Error = errors.Cause(state.Error).Error()
	}

	writeJSON(ctx, w, http.StatusOK, res)
}

func (h *Handler) cancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := model.JobID(r.PathValue("jobID"))

	ctx := r.Context()

	if err := h.jobRunner.CancelJob(ctx, jobID); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			writeError(ctx, w, http.StatusNotFound, "")
			return
		}

		if errors.Is(err, port.ErrCanceled) {
			writeError(ctx, w, http.StatusConflict, "job is already finished")
			return
		}

		slog.ErrorContext(ctx, "could not cancel job", slog.Any("error", errors.WithStack(err)))
		writeError(ctx, w, http.StatusInternalServerError, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

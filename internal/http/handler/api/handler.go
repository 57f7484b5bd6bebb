package api

import (
	"context"
	"net/http"

	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/core/service/dispatch"
)

// DispatchRunner runs a synchronous dispatch.
type DispatchRunner interface {
	Run(ctx context.Context, funcs ...dispatch.RunOptionFunc) (*dispatch.Result, error)
}

type Handler struct {
	dispatcher DispatchRunner
	jobRunner  port.JobRunner
	mux        *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(dispatcher DispatchRunner, jobRunner port.JobRunner) *Handler {
	h := &Handler{
		dispatcher: dispatcher,
		jobRunner:  jobRunner,
		mux:        &http.ServeMux{},
	}

	h.mux.HandleFunc("GET /dispatch", h.runDispatch)
	h.mux.HandleFunc("POST /dispatches", h.scheduleDispatch)
	h.mux.HandleFunc("GET /jobs", h.listJobs)
	h.mux.HandleFunc("GET /jobs/{jobID}", h.showJob)
	h.mux.HandleFunc("DELETE /jobs/{jobID}", h.cancelJob)

	return h
}

var _ http.Handler = &Handler{}

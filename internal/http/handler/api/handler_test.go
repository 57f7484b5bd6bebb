package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/core/service/dispatch"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

type fakeDispatcher struct {
	result *dispatch.Result
	err    error
}

func (d *fakeDispatcher) Run(ctx context.Context, funcs ...dispatch.RunOptionFunc) (*dispatch.Result, error) {
	return d.result, d.err
}

type fakeJobRunner struct {
	mutex  sync.Mutex
	states map[model.JobID]*port.JobState
}

func (r *fakeJobRunner) ScheduleJob(ctx context.Context, job model.Job) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.states[job.ID()] = &port.JobState{
		JobStateHeader: port.JobStateHeader{
			ID:          job.ID(),
			Type:        job.Type(),
			ScheduledAt: time.Now(),
			Status:      port.JobStatusPending,
		},
	}

	return nil
}

func (r *fakeJobRunner) GetJobState(ctx context.Context, id model.JobID) (*port.JobState, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	state, exists := r.states[id]
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return state, nil
}

func (r *fakeJobRunner) ListJobs(ctx context.Context) ([]port.JobStateHeader, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	headers := make([]port.JobStateHeader, 0, len(r.states))
	for _, s := range r.states {
		headers = append(headers, s.JobStateHeader)
	}

	return headers, nil
}

func (r *fakeJobRunner) CancelJob(ctx context.Context, id model.JobID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	state, exists := r.states[id]
	if !exists {
		return errors.WithStack(port.ErrNotFound)
	}

	if state.Status != port.JobStatusPending && state.Status != port.JobStatusRunning {
		return errors.WithStack(port.ErrCanceled)
	}

	state.Status = port.JobStatusFailed
	state.Error = errors.WithStack(port.ErrCanceled)

	return nil
}

func (r *fakeJobRunner) RegisterJob(jobType model.JobType, handler port.JobHandler) {}

func (r *fakeJobRunner) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

var _ port.JobRunner = &fakeJobRunner{}

func newFakeJobRunner() *fakeJobRunner {
	return &fakeJobRunner{
		states: map[model.JobID]*port.JobState{},
	}
}

func TestRunDispatch(t *testing.T) {
	type testCase struct {
		Name           string
		Dispatcher     *fakeDispatcher
		ExpectedStatus int
		ExpectedBody   DispatchStatus
		ExpectedError  string
	}

	testCases := []testCase{
		{
			Name: "empty",
			Dispatcher: &fakeDispatcher{
				result: &dispatch.Result{DispatchID: "empty"},
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   DispatchStatusEmpty,
		},
		{
			Name: "notified",
			Dispatcher: &fakeDispatcher{
				result: &dispatch.Result{DispatchID: "notified", Candidates: 3, Notified: 2, Failed: 1},
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   DispatchStatusNotified,
		},
		{
			Name:           "locked",
			Dispatcher:     &fakeDispatcher{err: errors.WithStack(port.ErrLocked)},
			ExpectedStatus: http.StatusConflict,
			ExpectedError:  "a dispatch is already running",
		},
		{
			Name:           "missing destination",
			Dispatcher:     &fakeDispatcher{err: errors.WithStack(port.ErrMissingDestination)},
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedError:  "notification destination is not configured",
		},
		{
			Name:           "query error",
			Dispatcher:     &fakeDispatcher{err: errors.New("database is closed")},
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedError:  http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			handler := NewHandler(tc.Dispatcher, newFakeJobRunner())

			req := httptest.NewRequest(http.MethodGet, "/dispatch", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if e, g := tc.ExpectedStatus, rec.Code; e != g {
				t.Fatalf("rec.Code: expected '%v', got '%v'", e, g)
			}

			if e, g := "application/json", rec.Header().Get("Content-Type"); e != g {
				t.Errorf("Content-Type: expected '%v', got '%v'", e, g)
			}

			if tc.ExpectedError != "" {
				var res ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("%+v", errors.WithStack(err))
				}

				if e, g := tc.ExpectedError, res.Error; e != g {
					t.Errorf("res.Error: expected '%v', got '%v'", e, g)
				}

				return
			}

			var res DispatchResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			t.Logf("response: %s", spew.Sdump(res))

			if e, g := tc.ExpectedBody, res.Status; e != g {
				t.Errorf("res.Status: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.Dispatcher.result.Notified, res.Notified; e != g {
				t.Errorf("res.Notified: expected '%v', got '%v'", e, g)
			}

			if e, g := tc.Dispatcher.result.Summary(), res.Summary; e != g {
				t.Errorf("res.Summary: expected '%v', got '%v'", e, g)
			}
		})
	}
}

func TestJobs(t *testing.T) {
	jobRunner := newFakeJobRunner()
	handler := NewHandler(&fakeDispatcher{}, jobRunner)

	req := httptest.NewRequest(http.MethodPost, "/dispatches", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if e, g := http.StatusAccepted, rec.Code; e != g {
		t.Fatalf("rec.Code: expected '%v', got '%v'", e, g)
	}

	var scheduled ScheduleDispatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &scheduled); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if scheduled.JobID == "" {
		t.Fatal("scheduled.JobID: expected non empty job id")
	}

	req = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	var list ListJobsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, len(list.Jobs); e != g {
		t.Fatalf("len(list.Jobs): expected '%v', got '%v'", e, g)
	}

	if e, g := dispatch.JobTypeDispatch, list.Jobs[0].Type; e != g {
		t.Errorf("list.Jobs[0].Type: expected '%v', got '%v'", e, g)
	}

	req = httptest.NewRequest(http.MethodGet, "/jobs?status=succeeded", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	list = ListJobsResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 0, len(list.Jobs); e != g {
		t.Errorf("len(list.Jobs): expected '%v', got '%v'", e, g)
	}

	req = httptest.NewRequest(http.MethodDelete, "/jobs/"+string(scheduled.JobID), nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if e, g := http.StatusNoContent, rec.Code; e != g {
		t.Fatalf("rec.Code: expected '%v', got '%v'", e, g)
	}

	req = httptest.NewRequest(http.MethodGet, "/jobs/"+string(scheduled.JobID), nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	var show ShowJobResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &show); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := port.JobStatusFailed, show.Job.Status; e != g {
		t.Errorf("show.Job.Status: expected '%v', got '%v'", e, g)
	}

	if e, g := port.ErrCanceled.Error(), show.Job.Error; e != g {
		t.Errorf("show.Job.Error: expected '%v', got '%v'", e, g)
	}

	req = httptest.NewRequest(http.MethodDelete, "/jobs/"+string(scheduled.JobID), nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if e, g := http.StatusConflict, rec.Code; e != g {
		t.Errorf("rec.Code: expected '%v', got '%v'", e, g)
	}

	req = httptest.NewRequest(http.MethodGet, "/jobs/unknown", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if e, g := http.StatusNotFound, rec.Code; e != g {
		t.Errorf("rec.Code: expected '%v', got '%v'", e, g)
	}
}

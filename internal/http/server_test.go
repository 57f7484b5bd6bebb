package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestServerHandler(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	})

	type testCase struct {
		Name           string
		Options        []OptionFunc
		Path           string
		Username       string
		Password       string
		ExpectedStatus int
		ExpectedBody   string
	}

	testCases := []testCase{
		{
			Name:           "mount prefix is stripped",
			Options:        []OptionFunc{WithMount("/api/v1/", echo)},
			Path:           "/api/v1/jobs",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "/jobs",
		},
		{
			Name:           "base url",
			Options:        []OptionFunc{WithBaseURL("/montage/"), WithMount("/api/v1/", echo)},
			Path:           "/montage/api/v1/dispatch",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "/dispatch",
		},
		{
			Name:           "unknown mount",
			Options:        []OptionFunc{WithMount("/api/v1/", echo)},
			Path:           "/other",
			ExpectedStatus: http.StatusNotFound,
		},
		{
			Name:           "basic auth rejected",
			Options:        []OptionFunc{WithBasicAuth("admin", "secret"), WithMount("/api/v1/", echo)},
			Path:           "/api/v1/jobs",
			Username:       "admin",
			Password:       "wrong",
			ExpectedStatus: http.StatusUnauthorized,
		},
		{
			Name:           "basic auth accepted",
			Options:        []OptionFunc{WithBasicAuth("admin", "secret"), WithMount("/api/v1/", echo)},
			Path:           "/api/v1/jobs",
			Username:       "admin",
			Password:       "secret",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "/jobs",
		},
		{
			Name:           "empty credentials disable basic auth",
			Options:        []OptionFunc{WithBasicAuth("", ""), WithMount("/api/v1/", echo)},
			Path:           "/api/v1/jobs",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   "/jobs",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			server := NewServer(tc.Options...)

			req := httptest.NewRequest(http.MethodGet, tc.Path, nil)
			if tc.Username != "" {
				req.SetBasicAuth(tc.Username, tc.Password)
			}

			rec := httptest.NewRecorder()

			server.handler().ServeHTTP(rec, req)

			if e, g := tc.ExpectedStatus, rec.Code; e != g {
				t.Fatalf("rec.Code: expected '%v', got '%v'", e, g)
			}

			if tc.ExpectedBody == "" {
				return
			}

			if e, g := tc.ExpectedBody, rec.Body.String(); e != g {
				t.Errorf("rec.Body: expected '%v', got '%v'", e, g)
			}
		})
	}
}

func TestServerRateLimit(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := NewServer(
		WithRateLimit(time.Minute, 1, false),
		WithMount("/api/v1/", echo),
	)

	handler := server.handler()

	for i, expected := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if e, g := expected, rec.Code; e != g {
			t.Errorf("request #%d: expected '%v', got '%v'", i, e, g)
		}
	}
}

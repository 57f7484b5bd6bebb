package client

import (
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// RateLimitTransport retries the requests rejected with a 429 status code,
// waiting for the delay advertised by the server.
type RateLimitTransport struct {
	Base        http.RoundTripper
	MaxRetries  int
	DefaultWait time.Duration
	// MaxWait bounds the delay between two attempts when positive
	MaxWait time.Duration
}

func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Base
	if transport == nil {
		transport = http.DefaultTransport
	}

	for attempt := 0; ; attempt++ {
		res, err := transport.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if res.StatusCode != http.StatusTooManyRequests || attempt >= t.MaxRetries {
			return res, nil
		}

		waitTime := t.getWaitTime(res)

		io.Copy(io.Discard, res.Body)
		res.Body.Close()

		slog.WarnContext(req.Context(), "rate limited (429)", slog.Duration("wait_time", waitTime), slog.Int("attempt", attempt+1), slog.Int("max_retries", t.MaxRetries))

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(waitTime):
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, errors.Wrap(err, "could not rewind request body")
			}
			req.Body = body
		} else if req.Body != nil && req.Body != http.NoBody {
			return nil, errors.New("cannot retry request with one-time reader body")
		}
	}
}

func (t *RateLimitTransport) getWaitTime(res *http.Response) time.Duration {
	wait := t.DefaultWait

	if retryAfter := res.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, 64); err == nil && seconds >= 0 {
			wait = time.Duration(seconds * float64(time.Second))
			wait += time.Duration(rand.Float64() * float64(wait) / 10)
		} else if date, err := http.ParseTime(retryAfter); err == nil {
			wait = max(time.Until(date), 0)
		}
	} else if reset := res.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			if until := time.Until(time.Unix(resetTime, 0)); until > 0 {
				wait = until
			}
		}
	}

	if t.MaxWait > 0 && wait > t.MaxWait {
		wait = t.MaxWait
	}

	return wait
}

package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

type Options struct {
	// TrustHeaders identifies the clients with the X-Forwarded-For and
	// X-Real-Ip headers. Only enable it behind a reverse proxy.
	TrustHeaders bool
	Interval     time.Duration
	MaxBurst     int
	CacheSize    int
	CacheTTL     time.Duration
}

type OptionFunc func(opts *Options)

func WithTrustHeaders(trust bool) OptionFunc {
	return func(opts *Options) {
		opts.TrustHeaders = trust
	}
}

func WithLimit(interval time.Duration, maxBurst int) OptionFunc {
	return func(opts *Options) {
		opts.Interval = interval
		opts.MaxBurst = maxBurst
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		TrustHeaders: false,
		Interval:     time.Second,
		MaxBurst:     10,
		CacheSize:    1024,
		CacheTTL:     10 * time.Minute,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// Middleware limits the request rate per client address. Rejected requests
// get a 429 with a Retry-After header.
func Middleware(funcs ...OptionFunc) func(http.Handler) http.Handler {
	opts := NewOptions(funcs...)

	limiters := expirable.NewLRU[string, *rate.Limiter](opts.CacheSize, nil, opts.CacheTTL)

	getLimiter := func(remoteAddr string) *rate.Limiter {
		limiter, exists := limiters.Get(remoteAddr)
		if !exists {
			limiter = rate.NewLimiter(rate.Every(opts.Interval), opts.MaxBurst)
			limiters.Add(remoteAddr, limiter)
		}

		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remoteAddr := getRemoteAddr(r, opts.TrustHeaders)
			limiter := getLimiter(remoteAddr)

			reservation := limiter.Reserve()
			if !reservation.OK() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()

				slog.WarnContext(r.Context(), "request rate limited", slog.String("remoteAddr", remoteAddr), slog.Duration("delay", delay))

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(opts.MaxBurst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, math.Floor(limiter.Tokens())))))

			next.ServeHTTP(w, r)
		})
	}
}

func getRemoteAddr(r *http.Request, trustHeaders bool) string {
	if trustHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			return strings.TrimSpace(ips[0])
		}

		if xri := r.Header.Get("X-Real-Ip"); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}

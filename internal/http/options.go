package http

import (
	"net/http"
	"time"
)

type BasicAuth struct {
	Username string
	Password string
}

type RateLimit struct {
	Interval     time.Duration
	Burst        int
	TrustHeaders bool
}

type Options struct {
	Address         string
	BaseURL         string
	BasicAuth       *BasicAuth
	RateLimit       *RateLimit
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Mounts          map[string]http.Handler
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Address:         ":3002",
		BaseURL:         "",
		ShutdownTimeout: 30 * time.Second,
		Mounts:          map[string]http.Handler{},
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func WithMount(prefix string, handler http.Handler) OptionFunc {
	return func(opts *Options) {
		opts.Mounts[prefix] = handler
	}
}

func WithBaseURL(baseURL string) OptionFunc {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

func WithAddress(addr string) OptionFunc {
	return func(opts *Options) {
		opts.Address = addr
	}
}

func WithBasicAuth(username, password string) OptionFunc {
	return func(opts *Options) {
		if username == "" && password == "" {
			opts.BasicAuth = nil
			return
		}

		opts.BasicAuth = &BasicAuth{
			Username: username,
			Password: password,
		}
	}
}

func WithRateLimit(interval time.Duration, burst int, trustHeaders bool) OptionFunc {
	return func(opts *Options) {
		opts.RateLimit = &RateLimit{
			Interval:     interval,
			Burst:        burst,
			TrustHeaders: trustHeaders,
		}
	}
}

func WithAllowedOrigins(origins ...string) OptionFunc {
	return func(opts *Options) {
		opts.AllowedOrigins = origins
	}
}

func WithShutdownTimeout(timeout time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.ShutdownTimeout = timeout
	}
}

package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/bornholm/montage/internal/build"
)

type Options struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	UserAgent  string
}

type OptionFunc func(opts *Options)

func WithBaseURL(baseURL *url.URL) OptionFunc {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithBasicAuth sets the credentials sent with each request. It must be
// applied after WithBaseURL.
func WithBasicAuth(username, password string) OptionFunc {
	return func(opts *Options) {
		baseURL := *opts.BaseURL
		baseURL.User = url.UserPassword(username, password)
		opts.BaseURL = &baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) OptionFunc {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

func WithUserAgent(userAgent string) OptionFunc {
	return func(opts *Options) {
		opts.UserAgent = userAgent
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		BaseURL: &url.URL{
			Scheme: "http",
			Host:   "localhost:3002",
		},
		// A synchronous dispatch delivers every candidate before answering
		HTTPClient: &http.Client{
			Timeout: 10 * time.Minute,
			Transport: &RateLimitTransport{
				Base:        http.DefaultTransport,
				MaxRetries:  5,
				DefaultWait: time.Second,
				MaxWait:     time.Minute,
			},
		},
		UserAgent: "montage-client/" + build.ShortVersion,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

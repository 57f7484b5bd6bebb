package client

import (
	"net/http"
	"net/url"
)

// Client calls the montage HTTP API mounted under /api/v1.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
}

func New(funcs ...OptionFunc) *Client {
	opts := NewOptions(funcs...)

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
	}
}

package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bornholm/montage/internal/build"
	"github.com/bornholm/montage/internal/core/model"
	"github.com/bornholm/montage/internal/core/port"
	"github.com/bornholm/montage/internal/metrics"
	"github.com/bornholm/montage/pkg/client"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const maxErrorBodySize = 1024

const DefaultColor = 0xE67E22

type Options struct {
	Username   string
	AvatarURL  string
	Footer     string
	Color      int
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

type OptionFunc func(opts *Options)

func WithUsername(username string) OptionFunc {
	return func(opts *Options) {
		opts.Username = username
	}
}

func WithAvatarURL(avatarURL string) OptionFunc {
	return func(opts *Options) {
		opts.AvatarURL = avatarURL
	}
}

func WithFooter(footer string) OptionFunc {
	return func(opts *Options) {
		opts.Footer = footer
	}
}

func WithColor(color int) OptionFunc {
	return func(opts *Options) {
		opts.Color = color
	}
}

func WithTimeout(timeout time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithMaxRetries sets the number of retries of a rate limited (429) call.
func WithMaxRetries(maxRetries int) OptionFunc {
	return func(opts *Options) {
		opts.MaxRetries = maxRetries
	}
}

func WithHTTPClient(httpClient *http.Client) OptionFunc {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Username:   "Montage",
		Footer:     "Montage deadline reminder",
		Color:      DefaultColor,
		Timeout:    10 * time.Second,
		MaxRetries: 3,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// Client delivers deadline notifications to a Discord compatible webhook.
type Client struct {
	url        string
	username   string
	avatarURL  string
	footer     string
	color      int
	httpClient *http.Client
}

// Deliver implements port.Deliverer.
func (c *Client) Deliver(ctx context.Context, payload model.NotificationPayload) error {
	message := c.newMessage(payload)

	body, err := json.Marshal(message)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(redactError(err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "montage/"+build.ShortVersion)

	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest("error", start)
		return errors.Wrap(redactError(err), "could not post webhook message")
	}

	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
	}()

	observeRequest(strconv.Itoa(res.StatusCode), start)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		data, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		if err != nil {
			slog.WarnContext(ctx, "could not read webhook response body", slog.Any("error", errors.WithStack(err)))
		}

		return errors.WithStack(&DeliveryError{
			StatusCode: res.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		})
	}

	slog.DebugContext(ctx, "webhook message posted", slog.Int("status", res.StatusCode), slog.String("webhook", RedactURL(c.url)))

	return nil
}

func observeRequest(status string, start time.Time) {
	metrics.WebhookRequestDuration.With(prometheus.Labels{
		metrics.LabelStatus: status,
	}).Observe(time.Since(start).Seconds())
}

func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = RedactURL(urlErr.URL)
	}

	return err
}

// NewClient returns a webhook client posting to the given url.
func NewClient(webhookURL string, funcs ...OptionFunc) (*Client, error) {
	opts := NewOptions(funcs...)

	u, err := url.Parse(webhookURL)
	if err != nil {
		return nil, errors.New("could not parse webhook url")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("webhook url must use http or https scheme, got '%s'", u.Scheme)
	}

	if u.Host == "" {
		return nil, errors.New("webhook url must include a host")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
			Transport: &client.RateLimitTransport{
				Base:        http.DefaultTransport,
				MaxRetries:  opts.MaxRetries,
				DefaultWait: time.Second,
			},
		}
	}

	return &Client{
		url:        webhookURL,
		username:   opts.Username,
		avatarURL:  opts.AvatarURL,
		footer:     opts.Footer,
		color:      opts.Color,
		httpClient: httpClient,
	}, nil
}

var _ port.Deliverer = &Client{}

package discord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// DeliveryError reports a webhook call answered with a non-success status.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}

// RedactURL masks the credentials of a webhook url for logging. Discord
// webhook urls embed their token in the path.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}

	redacted := *u
	redacted.User = nil
	redacted.RawQuery = ""
	redacted.Fragment = ""

	if redacted.Path != "" {
		redacted.Path = "/REDACTED"
		redacted.RawPath = ""
	}

	return redacted.String()
}

// IsTransient reports whether a delivery failure is worth retrying: network
// errors and server side statuses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr.StatusCode >= 500 || deliveryErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}

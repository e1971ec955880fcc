package toggl

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies API client failures.
type ErrorKind string

const (
	KindInvalidURL      ErrorKind = "invalid_url"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindRateLimited     ErrorKind = "rate_limited"
	KindHTTP            ErrorKind = "http"
	KindNetwork         ErrorKind = "network"
	KindDecoding        ErrorKind = "decoding"
	KindUnknown         ErrorKind = "unknown"
)

// detailLimit caps how much of a response body or parse failure is exposed
// to log sinks.
const detailLimit = 500

// Error is a classified Toggl API failure. Context cancellation is never
// wrapped into an Error; it propagates as context.Canceled.
type Error struct {
	Kind          ErrorKind
	StatusCode    int    // set for KindHTTP
	Body          string // raw response body for KindHTTP
	ResetEstimate string // human readable quota reset estimate for KindRateLimited
	Err           error  // underlying transport or parse failure
}

func (apiErr *Error) Error() string {
	switch apiErr.Kind {
	case KindInvalidURL:
		return "invalid request URL"
	case KindUnauthorized:
		return "unauthorized: check the API key"
	case KindInvalidResponse:
		return "invalid API response"
	case KindRateLimited:
		if apiErr.ResetEstimate != "" {
			return fmt.Sprintf("rate limited, quota resets %s", apiErr.ResetEstimate)
		}
		return "rate limited"
	case KindHTTP:
		return fmt.Sprintf("server error (HTTP %d)", apiErr.StatusCode)
	case KindNetwork:
		return fmt.Sprintf("network error: %v", apiErr.Err)
	case KindDecoding:
		return fmt.Sprintf("decoding error: %v", apiErr.Err)
	default:
		return fmt.Sprintf("unknown error: %v", apiErr.Err)
	}
}

func (apiErr *Error) Unwrap() error {
	return apiErr.Err
}

// Detail returns diagnostic detail suitable for logging but not for the
// user: the truncated response body for HTTP errors, the underlying parse
// failure for decoding errors, "" otherwise.
func (apiErr *Error) Detail() string {
	switch apiErr.Kind {
	case KindHTTP:
		body := apiErr.Body
		if len(body) > detailLimit {
			body = body[:detailLimit]
		}
		return body
	case KindDecoding:
		if apiErr.Err == nil {
			return ""
		}
		detail := apiErr.Err.Error()
		if len(detail) > detailLimit {
			detail = detail[:detailLimit]
		}
		return detail
	default:
		return ""
	}
}

// IsKind reports whether err is a toggl Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// IsCancelled reports whether err is a user or teardown initiated
// cancellation rather than a real failure.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

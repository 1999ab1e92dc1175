// Package apperr holds the error taxonomy shared by the fetch, planning and
// HTTP layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError is returned for bad input before any network call is made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Validation builds a ValidationError with a formatted message
func Validation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UpstreamError is a non-2xx answer from the helpdesk API. Status is the
// upstream status code, not ours.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("upstream %s responded %d: %s", e.Endpoint, e.Status, body)
}

// TimeoutError wraps a deadline hit on a single upstream call
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// WindowFailure names one sub-window that did not contribute to an aggregate
type WindowFailure struct {
	Window string `json:"window"`
	Reason string `json:"reason"`
}

// PartialDataError reports the sub-windows that failed while the aggregate
// itself was still produced.
type PartialDataError struct {
	Failures []WindowFailure
}

func (e *PartialDataError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Window)
	}
	return fmt.Sprintf("%d sub-window(s) failed: %s", len(e.Failures), strings.Join(names, ", "))
}

// UnavailableError is returned when an optional backend was not configured
type UnavailableError struct {
	Component string
}

func (e *UnavailableError) Error() string {
	return e.Component + " is not configured"
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTimeout reports whether err carries a TimeoutError
func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

// HTTPStatus maps an error to the status code the dashboard API answers with
func HTTPStatus(err error) int {
	var (
		v *ValidationError
		u *UpstreamError
		t *TimeoutError
		n *UnavailableError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &v):
		return http.StatusBadRequest
	case errors.As(err, &t):
		return http.StatusGatewayTimeout
	case errors.As(err, &u):
		return http.StatusBadGateway
	case errors.As(err, &n):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Details returns a JSON friendly description of err for error envelopes
func Details(err error) any {
	var u *UpstreamError
	if errors.As(err, &u) {
		return map[string]any{
			"upstream_status": u.Status,
			"endpoint":        u.Endpoint,
			"body":            u.Body,
		}
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return map[string]any{"field": v.Field}
	}
	return nil
}

package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("startDate", "is required"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("planning: %w", Validation("", "bad")), http.StatusBadRequest},
		{"upstream", &UpstreamError{Endpoint: "/tickets", Status: 401}, http.StatusBadGateway},
		{"timeout", &TimeoutError{Op: "GET /tickets", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"unavailable", &UnavailableError{Component: "snapshot store"}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestTimeoutUnwrap(t *testing.T) {
	err := &TimeoutError{Op: "GET /tickets", Err: context.DeadlineExceeded}
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, IsTimeout(fmt.Errorf("fetch: %w", err)))
	assert.False(t, IsValidation(err))
}

func TestUpstreamErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	err := &UpstreamError{Endpoint: "/tickets", Status: 500, Body: string(long)}
	assert.Less(t, len(err.Error()), 400)

	details, ok := Details(err).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, 500, details["upstream_status"])
}

func TestPartialDataErrorMessage(t *testing.T) {
	err := &PartialDataError{Failures: []WindowFailure{
		{Window: "morning 2025-11-24", Reason: "timeout"},
		{Window: "night 2025-11-24", Reason: "502"},
	}}
	assert.Equal(t, "2 sub-window(s) failed: morning 2025-11-24, night 2025-11-24", err.Error())
}

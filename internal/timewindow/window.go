package timewindow

import (
	"fmt"
	"time"

	"ticketpulse/internal/apperr"
)

// Window is a UTC interval, inclusive on both ends
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label,omitempty"`
}

// NewWindow validates start < end and returns the window in UTC
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: start.UTC(), End: end.UTC()}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// ParseWindow builds a window from two user supplied date strings
func ParseWindow(start, end string) (Window, error) {
	if start == "" || end == "" {
		return Window{}, apperr.Validation("startDate", "startDate and endDate are required")
	}
	s, err := NormalizeToUTC(start, false)
	if err != nil {
		return Window{}, fmt.Errorf("startDate: %w", err)
	}
	e, err := NormalizeToUTC(end, true)
	if err != nil {
		return Window{}, fmt.Errorf("endDate: %w", err)
	}
	return NewWindow(s, e)
}

// Validate enforces start < end
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return apperr.Validation("window", "start and end are required")
	}
	if !w.Start.Before(w.End) {
		return apperr.Validation("window", "start %s must be before end %s", FormatUTC(w.Start), FormatUTC(w.End))
	}
	return nil
}

// Contains reports whether t falls inside the window, boundaries included
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Duration is the width of the window
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// WithLabel returns a copy carrying a human readable name
func (w Window) WithLabel(label string) Window {
	w.Label = label
	return w
}

func (w Window) String() string {
	if w.Label != "" {
		return w.Label
	}
	return FormatUTC(w.Start) + "/" + FormatUTC(w.End)
}

package utils

import (
	"github.com/gin-gonic/gin"

	"ticketpulse/internal/apperr"
	"ticketpulse/internal/timewindow"
)

// WindowFromQuery reads startDate and endDate. With neither present the
// window is the last fallbackHours hours.
func WindowFromQuery(c *gin.Context, p *timewindow.Planner, fallbackHours int) (timewindow.Window, error) {
	start, end := c.Query("startDate"), c.Query("endDate")
	switch {
	case start == "" && end == "":
		return p.LastNHours(fallbackHours)
	case start == "" || end == "":
		return timewindow.Window{}, apperr.Validation("startDate", "startDate and endDate must be given together")
	}
	return timewindow.ParseWindow(start, end)
}

// DateRangeFromQuery reads startDate and endDate as local days, defaulting
// to today
func DateRangeFromQuery(c *gin.Context, p *timewindow.Planner) (timewindow.DateRange, error) {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" && end == "" {
		return p.Today(), nil
	}
	return p.ParseDateRange(start, end)
}

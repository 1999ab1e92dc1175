package dashboard

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpulse/internal/apperr"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/repositories/gleap"
	"ticketpulse/internal/timewindow"
)

func shiftStats(t *testing.T) *fakeStats {
	morning := statsItems(t, `[
		{"processingUser":{"email":"a@x.com","firstName":"Asha"},"totalCountForUser":{"value":3},"ticketActivityCount":{"value":5},"averageRating":{"value":"90%"}}
	]`)
	noon := statsItems(t, `[
		{"processingUser":{"email":"b@x.com","firstName":"Bala"},"totalCountForUser":{"value":0},"ticketActivityCount":{"value":0}},
		{"processingUser":{"email":"a@x.com","firstName":"Asha"},"totalCountForUser":{"value":2},"ticketActivityCount":{"value":1},"averageRating":{"value":"80%"}}
	]`)
	return &fakeStats{rows: func(w timewindow.Window) ([]dto.StatsItem, error) {
		switch {
		case strings.HasPrefix(w.Label, "morning"):
			return morning, nil
		case strings.HasPrefix(w.Label, "noon"):
			return noon, nil
		default:
			return nil, &apperr.UpstreamError{Endpoint: "/statistics/lists", Status: http.StatusServiceUnavailable}
		}
	}}
}

func TestShiftView(t *testing.T) {
	svc := newTestService(&fakeTickets{}, shiftStats(t))

	view, err := svc.ShiftView(context.Background(), timewindow.DateRange{Start: "2025-11-24", End: "2025-11-24"})
	require.NoError(t, err)

	require.Len(t, view.Shifts, 3)
	morning, noon, night := view.Shifts[0], view.Shifts[1], view.Shifts[2]

	assert.Equal(t, timewindow.Morning, morning.Shift)
	require.Len(t, morning.Agents, 1)
	assert.Equal(t, 3, morning.TotalTickets)
	assert.Equal(t, 90.0, *morning.Agents[0].RatingScore)

	require.Len(t, noon.Agents, 1, "idle agents are left out")
	assert.Equal(t, "a@x.com", noon.Agents[0].Key)

	assert.Empty(t, night.Agents)
	assert.Len(t, night.Windows, 1)

	assert.True(t, view.Partial)
	require.Len(t, view.FailedWindows, 1)
	assert.Equal(t, "night 2025-11-24", view.FailedWindows[0].Window)
}

func TestShiftView_MergesDays(t *testing.T) {
	svc := newTestService(&fakeTickets{}, shiftStats(t))

	view, err := svc.ShiftView(context.Background(), timewindow.DateRange{Start: "2025-11-24", End: "2025-11-25"})
	require.NoError(t, err)

	morning := view.Shifts[0]
	assert.Len(t, morning.Windows, 2)
	require.Len(t, morning.Agents, 1)
	assert.Equal(t, 6, morning.Agents[0].TotalTickets)
	assert.Equal(t, 10, morning.Agents[0].TicketActivity)
	assert.Equal(t, 90.0, *morning.Agents[0].RatingScore)
}

func TestShiftView_Roster(t *testing.T) {
	svc := newTestService(&fakeTickets{}, shiftStats(t), func(o *Options) {
		o.Roster = []string{" B@X.com "}
	})

	view, err := svc.ShiftView(context.Background(), timewindow.DateRange{Start: "2025-11-24", End: "2025-11-24"})
	require.NoError(t, err)
	for _, table := range view.Shifts {
		assert.Empty(t, table.Agents, string(table.Shift))
	}
}

func TestShiftView_RangeTooWide(t *testing.T) {
	svc := newTestService(&fakeTickets{}, shiftStats(t))
	_, err := svc.ShiftView(context.Background(), timewindow.DateRange{Start: "2025-01-01", End: "2025-06-01"})
	assert.True(t, apperr.IsValidation(err))
}

func TestTeamPerformance(t *testing.T) {
	stats := &fakeStats{rows: func(timewindow.Window) ([]dto.StatsItem, error) {
		return statsItems(t, `[
			{"processingUser":{"email":"b@x.com","firstName":"Bala"},"totalCountForUser":{"value":2},"averageRating":{"value":"80%"}},
			{"processingUser":{"email":"a@x.com","firstName":"Asha"},"totalCountForUser":{"value":3},"averageRating":{"value":"90%"}},
			{"processingUser":{},"totalCountForUser":{"value":9}}
		]`), nil
	}}
	svc := newTestService(&fakeTickets{}, stats)

	view, err := svc.TeamPerformance(context.Background(), mustWindow(t, "2025-11-24T03:00:00.000Z", "2025-11-24T04:00:00.000Z"))
	require.NoError(t, err)

	assert.Equal(t, "2025-11-24T03:00:00.000Z", view.StartDate)
	assert.Equal(t, "2025-11-24T04:00:00.000Z", view.EndDate)
	require.Len(t, view.Agents, 2)
	assert.Equal(t, "Asha", view.Agents[0].AgentName)
	assert.Equal(t, 2, view.Totals.TotalAgents)
	assert.Equal(t, 5, view.Totals.TotalTickets)
	assert.InDelta(t, 85.0, view.Totals.AvgRating, 1e-9)
}

func TestTeamPerformance_UpstreamError(t *testing.T) {
	stats := &fakeStats{err: &apperr.UpstreamError{Endpoint: "/statistics/lists", Status: 401}}
	svc := newTestService(&fakeTickets{}, stats)

	_, err := svc.TeamPerformance(context.Background(), mustWindow(t, "2025-11-24T03:00:00.000Z", "2025-11-24T04:00:00.000Z"))
	assert.Equal(t, http.StatusBadGateway, apperr.HTTPStatus(err))
}

func TestStatistics(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	stats := &fakeStats{facts: map[string]dto.StatsFact{
		gleap.MedianFirstResponseChart: {Value: f(90), ValueUnit: "s"},
		gleap.MedianReplyTimeChart:     {Value: f(2), ValueUnit: "h"},
	}}
	svc := newTestService(&fakeTickets{}, stats)

	view, err := svc.Statistics(context.Background(), mustWindow(t, "2025-11-24T03:00:00.000Z", "2025-11-24T04:00:00.000Z"))
	require.NoError(t, err)
	assert.Equal(t, 2, view.MedianFirstResponse)
	assert.Equal(t, 120, view.MedianReplyTime)
	assert.Zero(t, view.MedianTimeToClose)
	assert.Equal(t, "2025-11-24T03:00:00.000Z", view.TimeRange.Start)
}

func TestToMinutes(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  float64
	}{
		{30, "min", 30},
		{1.5, "h", 90},
		{120, "S", 2},
		{7, "", 0},
		{4, "days", 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, toMinutes(tt.value, tt.unit), 1e-9, "%v %s", tt.value, tt.unit)
	}
}

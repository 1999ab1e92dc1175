package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpulse/internal/apperr"
)

func mustUTC(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return ts
}

func TestWindowContainsIsInclusive(t *testing.T) {
	end := mustUTC(t, "2025-11-24T03:00:00Z")
	w, err := NewWindow(end.Add(-15*time.Minute), end)
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(end))
	assert.False(t, w.Contains(end.Add(time.Millisecond)))
	assert.False(t, w.Contains(w.Start.Add(-time.Millisecond)))
}

func TestNewWindowRejectsInvertedBounds(t *testing.T) {
	now := mustUTC(t, "2025-11-24T03:00:00Z")

	_, err := NewWindow(now, now)
	assert.True(t, apperr.IsValidation(err))

	_, err = NewWindow(now, now.Add(-time.Second))
	assert.True(t, apperr.IsValidation(err))

	_, err = ParseWindow("2025-11-24", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestParseWindowBareDatesCoverWholeDays(t *testing.T) {
	w, err := ParseWindow("2025-11-24", "2025-11-24")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-23T18:30:00.000Z", FormatUTC(w.Start))
	assert.Equal(t, "2025-11-24T18:29:59.999Z", FormatUTC(w.End))
}

func TestParseDateRange(t *testing.T) {
	p := NewPlanner()

	r, err := p.ParseDateRange("2025-11-01", "2025-11-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11-01", "2025-11-02", "2025-11-03"}, r.Days())
	assert.Equal(t, 3, r.DayCount())

	_, err = p.ParseDateRange("2025-11-03", "2025-11-01")
	assert.True(t, apperr.IsValidation(err))

	_, err = p.ParseDateRange("2025-01-01", "2025-06-01")
	assert.True(t, apperr.IsValidation(err), "range over the cap must fail, not truncate")
}

func TestPlanShiftWindows(t *testing.T) {
	p := NewPlanner()
	plan, err := p.PlanShiftWindows(DateRange{Start: "2025-11-24", End: "2025-11-25"})
	require.NoError(t, err)

	require.Len(t, plan[Morning], 2)
	require.Len(t, plan[Noon], 2)
	require.Len(t, plan[Night], 2)

	morning := plan[Morning][0]
	assert.Equal(t, "2025-11-23T23:30:00.000Z", FormatUTC(morning.Start))
	assert.Equal(t, "2025-11-24T08:29:59.999Z", FormatUTC(morning.End))
	assert.Equal(t, "morning 2025-11-24", morning.Label)

	noon := plan[Noon][0]
	assert.Equal(t, "2025-11-24T06:30:00.000Z", FormatUTC(noon.Start))
	assert.Equal(t, "2025-11-24T15:29:59.999Z", FormatUTC(noon.End))

	night := plan[Night][0]
	assert.Equal(t, "2025-11-24T14:30:00.000Z", FormatUTC(night.Start))
	assert.Equal(t, "2025-11-24T23:29:59.999Z", FormatUTC(night.End))
	assert.Equal(t, "2025-11-25", LocalDate(night.End))
}

func TestPlanHourlyWindows(t *testing.T) {
	p := NewPlanner()

	plan, ok, err := p.PlanHourlyWindows(DateRange{Start: "2025-11-01", End: "2025-11-03"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, plan, 24)
	for h := 0; h < 24; h++ {
		assert.Len(t, plan[HourKey(h)], 3)
	}

	h8 := plan["h8"][0]
	assert.Equal(t, "2025-11-01T02:30:00.000Z", FormatUTC(h8.Start))
	assert.Equal(t, "2025-11-01T03:29:59.999Z", FormatUTC(h8.End))
	assert.Equal(t, 8, LocalHour(h8.Start))
	assert.Equal(t, 8, LocalHour(h8.End))

	skipped, ok, err := p.PlanHourlyWindows(DateRange{Start: "2025-11-01", End: "2025-11-10"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, skipped)
}

func TestRollingLast24h(t *testing.T) {
	now := mustUTC(t, "2025-11-24T03:00:00Z")
	p := &Planner{Now: func() time.Time { return now }}

	first := p.RollingLast24h()
	assert.Equal(t, now.Add(-24*time.Hour), first.Start)
	assert.Equal(t, now.Add(-time.Millisecond), first.End)

	again := p.RollingLast24h()
	assert.Equal(t, first.Start, again.Start)
	assert.Equal(t, first.End, again.End)
}

func TestLastNHours(t *testing.T) {
	now := mustUTC(t, "2025-11-24T03:00:00Z")
	p := &Planner{Now: func() time.Time { return now }}

	w, err := p.LastNHours(4)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour-time.Millisecond, w.Duration())

	_, err = p.LastNHours(0)
	assert.True(t, apperr.IsValidation(err))
}

func TestToday(t *testing.T) {
	// 20:00 UTC is already the next local day
	p := &Planner{Now: func() time.Time { return mustUTC(t, "2025-11-24T20:00:00Z") }}
	assert.Equal(t, DateRange{Start: "2025-11-25", End: "2025-11-25"}, p.Today())
}

package timewindow

import (
	"fmt"
	"time"

	"ticketpulse/internal/apperr"
)

const (
	DefaultMaxDays       = 60
	DefaultHourlyMaxDays = 7
)

// Shift is one of the fixed local working shifts
type Shift string

const (
	Morning Shift = "morning"
	Noon    Shift = "noon"
	Night   Shift = "night"
)

// Shifts lists the shifts in display order
var Shifts = []Shift{Morning, Noon, Night}

type shiftBounds struct {
	start, end string
	nextDay    bool
}

// local boundaries; end is the last included millisecond
var shiftTable = map[Shift]shiftBounds{
	Morning: {start: "05:00", end: "13:59:59.999"},
	Noon:    {start: "12:00", end: "20:59:59.999"},
	Night:   {start: "20:00", end: "04:59:59.999", nextDay: true},
}

// DateRange is an inclusive span of local calendar days
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Days lists every local date in the range
func (r DateRange) Days() []string {
	start, _ := time.ParseInLocation(dateLayout, r.Start, Local)
	end, _ := time.ParseInLocation(dateLayout, r.End, Local)

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days
}

// DayCount is the number of local days in the range
func (r DateRange) DayCount() int {
	start, err1 := time.ParseInLocation(dateLayout, r.Start, Local)
	end, err2 := time.ParseInLocation(dateLayout, r.End, Local)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Window spans the whole range, end of the last day included
func (r DateRange) Window() (Window, error) {
	s, err := LocalCivilToUTC(r.Start, "", false)
	if err != nil {
		return Window{}, err
	}
	e, err := LocalCivilToUTC(r.End, "", true)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e)
}

// ShiftPlan holds one window per covered day for each shift
type ShiftPlan map[Shift][]Window

// Planner turns date ranges into UTC sub-windows
type Planner struct {
	MaxDays       int
	HourlyMaxDays int
	Now           func() time.Time
}

// NewPlanner returns a planner with the product defaults
func NewPlanner() *Planner {
	return &Planner{
		MaxDays:       DefaultMaxDays,
		HourlyMaxDays: DefaultHourlyMaxDays,
		Now:           time.Now,
	}
}

func (p *Planner) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}

func (p *Planner) maxDays() int {
	if p.MaxDays <= 0 {
		return DefaultMaxDays
	}
	return p.MaxDays
}

func (p *Planner) hourlyMaxDays() int {
	if p.HourlyMaxDays <= 0 {
		return DefaultHourlyMaxDays
	}
	return p.HourlyMaxDays
}

// ParseDateRange reads two user supplied values (any form NormalizeToUTC
// accepts) as local calendar days and checks the fan-out cap.
func (p *Planner) ParseDateRange(start, end string) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, apperr.Validation("startDate", "startDate and endDate are required")
	}
	s, err := NormalizeToUTC(start, false)
	if err != nil {
		return DateRange{}, fmt.Errorf("startDate: %w", err)
	}
	e, err := NormalizeToUTC(end, true)
	if err != nil {
		return DateRange{}, fmt.Errorf("endDate: %w", err)
	}

	r := DateRange{Start: LocalDate(s), End: LocalDate(e)}
	if err := p.checkRange(r); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (p *Planner) checkRange(r DateRange) error {
	if _, _, _, err := parseDate(r.Start); err != nil {
		return err
	}
	if _, _, _, err := parseDate(r.End); err != nil {
		return err
	}
	if r.Start > r.End {
		return apperr.Validation("dateRange", "start %s is after end %s", r.Start, r.End)
	}
	if n := r.DayCount(); n > p.maxDays() {
		return apperr.Validation("dateRange", "range covers %d days, the limit is %d", n, p.maxDays())
	}
	return nil
}

// PlanShiftWindows returns, for every day in r, the UTC window of each shift
func (p *Planner) PlanShiftWindows(r DateRange) (ShiftPlan, error) {
	if err := p.checkRange(r); err != nil {
		return nil, err
	}

	plan := make(ShiftPlan, len(Shifts))
	for _, day := range r.Days() {
		for _, shift := range Shifts {
			b := shiftTable[shift]
			endDay := day
			if b.nextDay {
				endDay = nextDay(day)
			}
			w, err := localWindow(day, b.start, endDay, b.end)
			if err != nil {
				return nil, err
			}
			plan[shift] = append(plan[shift], w.WithLabel(fmt.Sprintf("%s %s", shift, day)))
		}
	}
	return plan, nil
}

// PlanHourlyWindows returns the windows of each local hour (keys h0..h23)
// across r. ok is false when r is wider than the hourly limit; hourly
// planning is skipped in that case.
func (p *Planner) PlanHourlyWindows(r DateRange) (plan map[string][]Window, ok bool, err error) {
	if err := p.checkRange(r); err != nil {
		return nil, false, err
	}
	if r.DayCount() > p.hourlyMaxDays() {
		return nil, false, nil
	}
	days := r.Days()

	plan = make(map[string][]Window, 24)
	for _, day := range days {
		for h := 0; h < 24; h++ {
			w, err := localWindow(day, fmt.Sprintf("%02d:00", h), day, fmt.Sprintf("%02d:59:59.999", h))
			if err != nil {
				return nil, false, err
			}
			key := HourKey(h)
			plan[key] = append(plan[key], w.WithLabel(fmt.Sprintf("%s %s", key, day)))
		}
	}
	return plan, true, nil
}

// LastNHours is the rolling window ending now
func (p *Planner) LastNHours(n int) (Window, error) {
	if n <= 0 {
		return Window{}, apperr.Validation("hours", "must be positive, got %d", n)
	}
	now := p.now()
	w, err := NewWindow(now.Add(-time.Duration(n)*time.Hour), now.Add(-time.Millisecond))
	if err != nil {
		return Window{}, err
	}
	return w.WithLabel(fmt.Sprintf("last %dh", n)), nil
}

// RollingLast24h is the trailing day used by the hourly matrix. It ignores
// any range the caller picked for other tables.
func (p *Planner) RollingLast24h() Window {
	w, _ := p.LastNHours(24)
	return w
}

// Today is the current local day as a one day range
func (p *Planner) Today() DateRange {
	d := LocalDate(p.now())
	return DateRange{Start: d, End: d}
}

// HourKey is the map key of a local hour
func HourKey(h int) string {
	return fmt.Sprintf("h%d", h)
}

func localWindow(startDay, startClock, endDay, endClock string) (Window, error) {
	s, err := LocalCivilToUTC(startDay, startClock, false)
	if err != nil {
		return Window{}, err
	}
	e, err := LocalCivilToUTC(endDay, endClock, false)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e)
}

func nextDay(day string) string {
	d, _ := time.ParseInLocation(dateLayout, day, Local)
	return d.AddDate(0, 0, 1).Format(dateLayout)
}

// Package timewindow converts between the dashboard's local civil time
// (UTC+05:30) and UTC, and plans the UTC sub-windows each view fetches.
//
// Every local/UTC conversion in the module goes through this package.
package timewindow

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"ticketpulse/internal/apperr"
)

// LocalOffsetMinutes is the fixed distance of local civil time from UTC
const LocalOffsetMinutes = 330

// Local is the fixed +05:30 zone used for display and hour bucketing
var Local = time.FixedZone("IST", LocalOffsetMinutes*60)

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"
	utcLayout      = "2006-01-02T15:04:05.000Z"
	startOfDayTime = "00:00:00.000"
	endOfDayTime   = "23:59:59.999"
)

var (
	dateRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	clockRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2})(?:\.(\d{1,3}))?)?$`)
	qualifiedRe = regexp.MustCompile(`(?i)^\d{4}-\d{2}-\d{2}[t ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(z|[+-]\d{2}:?\d{2})$`)
	offsetRe    = regexp.MustCompile(`([+-]\d{2})(\d{2})$`)
)

// LocalTime is a wall-clock reading in the local zone
type LocalTime struct {
	Date string `json:"date"` // yyyy-mm-dd
	Time string `json:"time"` // HH:mm:ss
}

// String joins date and time with a space
func (lt LocalTime) String() string {
	return lt.Date + " " + lt.Time
}

// LocalCivilToUTC interprets date and an optional clock as local wall time and
// returns the UTC instant. Without a clock the start or the end of the day is
// used depending on endOfPeriod.
func LocalCivilToUTC(date, clock string, endOfPeriod bool) (time.Time, error) {
	y, mo, d, err := parseDate(date)
	if err != nil {
		return time.Time{}, err
	}

	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = startOfDayTime
		if endOfPeriod {
			clock = endOfDayTime
		}
	}

	h, mi, s, ms, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(y, mo, d, h, mi, s, ms*int(time.Millisecond), Local).UTC(), nil
}

// UTCToLocal returns the local date and time of an instant
func UTCToLocal(t time.Time) LocalTime {
	local := t.In(Local)
	return LocalTime{
		Date: local.Format(dateLayout),
		Time: local.Format(clockLayout),
	}
}

// LocalTimeToUTC is the inverse of UTCToLocal
func LocalTimeToUTC(lt LocalTime) (time.Time, error) {
	return LocalCivilToUTC(lt.Date, lt.Time, false)
}

// ToLocal moves an instant into the local zone
func ToLocal(t time.Time) time.Time {
	return t.In(Local)
}

// LocalHour is the local hour-of-day (0-23) of an instant
func LocalHour(t time.Time) int {
	return t.In(Local).Hour()
}

// LocalDate is the local calendar date of an instant
func LocalDate(t time.Time) string {
	return t.In(Local).Format(dateLayout)
}

// FormatUTC renders an instant the way the upstream API expects it
func FormatUTC(t time.Time) string {
	return t.UTC().Format(utcLayout)
}

// IsTimezoneQualified reports whether s is an ISO date-time that already
// carries a Z or a numeric offset.
func IsTimezoneQualified(s string) bool {
	return qualifiedRe.MatchString(strings.TrimSpace(s))
}

// NormalizeToUTC accepts a bare date, a local date-time or a qualified ISO
// string and returns the UTC instant it denotes.
func NormalizeToUTC(s string, endOfPeriod bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Validation("", "date is required")
	}

	if IsTimezoneQualified(s) {
		return parseQualified(s)
	}

	if dateRe.MatchString(s) {
		return LocalCivilToUTC(s, "", endOfPeriod)
	}

	if len(s) > 11 && (s[10] == 'T' || s[10] == 't' || s[10] == ' ') {
		return LocalCivilToUTC(s[:10], s[11:], endOfPeriod)
	}

	return time.Time{}, apperr.Validation("", "unrecognized date %q", s)
}

// NormalizeISO is NormalizeToUTC rendered as a string. Qualified input is
// returned unchanged.
func NormalizeISO(s string, endOfPeriod bool) (string, error) {
	t, err := NormalizeToUTC(s, endOfPeriod)
	if err != nil {
		return "", err
	}
	if IsTimezoneQualified(s) {
		return strings.TrimSpace(s), nil
	}
	return FormatUTC(t), nil
}

// ParseTimestamp reads an upstream timestamp. Unqualified values are taken
// as UTC, never as local time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if IsTimezoneQualified(s) {
		t, err := parseQualified(s)
		return t, err == nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseQualified(s string) (time.Time, error) {
	v := strings.ToUpper(s[:10]) + "T" + strings.ToUpper(s[11:])
	v = offsetRe.ReplaceAllString(v, "$1:$2")

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("", "invalid timestamp %q", s)
}

func parseDate(s string) (int, time.Month, int, error) {
	s = strings.TrimSpace(s)
	if !dateRe.MatchString(s) {
		return 0, 0, 0, apperr.Validation("date", "expected yyyy-mm-dd, got %q", s)
	}
	t, err := time.ParseInLocation(dateLayout, s, Local)
	if err != nil {
		return 0, 0, 0, apperr.Validation("date", "invalid date %q", s)
	}
	return t.Year(), t.Month(), t.Day(), nil
}

func parseClock(s string) (h, mi, sec, ms int, err error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, 0, apperr.Validation("time", "expected HH:mm[:ss[.mmm]], got %q", s)
	}

	h, _ = strconv.Atoi(m[1])
	mi, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if m[4] != "" {
		frac := m[4] + strings.Repeat("0", 3-len(m[4]))
		ms, _ = strconv.Atoi(frac)
	}

	switch {
	case h > 23:
		return 0, 0, 0, 0, apperr.Validation("time", "hour %d out of range", h)
	case mi > 59:
		return 0, 0, 0, 0, apperr.Validation("time", "minute %d out of range", mi)
	case sec > 59:
		return 0, 0, 0, 0, apperr.Validation("time", "second %d out of range", sec)
	}
	return h, mi, sec, ms, nil
}

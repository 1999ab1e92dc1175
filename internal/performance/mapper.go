// Package performance normalizes rows of the team performance statistics
// chart into per-agent records.
package performance

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ticketpulse/internal/aggregation"
	"ticketpulse/internal/models/dto"
)

// NoValue is rendered for durations that are missing, zero or negative
const NoValue = "--"

var ratingRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Record is one agent's row of the performance table
type Record struct {
	Key                       string   `json:"key"`
	AgentName                 string   `json:"agent_name"`
	AgentEmail                string   `json:"agent_email"`
	ProfileImage              string   `json:"profile_image"`
	TotalTickets              int      `json:"total_tickets"`
	ClosedTickets             int      `json:"closed_tickets"`
	MedianReplyTime           string   `json:"median_reply_time"`
	MedianFirstReplyTime      string   `json:"median_first_reply"`
	MedianAssignmentReplyTime string   `json:"median_assignment_reply"`
	TimeToLastClose           string   `json:"time_to_last_close"`
	AverageRating             string   `json:"average_rating"`
	RatingScore               *float64 `json:"rating_numeric"`
	TicketActivity            int      `json:"ticket_activity"`
	HoursActive               string   `json:"hours_active"`
}

// Idle reports an agent with no tickets and no activity in the window
func (r Record) Idle() bool {
	return r.TotalTickets == 0 && r.TicketActivity == 0
}

// Policy decides which mapped records a view keeps
type Policy struct {
	ExcludeIdle bool
}

var (
	// Overview keeps every identified agent
	Overview = Policy{}
	// ShiftView drops agents that did nothing during the shift
	ShiftView = Policy{ExcludeIdle: true}
)

// Keep applies the policy to one record
func (p Policy) Keep(r Record) bool {
	return !p.ExcludeIdle || !r.Idle()
}

// MapAgentRecord converts one statistics row. ok is false for rows that carry
// neither a name nor an email.
func MapAgentRecord(item dto.StatsItem) (Record, bool) {
	user := item.ProcessingUser
	if user == nil {
		return Record{}, false
	}
	name := user.DisplayName()
	email := strings.TrimSpace(user.Email)
	if name == "" && email == "" {
		return Record{}, false
	}
	if name == "" {
		name = email
	}

	rating := item.AverageRating.Text()
	if rating == "" {
		rating = NoValue
	}
	hours := item.HoursActive.Text()
	if hours == "" {
		hours = NoValue
	}

	return Record{
		Key:                       aggregation.Key(user),
		AgentName:                 name,
		AgentEmail:                email,
		ProfileImage:              user.ProfileImageURL,
		TotalTickets:              int(item.TotalCountForUser.Number()),
		ClosedTickets:             int(item.RawClosed.Number()),
		MedianReplyTime:           FormatDuration(item.MedianReplyTime.Raw()),
		MedianFirstReplyTime:      FormatDuration(item.MedianTimeToFirstReplyInSec.Raw()),
		MedianAssignmentReplyTime: FormatDuration(item.MedianFirstAssignmentReplyTime.Raw()),
		TimeToLastClose:           FormatDuration(item.TimeToLastCloseInSec.Raw()),
		AverageRating:             rating,
		RatingScore:               ParseRating(rating),
		TicketActivity:            int(item.TicketActivityCount.Number()),
		HoursActive:               hours,
	}, true
}

// MapAll maps every row and keeps those the policy accepts, sorted by total
// tickets descending.
func MapAll(items []dto.StatsItem, p Policy) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		r, ok := MapAgentRecord(item)
		if !ok || !p.Keep(r) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalTickets != out[j].TotalTickets {
			return out[i].TotalTickets > out[j].TotalTickets
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// FormatDuration renders seconds as minutes below an hour and as hours
// otherwise, one decimal each.
func FormatDuration(seconds *float64) string {
	if seconds == nil || *seconds <= 0 {
		return NoValue
	}
	minutes := *seconds / 60
	if minutes >= 60 {
		return fmt.Sprintf("%.1fh", minutes/60)
	}
	return fmt.Sprintf("%.1fm", minutes)
}

// ParseRating extracts the first number of a display value such as "😊 86".
// Values without a number yield nil.
func ParseRating(s string) *float64 {
	m := ratingRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Totals summarizes a mapped table
type Totals struct {
	TotalAgents  int     `json:"total_agents"`
	TotalTickets int     `json:"total_tickets"`
	AvgRating    float64 `json:"avg_rating"`
}

// ComputeTotals counts agents and tickets and averages the ratings present
func ComputeTotals(records []Record) Totals {
	t := Totals{TotalAgents: len(records)}
	var sum float64
	var n int
	for _, r := range records {
		t.TotalTickets += r.TotalTickets
		if r.RatingScore != nil {
			sum += *r.RatingScore
			n++
		}
	}
	if n > 0 {
		t.AvgRating = sum / float64(n)
	}
	return t
}

// ToSummary bridges records into the merger so that shift windows can be
// folded together like ticket aggregates.
func ToSummary(records []Record) *aggregation.Summary {
	sum := aggregation.NewSummary()
	for _, r := range records {
		s := &aggregation.AgentSummary{
			Key:            r.Key,
			Name:           r.AgentName,
			Email:          strings.ToLower(r.AgentEmail),
			ProfileImage:   r.ProfileImage,
			TotalTickets:   r.TotalTickets,
			ClosedTickets:  r.ClosedTickets,
			TicketActivity: r.TicketActivity,
		}
		if r.RatingScore != nil {
			s.AddRating(*r.RatingScore)
		}
		sum.Add(s)
	}
	return sum
}

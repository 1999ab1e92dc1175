// Package aggregation groups raw tickets per agent and per local hour, and
// folds per-window results into one summary.
package aggregation

import (
	"sort"
	"time"
)

// Category tells which upstream population a ticket was counted from
type Category string

const (
	Archived Category = "archived"
	Done     Category = "done"
)

// TicketDetail is one counted ticket, kept for drill-down
type TicketDetail struct {
	ID             string    `json:"id"`
	BugID          string    `json:"bug_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	LocalTimestamp string    `json:"local_timestamp"`
	Category       Category  `json:"category"`
}

func detailLess(a, b TicketDetail) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.ID < b.ID
}

func sortDetails(d []TicketDetail) {
	sort.SliceStable(d, func(i, j int) bool { return detailLess(d[i], d[j]) })
}

// display carries the fields shown for an agent together with the ticket
// they were read from, so the choice never depends on input order.
type display struct {
	AgentID      string
	Name         string
	Email        string
	ProfileImage string
	LastSeen     *time.Time

	at time.Time
	id string
}

// newer reports whether d was read from a later ticket than o
func (d display) newer(o display) bool {
	if !d.at.Equal(o.at) {
		return d.at.After(o.at)
	}
	return d.id > o.id
}

// AgentAggregate is one agent's share of a window
type AgentAggregate struct {
	Key          string         `json:"key"`
	AgentID      string         `json:"agent_id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	ProfileImage string         `json:"profile_image"`
	LastSeen     *time.Time     `json:"last_seen,omitempty"`
	Count        int            `json:"count"`
	Latest       time.Time      `json:"latest_timestamp"`
	LatestLocal  string         `json:"latest_local_timestamp"`
	Details      []TicketDetail `json:"ticket_details"`

	shown display
}

func (a *AgentAggregate) show(d display) {
	if d.newer(a.shown) {
		a.shown = d
		a.AgentID = d.AgentID
		a.Name = d.Name
		a.Email = d.Email
		a.ProfileImage = d.ProfileImage
		a.LastSeen = d.LastSeen
	}
}

// HourlyEntry is one agent's share of a local hour
type HourlyEntry struct {
	Key          string         `json:"key"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	ProfileImage string         `json:"profile_image"`
	Count        int            `json:"count"`
	Details      []TicketDetail `json:"ticket_details"`

	shown display
}

func (h *HourlyEntry) show(d display) {
	if d.newer(h.shown) {
		h.shown = d
		h.Name = d.Name
		h.Email = d.Email
		h.ProfileImage = d.ProfileImage
	}
}

// HourlyBucket maps local hour (index 0-23) to agent key to entry
type HourlyBucket [24]map[string]*HourlyEntry

func newHourly() HourlyBucket {
	var h HourlyBucket
	for i := range h {
		h[i] = make(map[string]*HourlyEntry)
	}
	return h
}

// Total is the number of tickets bucketed at hour h
func (h HourlyBucket) Total(hour int) int {
	n := 0
	for _, e := range h[hour] {
		n += e.Count
	}
	return n
}

// Result is the output of one Aggregate call
type Result struct {
	Agents map[string]*AgentAggregate `json:"agents"`
	Hourly HourlyBucket               `json:"hourly"`
}

func newResult() *Result {
	return &Result{Agents: make(map[string]*AgentAggregate), Hourly: newHourly()}
}

// Sorted lists the agents by count descending, then key
func (r *Result) Sorted() []*AgentAggregate {
	out := make([]*AgentAggregate, 0, len(r.Agents))
	for _, a := range r.Agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// TotalTickets is the sum of all agent counts
func (r *Result) TotalTickets() int {
	n := 0
	for _, a := range r.Agents {
		n += a.Count
	}
	return n
}

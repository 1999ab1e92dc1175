package aggregation

import (
	"sort"
	"time"
)

// AgentSummary is the per-agent shape shared by ticket aggregates and
// team-performance records. Rating is carried as a sum and a count of the
// partials that reported one, so nested merges equal a flat merge.
type AgentSummary struct {
	Key             string     `json:"key"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	ProfileImage    string     `json:"profile_image"`
	TotalTickets    int        `json:"total_tickets"`
	ArchivedTickets int        `json:"archived_tickets"`
	ClosedTickets   int        `json:"closed_tickets"`
	TicketActivity  int        `json:"ticket_activity"`
	Latest          *time.Time `json:"latest_timestamp,omitempty"`
	LastSeen        *time.Time `json:"last_seen,omitempty"`
	RatingScore     *float64   `json:"rating_score"`
	Hourly          [24]int    `json:"hourly"`

	ratingSum   float64
	ratingCount int
}

// AddRating records one partial's rating
func (s *AgentSummary) AddRating(v float64) {
	s.ratingSum += v
	s.ratingCount++
	s.refreshRating()
}

func (s *AgentSummary) refreshRating() {
	if s.ratingCount == 0 {
		s.RatingScore = nil
		return
	}
	mean := s.ratingSum / float64(s.ratingCount)
	s.RatingScore = &mean
}

// Idle reports an agent with no tickets and no activity
func (s *AgentSummary) Idle() bool {
	return s.TotalTickets == 0 && s.TicketActivity == 0
}

// Summary is a set of agent summaries keyed like the Aggregator keys them
type Summary struct {
	Agents map[string]*AgentSummary `json:"agents"`
}

// NewSummary returns an empty summary
func NewSummary() *Summary {
	return &Summary{Agents: make(map[string]*AgentSummary)}
}

// Add folds s into the summary, merging with an existing entry of the same key
func (sum *Summary) Add(s *AgentSummary) {
	if cur, ok := sum.Agents[s.Key]; ok {
		sum.Agents[s.Key] = mergeAgent(cur, s)
		return
	}
	cp := *s
	sum.Agents[s.Key] = &cp
}

// Sorted lists agents by total tickets descending, then key
func (sum *Summary) Sorted() []*AgentSummary {
	out := make([]*AgentSummary, 0, len(sum.Agents))
	for _, a := range sum.Agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTickets != out[j].TotalTickets {
			return out[i].TotalTickets > out[j].TotalTickets
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// FromResult converts an Aggregate result into a summary
func FromResult(r *Result) *Summary {
	sum := NewSummary()
	if r == nil {
		return sum
	}
	for key, a := range r.Agents {
		s := &AgentSummary{
			Key:          key,
			Name:         a.Name,
			Email:        a.Email,
			ProfileImage: a.ProfileImage,
			TotalTickets: a.Count,
			LastSeen:     a.LastSeen,
		}
		if !a.Latest.IsZero() {
			latest := a.Latest
			s.Latest = &latest
		}
		for _, d := range a.Details {
			if d.Category == Archived {
				s.ArchivedTickets++
			} else {
				s.ClosedTickets++
			}
		}
		sum.Agents[key] = s
	}
	for hour, entries := range r.Hourly {
		for key, e := range entries {
			sum.Agents[key].Hourly[hour] += e.Count
		}
	}
	return sum
}

// Merge combines partial summaries into a new one. Counts and hourly buckets
// are summed, timestamps take the maximum and rating is the mean of the
// partials reporting one. The partials are not modified.
func Merge(partials ...*Summary) *Summary {
	out := NewSummary()
	for _, p := range partials {
		if p == nil {
			continue
		}
		for _, s := range p.Agents {
			out.Add(s)
		}
	}
	return out
}

func mergeAgent(a, b *AgentSummary) *AgentSummary {
	m := &AgentSummary{
		Key:             a.Key,
		TotalTickets:    a.TotalTickets + b.TotalTickets,
		ArchivedTickets: a.ArchivedTickets + b.ArchivedTickets,
		ClosedTickets:   a.ClosedTickets + b.ClosedTickets,
		TicketActivity:  a.TicketActivity + b.TicketActivity,
		Latest:          maxTime(a.Latest, b.Latest),
		LastSeen:        maxTime(a.LastSeen, b.LastSeen),
		ratingSum:       a.ratingSum + b.ratingSum,
		ratingCount:     a.ratingCount + b.ratingCount,
	}
	for h := range m.Hourly {
		m.Hourly[h] = a.Hourly[h] + b.Hourly[h]
	}
	m.refreshRating()

	shown := a
	if displayAfter(b, a) {
		shown = b
	}
	m.Name = shown.Name
	m.Email = shown.Email
	m.ProfileImage = shown.ProfileImage
	return m
}

// displayAfter orders summaries for the choice of display fields: the one
// with the later activity wins, remaining ties break on the fields themselves.
func displayAfter(a, b *AgentSummary) bool {
	at, bt := timeOrZero(a.Latest), timeOrZero(b.Latest)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	if a.Name != b.Name {
		return a.Name > b.Name
	}
	if a.Email != b.Email {
		return a.Email > b.Email
	}
	return a.ProfileImage > b.ProfileImage
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func maxTime(a, b *time.Time) *time.Time {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil || !b.After(*a):
		v := *a
		return &v
	default:
		v := *b
		return &v
	}
}

// MergeResults combines Aggregate results of several windows, keeping the
// ticket details for drill-down.
func MergeResults(parts ...*Result) *Result {
	out := newResult()
	for _, p := range parts {
		if p == nil {
			continue
		}
		for key, a := range p.Agents {
			cur, ok := out.Agents[key]
			if !ok {
				cur = &AgentAggregate{Key: key}
				out.Agents[key] = cur
			}
			cur.Count += a.Count
			cur.Details = append(cur.Details, a.Details...)
			if a.Latest.After(cur.Latest) {
				cur.Latest = a.Latest
				cur.LatestLocal = a.LatestLocal
			}
			cur.show(a.shown)
		}
		for hour, entries := range p.Hourly {
			for key, e := range entries {
				cur, ok := out.Hourly[hour][key]
				if !ok {
					cur = &HourlyEntry{Key: key}
					out.Hourly[hour][key] = cur
				}
				cur.Count += e.Count
				cur.Details = append(cur.Details, e.Details...)
				cur.show(e.shown)
			}
		}
	}
	out.sortDetails()
	return out
}

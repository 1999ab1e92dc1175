package aggregation

import (
	"strings"
	"time"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/timewindow"
)

const localLayout = "2006-01-02 15:04:05"

// classify returns the category and counting timestamp of a ticket, or false
// when the ticket belongs to neither population.
func classify(t dto.RawTicket) (Category, time.Time, bool) {
	if t.Archived && t.ArchivedAt != nil {
		ts, ok := timewindow.ParseTimestamp(*t.ArchivedAt)
		return Archived, ts, ok
	}
	if strings.EqualFold(t.Status, "DONE") && t.UpdatedAt != "" {
		ts, ok := timewindow.ParseTimestamp(t.UpdatedAt)
		return Done, ts, ok
	}
	return "", time.Time{}, false
}

// Aggregate groups the tickets of w per agent and per local hour. Tickets
// outside w, unclassifiable or with unparsable timestamps are skipped. The
// input is not modified and its order does not affect the result.
func Aggregate(tickets []dto.RawTicket, w timewindow.Window) (*Result, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	res := newResult()
	for _, t := range tickets {
		cat, ts, ok := classify(t)
		if !ok || !w.Contains(ts) {
			continue
		}

		ref := handler(t, cat)
		key := Key(ref)
		detail := TicketDetail{
			ID:             t.ID,
			BugID:          string(t.BugID),
			Timestamp:      ts,
			LocalTimestamp: timewindow.ToLocal(ts).Format(localLayout),
			Category:       cat,
		}
		shown := displayOf(ref, ts, t.ID)

		agent, ok := res.Agents[key]
		if !ok {
			agent = &AgentAggregate{Key: key}
			res.Agents[key] = agent
		}
		agent.Details = append(agent.Details, detail)
		agent.Count++
		if ts.After(agent.Latest) {
			agent.Latest = ts
			agent.LatestLocal = detail.LocalTimestamp
		}
		agent.show(shown)

		hour := timewindow.LocalHour(ts)
		entry, ok := res.Hourly[hour][key]
		if !ok {
			entry = &HourlyEntry{Key: key}
			res.Hourly[hour][key] = entry
		}
		entry.Count++
		entry.Details = append(entry.Details, detail)
		entry.show(shown)
	}

	res.sortDetails()
	return res, nil
}

func (r *Result) sortDetails() {
	for _, a := range r.Agents {
		sortDetails(a.Details)
	}
	for _, hour := range r.Hourly {
		for _, e := range hour {
			sortDetails(e.Details)
		}
	}
}

func displayOf(ref *dto.AgentRef, at time.Time, ticketID string) display {
	d := display{at: at, id: ticketID}
	if ref == nil {
		d.Name = "Unknown"
		return d
	}
	d.AgentID = ref.Identifier()
	d.Name = ref.DisplayName()
	if d.Name == "" {
		d.Name = ref.Email
	}
	d.Email = strings.ToLower(strings.TrimSpace(ref.Email))
	d.ProfileImage = ref.ProfileImageURL
	if ref.LastSeen != nil {
		if seen, ok := timewindow.ParseTimestamp(*ref.LastSeen); ok {
			d.LastSeen = &seen
		}
	}
	return d
}

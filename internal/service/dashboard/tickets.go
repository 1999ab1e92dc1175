package dashboard

import (
	"context"
	"fmt"
	"sort"

	"ticketpulse/internal/aggregation"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/timewindow"
)

// MatrixRow is one local hour of the agent/hour matrix
type MatrixRow struct {
	Hour   int                        `json:"hour"`
	Label  string                     `json:"label"`
	Total  int                        `json:"total"`
	Agents []*aggregation.HourlyEntry `json:"agents"`
}

// ArchivedView is the per-agent table of tickets closed inside a window plus
// the rolling last-24h matrix
type ArchivedView struct {
	Window       timewindow.Window             `json:"window"`
	TotalTickets int                           `json:"total_tickets"`
	Agents       []*aggregation.AgentAggregate `json:"agents"`
	MatrixWindow timewindow.Window             `json:"matrix_window"`
	Matrix       []MatrixRow                   `json:"matrix"`
	Coverage
}

// HourlyView is the agent/hour matrix over a date range
type HourlyView struct {
	Range        timewindow.DateRange        `json:"range"`
	Applicable   bool                        `json:"applicable"`
	TotalTickets int                         `json:"total_tickets"`
	Rows         []MatrixRow                 `json:"rows"`
	Agents       []*aggregation.AgentSummary `json:"agents"`
	Coverage
}

// closedIn fetches archived and done tickets of w and aggregates them
func (s *Service) closedIn(ctx context.Context, w timewindow.Window) (*aggregation.Result, error) {
	archived, err := s.tickets.FetchArchived(ctx, w, 0)
	if err != nil {
		return nil, fmt.Errorf("archived tickets: %w", err)
	}
	done, err := s.tickets.FetchDone(ctx, w, 0)
	if err != nil {
		return nil, fmt.Errorf("done tickets: %w", err)
	}
	return aggregation.Aggregate(uniqueTickets(archived, done), w)
}

// ArchivedView aggregates the tickets archived or closed inside w. The
// matrix always covers the trailing day, whatever w is.
func (s *Service) ArchivedView(ctx context.Context, w timewindow.Window) (*ArchivedView, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	rolling := s.planner.RollingLast24h()

	results, cov, err := fanOut(ctx, s.batch, []task[*aggregation.Result]{
		{label: "table " + w.String(), run: func(ctx context.Context) (*aggregation.Result, error) { return s.closedIn(ctx, w) }},
		{label: "matrix " + rolling.String(), run: func(ctx context.Context) (*aggregation.Result, error) { return s.closedIn(ctx, rolling) }},
	})
	if err != nil {
		return nil, err
	}

	table, matrix := results[0], results[1]
	view := &ArchivedView{
		Window:       w,
		MatrixWindow: rolling,
		Agents:       []*aggregation.AgentAggregate{},
		Matrix:       matrixRows(matrix),
		Coverage:     cov,
	}
	if table != nil {
		view.Agents = table.Sorted()
		view.TotalTickets = table.TotalTickets()
	}
	return view, nil
}

// HourlyMatrix folds the sub-window of every local hour of every day in r.
// Ranges wider than the hourly limit are answered with Applicable false.
func (s *Service) HourlyMatrix(ctx context.Context, r timewindow.DateRange) (*HourlyView, error) {
	plan, ok, err := s.planner.PlanHourlyWindows(r)
	if err != nil {
		return nil, err
	}
	view := &HourlyView{Range: r, Applicable: ok, Rows: []MatrixRow{}, Agents: []*aggregation.AgentSummary{}}
	if !ok {
		return view, nil
	}

	var tasks []task[*aggregation.Result]
	for h := 0; h < 24; h++ {
		for _, w := range plan[timewindow.HourKey(h)] {
			tasks = append(tasks, task[*aggregation.Result]{
				label: w.Label,
				run:   func(ctx context.Context) (*aggregation.Result, error) { return s.closedIn(ctx, w) },
			})
		}
	}

	results, cov, err := fanOut(ctx, s.batch, tasks)
	if err != nil {
		return nil, err
	}

	merged := aggregation.MergeResults(results...)
	view.Rows = matrixRows(merged)
	view.Agents = aggregation.FromResult(merged).Sorted()
	view.TotalTickets = merged.TotalTickets()
	view.Coverage = cov
	return view, nil
}

// matrixRows lays the hourly buckets out as 24 rows, busiest agent first
func matrixRows(r *aggregation.Result) []MatrixRow {
	rows := make([]MatrixRow, 24)
	for h := range rows {
		rows[h] = MatrixRow{Hour: h, Label: fmt.Sprintf("%02d:00", h), Agents: []*aggregation.HourlyEntry{}}
		if r == nil {
			continue
		}
		for _, e := range r.Hourly[h] {
			rows[h].Agents = append(rows[h].Agents, e)
		}
		sort.Slice(rows[h].Agents, func(i, j int) bool {
			a, b := rows[h].Agents[i], rows[h].Agents[j]
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			return a.Key < b.Key
		})
		rows[h].Total = r.Hourly.Total(h)
	}
	return rows
}

// uniqueTickets concatenates lists keeping the first record of each id
func uniqueTickets(lists ...[]dto.RawTicket) []dto.RawTicket {
	seen := make(map[string]bool)
	var out []dto.RawTicket
	for _, list := range lists {
		for _, t := range list {
			if t.ID != "" {
				if seen[t.ID] {
					continue
				}
				seen[t.ID] = true
			}
			out = append(out, t)
		}
	}
	return out
}

package dashboard

import (
	"context"
	"math"
	"strings"

	"ticketpulse/internal/aggregation"
	"ticketpulse/internal/performance"
	"ticketpulse/internal/repositories/gleap"
	"ticketpulse/internal/timewindow"
)

// TeamPerformanceView is the overview table of one window
type TeamPerformanceView struct {
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
	Totals    performance.Totals   `json:"totals"`
	Agents    []performance.Record `json:"agents"`
}

// ShiftTable is the merged table of one shift across the requested days
type ShiftTable struct {
	Shift        timewindow.Shift            `json:"shift"`
	Windows      []timewindow.Window         `json:"windows"`
	TotalAgents  int                         `json:"total_agents"`
	TotalTickets int                         `json:"total_tickets"`
	Agents       []*aggregation.AgentSummary `json:"agents"`
}

// ShiftsView holds one table per shift
type ShiftsView struct {
	Range  timewindow.DateRange `json:"range"`
	Shifts []ShiftTable         `json:"shifts"`
	Coverage
}

// TimeRange is the window a statistics answer covers
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StatisticsView carries the median facts, in whole minutes
type StatisticsView struct {
	MedianFirstResponse int       `json:"median_first_response"`
	MedianReplyTime     int       `json:"median_reply_time"`
	MedianTimeToClose   int       `json:"median_time_to_close"`
	TimeRange           TimeRange `json:"time_range"`
}

// TeamPerformance maps the statistics rows of w and totals them
func (s *Service) TeamPerformance(ctx context.Context, w timewindow.Window) (*TeamPerformanceView, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	items, err := s.stats.FetchTeamPerformance(ctx, w)
	if err != nil {
		return nil, err
	}

	records := performance.MapAll(items, performance.Overview)
	return &TeamPerformanceView{
		StartDate: timewindow.FormatUTC(w.Start),
		EndDate:   timewindow.FormatUTC(w.End),
		Totals:    performance.ComputeTotals(records),
		Agents:    records,
	}, nil
}

// ShiftView builds the per-shift tables of r. Idle agents are left out, and
// so is anyone outside the roster when one is configured.
func (s *Service) ShiftView(ctx context.Context, r timewindow.DateRange) (*ShiftsView, error) {
	plan, err := s.planner.PlanShiftWindows(r)
	if err != nil {
		return nil, err
	}

	var (
		tasks []task[*aggregation.Summary]
		owner []timewindow.Shift
	)
	for _, shift := range timewindow.Shifts {
		for _, w := range plan[shift] {
			tasks = append(tasks, task[*aggregation.Summary]{
				label: w.Label,
				run: func(ctx context.Context) (*aggregation.Summary, error) {
					items, err := s.stats.FetchTeamPerformance(ctx, w)
					if err != nil {
						return nil, err
					}
					return performance.ToSummary(s.onRoster(performance.MapAll(items, performance.ShiftView))), nil
				},
			})
			owner = append(owner, shift)
		}
	}

	results, cov, err := fanOut(ctx, s.batch, tasks)
	if err != nil {
		return nil, err
	}

	byShift := make(map[timewindow.Shift][]*aggregation.Summary, len(timewindow.Shifts))
	for i, sum := range results {
		byShift[owner[i]] = append(byShift[owner[i]], sum)
	}

	view := &ShiftsView{Range: r, Coverage: cov}
	for _, shift := range timewindow.Shifts {
		table := ShiftTable{Shift: shift, Windows: plan[shift], Agents: []*aggregation.AgentSummary{}}
		for _, a := range aggregation.Merge(byShift[shift]...).Sorted() {
			if a.Idle() {
				continue
			}
			table.Agents = append(table.Agents, a)
			table.TotalTickets += a.TotalTickets
		}
		table.TotalAgents = len(table.Agents)
		view.Shifts = append(view.Shifts, table)
	}
	return view, nil
}

func (s *Service) onRoster(records []performance.Record) []performance.Record {
	if len(s.roster) == 0 {
		return records
	}
	out := records[:0:0]
	for _, r := range records {
		if s.roster[strings.ToLower(r.AgentEmail)] || s.roster[strings.ToLower(r.AgentName)] {
			out = append(out, r)
		}
	}
	return out
}

// Statistics fetches the three median facts of w in parallel
func (s *Service) Statistics(ctx context.Context, w timewindow.Window) (*StatisticsView, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	facts, err := s.stats.FetchFacts(ctx, w,
		gleap.MedianFirstResponseChart, gleap.MedianReplyTimeChart, gleap.MedianTimeToCloseChart)
	if err != nil {
		return nil, err
	}

	minutes := func(chart string) int {
		f := facts[chart]
		if f.Value == nil {
			return 0
		}
		return int(math.Round(toMinutes(*f.Value, f.ValueUnit)))
	}
	return &StatisticsView{
		MedianFirstResponse: minutes(gleap.MedianFirstResponseChart),
		MedianReplyTime:     minutes(gleap.MedianReplyTimeChart),
		MedianTimeToClose:   minutes(gleap.MedianTimeToCloseChart),
		TimeRange: TimeRange{
			Start: timewindow.FormatUTC(w.Start),
			End:   timewindow.FormatUTC(w.End),
		},
	}, nil
}

// toMinutes converts a fact to minutes. Unknown units are taken as minutes;
// an empty unit means no value.
func toMinutes(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "":
		return 0
	case "h":
		return value * 60
	case "s":
		return value / 60
	default:
		return value
	}
}

package dashboard

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/timewindow"
)

const (
	// Unassigned names the owner of tickets nobody picked up
	Unassigned = "UNASSIGNED"
	// UnknownPlan is used when no plan can be found on a ticket
	UnknownPlan = "UNKNOWN_PLAN"

	localISOLayout = "2006-01-02T15:04:05.000Z07:00"
)

var (
	planTagRe = regexp.MustCompile(`(?i)PLAN`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

// OpenTickets lists the open tickets with the open count of their agent,
// most loaded agents first
func (s *Service) OpenTickets(ctx context.Context) (*dto.OpenTicketsView, error) {
	tickets, err := s.tickets.FetchOpen(ctx, s.openLimit)
	if err != nil {
		return nil, err
	}
	rows := openTicketRows(tickets, s.now())
	return &dto.OpenTicketsView{TotalTickets: len(rows), Tickets: rows}, nil
}

// PlanSummary counts the open tickets per customer plan
func (s *Service) PlanSummary(ctx context.Context) (*dto.PlanSummary, error) {
	tickets, err := s.tickets.FetchOpen(ctx, s.openLimit)
	if err != nil {
		return nil, err
	}
	return planSummary(tickets, s.now()), nil
}

func openTicketRows(tickets []dto.RawTicket, now time.Time) []dto.OpenTicketRow {
	rows := make([]dto.OpenTicketRow, 0, len(tickets))
	perAgent := make(map[string]int)

	for _, t := range tickets {
		agent := Unassigned
		var agentEmail string
		if t.ProcessingUser != nil {
			if strings.TrimSpace(t.ProcessingUser.FirstName) != "" {
				agent = t.ProcessingUser.DisplayName()
			}
			agentEmail = t.ProcessingUser.Email
		}

		row := dto.OpenTicketRow{
			ID:            t.ID,
			TicketID:      t.ID,
			AgentName:     agent,
			AgentEmail:    agentEmail,
			TicketStatus:  t.Status,
			TicketType:    t.Type,
			Priority:      t.Priority,
			SlaBreached:   t.SlaBreached,
			HasAgentReply: t.HasAgentReply,
			Tags:          strings.Join(t.Tags, ", "),
			UpdatedAt:     formatLocal(t.UpdatedAt),
			PlanType:      planOf(t),
		}
		if t.BugID != "" {
			row.TicketID = string(t.BugID)
		}
		if t.Session != nil {
			row.UserEmail = t.Session.Email
			row.UserName = t.Session.Name
		}

		var commentAt string
		if t.LatestComment != nil {
			commentAt = t.LatestComment.CreatedAt
		}
		row.LatestCommentCreatedAt = formatLocal(commentAt)
		row.TimeOpenDuration = timeOpen(now, commentAt, t.UpdatedAt, t.CreatedAt)

		perAgent[agent]++
		rows = append(rows, row)
	}

	for i := range rows {
		rows[i].AgentOpenTicket = perAgent[rows[i].AgentName]
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AgentOpenTicket > rows[j].AgentOpenTicket
	})
	return rows
}

func planSummary(tickets []dto.RawTicket, now time.Time) *dto.PlanSummary {
	counts := make(map[string]int)
	for _, t := range tickets {
		counts[planOf(t)]++
	}

	out := &dto.PlanSummary{
		TotalTickets:  len(tickets),
		TimeIST:       timewindow.ToLocal(now).Format("15:04"),
		CustomDetails: []string{},
		Breakdown:     make([]dto.PlanCount, 0, len(counts)),
		Timestamp:     now.UTC(),
	}
	for plan, n := range counts {
		out.Breakdown = append(out.Breakdown, dto.PlanCount{Plan: plan, Count: n, Emoji: planEmoji(plan)})
	}
	sort.Slice(out.Breakdown, func(i, j int) bool {
		if out.Breakdown[i].Count != out.Breakdown[j].Count {
			return out.Breakdown[i].Count > out.Breakdown[j].Count
		}
		return out.Breakdown[i].Plan < out.Breakdown[j].Plan
	})

	for _, b := range out.Breakdown {
		switch {
		case strings.HasPrefix(b.Plan, "CUSTOM_"):
			out.Summary.CustomPlan += b.Count
			out.CustomDetails = append(out.CustomDetails, fmt.Sprintf("%s %s - %d", b.Emoji, b.Plan, b.Count))
		case b.Plan == "BASE_PLAN":
			out.Summary.BasePlan += b.Count
		case b.Plan == "PRO_PLAN":
			out.Summary.ProPlan += b.Count
		case b.Plan == "TRIAL_PLAN":
			out.Summary.TrialPlan += b.Count
		}
	}
	return out
}

// planOf looks for the customer plan on the session, then the latest
// comment session, then the ticket, then the first tag naming a plan
func planOf(t dto.RawTicket) string {
	if t.Session != nil && t.Session.Plan != "" {
		return normalizePlan(t.Session.Plan)
	}
	if t.LatestComment != nil && t.LatestComment.Session != nil && t.LatestComment.Session.Plan != "" {
		return normalizePlan(t.LatestComment.Session.Plan)
	}
	if t.Plan != "" {
		return normalizePlan(t.Plan)
	}
	for _, tag := range t.Tags {
		if planTagRe.MatchString(tag) {
			return normalizePlan(tag)
		}
	}
	return UnknownPlan
}

func normalizePlan(p string) string {
	p = strings.ToUpper(spacesRe.ReplaceAllString(strings.TrimSpace(p), "_"))
	if p == "" {
		return UnknownPlan
	}
	return p
}

func planEmoji(plan string) string {
	switch {
	case strings.HasPrefix(plan, "CUSTOM_"):
		return "💎"
	case plan == "PRO_PLAN":
		return "🚀"
	case plan == "BASE_PLAN":
		return "🟢"
	case plan == UnknownPlan:
		return "❓"
	default:
		return "📦"
	}
}

// formatLocal renders an upstream timestamp in local time with its offset.
// Unparseable or missing values render empty.
func formatLocal(s string) string {
	t, ok := timewindow.ParseTimestamp(s)
	if !ok {
		return ""
	}
	return timewindow.ToLocal(t).Format(localISOLayout)
}

// timeOpen measures from the first parseable reference to now
func timeOpen(now time.Time, refs ...string) string {
	for _, r := range refs {
		t, ok := timewindow.ParseTimestamp(r)
		if !ok {
			continue
		}
		return FormatOpenDuration(now.Sub(t))
	}
	return ""
}

// FormatOpenDuration renders d as "N days M hours", "N hours M minutes" or
// "N minutes". Negative durations render empty.
func FormatOpenDuration(d time.Duration) string {
	if d < 0 {
		return ""
	}
	minutes := int(d / time.Minute)
	hours := minutes / 60
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%d days %d hours", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%d hours %d minutes", hours, minutes%60)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

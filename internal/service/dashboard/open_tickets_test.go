package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpulse/internal/apperr"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/timewindow"
)

func openFixture() *fakeTickets {
	asha := &dto.AgentRef{FirstName: "Asha", LastName: "Rao", Email: "a@x.com"}
	return &fakeTickets{open: []dto.RawTicket{
		{
			ID: "o1", Status: "OPEN", Type: "INQUIRY", Priority: "HIGH",
			ProcessingUser: asha,
			UpdatedAt:      "2025-11-24T11:00:00.000Z",
			LatestComment:  &dto.LatestComment{CreatedAt: "2025-11-24T11:30:00.000Z"},
			Session:        &dto.Session{Plan: "pro plan", Email: "jane@customer.io", Name: "Jane"},
			Tags:           []string{"billing", "vip"},
		},
		{
			ID: "o2", ProcessingUser: asha,
			UpdatedAt: "2025-11-22T09:00:00.000Z",
			Plan:      "custom_acme",
		},
		{
			ID: "o3", CreatedAt: "2025-11-24T09:15:00.000Z",
			Tags: []string{"urgent", "trial plan"},
		},
		{
			ID: "o4", ProcessingUser: &dto.AgentRef{FirstName: "Bala"},
		},
	}}
}

func TestOpenTickets(t *testing.T) {
	svc := newTestService(openFixture(), &fakeStats{})

	view, err := svc.OpenTickets(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, view.TotalTickets)

	rows := view.Tickets
	assert.Equal(t, []string{"o1", "o2", "o3", "o4"}, []string{rows[0].ID, rows[1].ID, rows[2].ID, rows[3].ID})

	o1 := rows[0]
	assert.Equal(t, "Asha Rao", o1.AgentName)
	assert.Equal(t, 2, o1.AgentOpenTicket)
	assert.Equal(t, "PRO_PLAN", o1.PlanType)
	assert.Equal(t, "billing, vip", o1.Tags)
	assert.Equal(t, "30 minutes", o1.TimeOpenDuration)
	assert.Equal(t, "2025-11-24T17:00:00.000+05:30", o1.LatestCommentCreatedAt)
	assert.Equal(t, "jane@customer.io", o1.UserEmail)

	o2 := rows[1]
	assert.Equal(t, "2 days 3 hours", o2.TimeOpenDuration)
	assert.Equal(t, "2025-11-22T14:30:00.000+05:30", o2.UpdatedAt)
	assert.Equal(t, "CUSTOM_ACME", o2.PlanType)

	o3 := rows[2]
	assert.Equal(t, Unassigned, o3.AgentName)
	assert.Equal(t, 1, o3.AgentOpenTicket)
	assert.Equal(t, "2 hours 45 minutes", o3.TimeOpenDuration)
	assert.Equal(t, "TRIAL_PLAN", o3.PlanType)
	assert.Empty(t, o3.UpdatedAt)

	o4 := rows[3]
	assert.Equal(t, "Bala", o4.AgentName)
	assert.Equal(t, UnknownPlan, o4.PlanType)
	assert.Empty(t, o4.TimeOpenDuration)
}

func TestOpenTickets_UpstreamError(t *testing.T) {
	fx := &fakeTickets{fail: func(string, timewindow.Window) error {
		return &apperr.UpstreamError{Endpoint: "/tickets", Status: 500}
	}}
	svc := newTestService(fx, &fakeStats{})
	_, err := svc.OpenTickets(context.Background())
	assert.Error(t, err)
}

func TestPlanSummary(t *testing.T) {
	svc := newTestService(openFixture(), &fakeStats{})

	sum, err := svc.PlanSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, sum.TotalTickets)
	assert.Equal(t, "17:30", sum.TimeIST)
	assert.Equal(t, dto.PlanGroups{ProPlan: 1, TrialPlan: 1, CustomPlan: 1}, sum.Summary)
	assert.Equal(t, []string{"💎 CUSTOM_ACME - 1"}, sum.CustomDetails)

	require.Len(t, sum.Breakdown, 4)
	assert.Equal(t, "CUSTOM_ACME", sum.Breakdown[0].Plan)
	assert.Equal(t, "UNKNOWN_PLAN", sum.Breakdown[3].Plan)
	assert.Equal(t, "❓", sum.Breakdown[3].Emoji)
}

func TestPlanOf(t *testing.T) {
	tests := []struct {
		name string
		in   dto.RawTicket
		want string
	}{
		{"session wins", dto.RawTicket{Session: &dto.Session{Plan: "Base Plan"}, Plan: "PRO_PLAN"}, "BASE_PLAN"},
		{"comment session", dto.RawTicket{LatestComment: &dto.LatestComment{Session: &dto.Session{Plan: "pro_plan"}}}, "PRO_PLAN"},
		{"ticket plan", dto.RawTicket{Plan: "  trial   plan "}, "TRIAL_PLAN"},
		{"tag", dto.RawTicket{Tags: []string{"x", "Custom Big Plan"}}, "CUSTOM_BIG_PLAN"},
		{"nothing", dto.RawTicket{Tags: []string{"x"}}, UnknownPlan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planOf(tt.in))
		})
	}
}

func TestFormatOpenDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, ""},
		{0, "0 minutes"},
		{59 * time.Second, "0 minutes"},
		{61 * time.Minute, "1 hours 1 minutes"},
		{25*time.Hour + 10*time.Minute, "1 days 1 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatOpenDuration(tt.in), tt.in.String())
	}
}

package tickets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpulse/internal/apperr"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/service/dashboard/dashboardtest"
	"ticketpulse/internal/service/tickets"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
}

func str(s string) *string { return &s }

func fixture() *dashboardtest.Tickets {
	asha := &dto.AgentRef{Email: "a@x.com", FirstName: "Asha"}
	bala := &dto.AgentRef{Email: "b@x.com", FirstName: "Bala"}
	return &dashboardtest.Tickets{
		// 09:00 and 09:15 local
		Archived: []dto.RawTicket{
			{ID: "t1", Archived: true, ArchivedAt: str("2025-11-24T03:30:00.000Z"), ProcessingUser: asha},
		},
		Done: []dto.RawTicket{
			{ID: "t2", Status: "DONE", UpdatedAt: "2025-11-24T03:45:00.000Z", ProcessingUser: bala},
		},
		Open: []dto.RawTicket{
			{ID: "o1", ProcessingUser: asha, Session: &dto.Session{Plan: "pro plan"}, UpdatedAt: "2025-11-24T11:00:00.000Z"},
			{ID: "o2", Tags: []string{"custom_acme_plan"}},
		},
	}
}

func newRouter(t *testing.T, src *dashboardtest.Tickets) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := dashboardtest.NewApp(t, src, &dashboardtest.Stats{})
	router := gin.New()
	router.GET("/archived", tickets.Archived(cfg))
	router.GET("/hourly", tickets.Hourly(cfg))
	router.GET("/open", tickets.OpenTickets(cfg))
	router.GET("/plans", tickets.PlanSummary(cfg))
	return router
}

func get(t *testing.T, router *gin.Engine, url string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestArchived(t *testing.T) {
	router := newRouter(t, fixture())

	code, body := get(t, router, "/archived?startDate=2025-11-24&endDate=2025-11-24")
	require.Equal(t, http.StatusOK, code)

	var view struct {
		TotalTickets int `json:"total_tickets"`
		Agents       []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
		} `json:"agents"`
		Matrix []struct {
			Label string `json:"label"`
			Total int    `json:"total"`
		} `json:"matrix"`
		Partial bool `json:"partial"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, 2, view.TotalTickets)
	assert.Len(t, view.Agents, 2)
	require.Len(t, view.Matrix, 24)
	assert.Equal(t, "09:00", view.Matrix[9].Label)
	assert.Equal(t, 2, view.Matrix[9].Total)
	assert.False(t, view.Partial)
}

func TestArchived_Errors(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		err            error
		expectedStatus int
	}{
		{"inverted window", "/archived?startDate=2025-11-25&endDate=2025-11-24", nil, http.StatusBadRequest},
		{"upstream timeout", "/archived", &apperr.TimeoutError{Op: "GET /tickets", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"upstream error", "/archived", &apperr.UpstreamError{Endpoint: "/tickets", Status: 500}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fixture()
			src.Err = tt.err
			code, body := get(t, newRouter(t, src), tt.url)
			assert.Equal(t, tt.expectedStatus, code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.expectedStatus, body.Code)
		})
	}
}

func TestHourly(t *testing.T) {
	router := newRouter(t, fixture())

	code, body := get(t, router, "/hourly?startDate=2025-11-24&endDate=2025-11-24")
	require.Equal(t, http.StatusOK, code)
	var view struct {
		Applicable bool `json:"applicable"`
		Rows       []struct {
			Total int `json:"total"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.True(t, view.Applicable)
	require.Len(t, view.Rows, 24)
	// the fixture answers every hourly window with the same two tickets
	assert.Equal(t, 2, view.Rows[9].Total)

	code, body = get(t, router, "/hourly?startDate=2025-11-01&endDate=2025-11-20")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.False(t, view.Applicable)
}

func TestOpenTickets(t *testing.T) {
	router := newRouter(t, fixture())

	code, body := get(t, router, "/open")
	require.Equal(t, http.StatusOK, code)

	var view dto.OpenTicketsView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, 2, view.TotalTickets)
	require.Len(t, view.Tickets, 2)
	assert.Equal(t, "Asha", view.Tickets[0].AgentName)
	assert.Equal(t, "PRO_PLAN", view.Tickets[0].PlanType)
	assert.Equal(t, "1 hours 0 minutes", view.Tickets[0].TimeOpenDuration)
	assert.Equal(t, "UNASSIGNED", view.Tickets[1].AgentName)
}

func TestPlanSummary(t *testing.T) {
	router := newRouter(t, fixture())

	code, body := get(t, router, "/plans")
	require.Equal(t, http.StatusOK, code)

	var sum dto.PlanSummary
	require.NoError(t, json.Unmarshal(body.Data, &sum))
	assert.Equal(t, 2, sum.TotalTickets)
	assert.Equal(t, "17:30", sum.TimeIST)
	assert.Equal(t, 1, sum.Summary.ProPlan)
	assert.Equal(t, 1, sum.Summary.CustomPlan)
}

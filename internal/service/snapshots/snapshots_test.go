package snapshots_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpulse/internal/config"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/models/entities"
	"ticketpulse/internal/service/dashboard/dashboardtest"
	"ticketpulse/internal/service/snapshots"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Details    map[string]any  `json:"details"`
	Pagination dto.Pagination  `json:"pagination"`
}

func newRouter(cfg *config.App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upsert", snapshots.Upsert(cfg))
	router.POST("/refresh", snapshots.Refresh(cfg))
	router.GET("/agents", snapshots.Agents(cfg))
	router.GET("/search", snapshots.Search(cfg))
	return router
}

func do(t *testing.T, router *gin.Engine, method, url, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestUpsert(t *testing.T) {
	store := &dashboardtest.Store{}
	cfg := dashboardtest.NewApp(t, &dashboardtest.Tickets{}, &dashboardtest.Stats{}, dashboardtest.WithStore(store))
	router := newRouter(cfg)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		validateFunc   func(t *testing.T, env envelope)
	}{
		{
			name:           "Success - two rows",
			body:           `{"rows":[{"id":"o1","agent_name":"Asha","agent_open_ticket":2},{"id":"o2","agent_name":"Asha","agent_open_ticket":2}]}`,
			expectedStatus: http.StatusOK,
			validateFunc: func(t *testing.T, env envelope) {
				var res dto.UpsertResult
				require.NoError(t, json.Unmarshal(env.Data, &res))
				assert.Equal(t, int64(2), res.RowsWritten)
			},
		},
		{
			name:           "Success - same id overwrites",
			body:           `{"rows":[{"id":"o1","agent_name":"Bala","agent_open_ticket":1}]}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Success - bare array",
			body:           `[{"id":"o2","agent_name":"Chen","agent_open_ticket":1}]`,
			expectedStatus: http.StatusOK,
			validateFunc: func(t *testing.T, env envelope) {
				var res dto.UpsertResult
				require.NoError(t, json.Unmarshal(env.Data, &res))
				assert.Equal(t, int64(1), res.RowsWritten)
			},
		},
		{
			name:           "Success - repeated id in one body keeps the last row",
			body:           `{"rows":[{"id":"o1","agent_name":"Asha"},{"id":"o1","agent_name":"Bala"}]}`,
			expectedStatus: http.StatusOK,
			validateFunc: func(t *testing.T, env envelope) {
				var res dto.UpsertResult
				require.NoError(t, json.Unmarshal(env.Data, &res))
				assert.Equal(t, int64(1), res.RowsWritten)
			},
		},
		{
			name:           "Error - missing id in bare array",
			body:           `[{"id":"o3"},{"agent_name":"nobody"}]`,
			expectedStatus: http.StatusBadRequest,
			validateFunc: func(t *testing.T, env envelope) {
				assert.Equal(t, "rows[1].id", env.Details["field"])
			},
		},
		{
			name:           "Error - missing id",
			body:           `{"rows":[{"agent_name":"nobody"}]}`,
			expectedStatus: http.StatusBadRequest,
			validateFunc: func(t *testing.T, env envelope) {
				assert.Equal(t, "rows[0].id", env.Details["field"])
			},
		},
		{
			name:           "Error - rows missing",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			validateFunc: func(t *testing.T, env envelope) {
				assert.Equal(t, "rows", env.Details["field"])
			},
		},
		{
			name:           "Error - not json",
			body:           `rows=1`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, router, http.MethodPost, "/upsert", tt.body)
			assert.Equal(t, tt.expectedStatus, code)
			if tt.validateFunc != nil {
				tt.validateFunc(t, env)
			}
		})
	}

	require.Len(t, store.Rows, 2)
	assert.Equal(t, "Bala", store.Rows["o1"].AgentName)
	assert.Equal(t, "Chen", store.Rows["o2"].AgentName)
}

func TestSnapshots_NotConfigured(t *testing.T) {
	cfg := dashboardtest.NewApp(t, &dashboardtest.Tickets{}, &dashboardtest.Stats{})
	router := newRouter(cfg)

	for _, tc := range []struct{ method, url, body string }{
		{http.MethodPost, "/upsert", `{"rows":[{"id":"o1"}]}`},
		{http.MethodPost, "/refresh", ""},
		{http.MethodGet, "/agents", ""},
		{http.MethodGet, "/search?q=asha", ""},
	} {
		code, env := do(t, router, tc.method, tc.url, tc.body)
		assert.Equal(t, http.StatusServiceUnavailable, code, tc.url)
		assert.False(t, env.Success)
	}
}

func TestRefreshAndSearch(t *testing.T) {
	src := &dashboardtest.Tickets{Open: []dto.RawTicket{
		{ID: "o1", ProcessingUser: &dto.AgentRef{FirstName: "Asha", Email: "a@x.com"}},
		{ID: "o2", ProcessingUser: &dto.AgentRef{FirstName: "Asha", Email: "a@x.com"}},
		{ID: "o3"},
	}}
	store := &dashboardtest.Store{}
	index := &dashboardtest.Index{}
	cfg := dashboardtest.NewApp(t, src, &dashboardtest.Stats{}, dashboardtest.WithStore(store), dashboardtest.WithIndex(index))
	router := newRouter(cfg)

	code, env := do(t, router, http.MethodPost, "/refresh", "")
	require.Equal(t, http.StatusOK, code)
	var res dto.RefreshResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, dto.RefreshResult{Fetched: 3, RowsWritten: 3, Indexed: 3}, res)

	code, env = do(t, router, http.MethodGet, "/agents", "")
	require.Equal(t, http.StatusOK, code)
	var rows []entities.TicketSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "o1", rows[0].ID)
	assert.Equal(t, 2, rows[0].AgentOpenTicket)
	assert.Equal(t, "UNASSIGNED", rows[2].AgentName)

	code, env = do(t, router, http.MethodGet, "/search?q=+asha+&plan=pro_plan&page=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, env.Pagination.CurrentPage)
	require.Len(t, index.Params, 1)
	assert.Equal(t, "asha", index.Params[0].Query)
	assert.Equal(t, "PRO_PLAN", index.Params[0].Plan)

	code, _ = do(t, router, http.MethodGet, "/search?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

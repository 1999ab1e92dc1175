package healthcheck_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/service/dashboard/dashboardtest"
	"ticketpulse/internal/service/healthcheck"
)

func TestHealth_ReportsMissingRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := dashboardtest.NewApp(t, &dashboardtest.Tickets{}, &dashboardtest.Stats{})

	router := gin.New()
	router.GET("/healthcheck/", healthcheck.Health(cfg))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DEGRADED", body.Status)
	assert.False(t, body.Success)
	assert.Equal(t, map[string]string{
		"redis":         "missing",
		"sqlserver":     "disabled",
		"elasticsearch": "disabled",
	}, body.Checks)
}

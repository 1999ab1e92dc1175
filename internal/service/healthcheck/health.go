package healthcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/models/dto"
)

// pinger is implemented by every backend client
type pinger interface {
	Ping(ctx context.Context) error
}

// Health - Healthcheck endpoint
// @Summary      Healthcheck
// @Description  Liveness plus a ping of every configured backend. Redis is required; missing optional backends report "disabled".
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /healthcheck/ [get]
func Health(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "OK"

		probe := func(name string, required bool, p pinger, present bool) {
			if !present {
				checks[name] = "disabled"
				if required {
					checks[name] = "missing"
					status = "DEGRADED"
				}
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				status = "DEGRADED"
				return
			}
			checks[name] = "ok"
		}

		probe("redis", true, cfg.Redis, cfg.Redis != nil)
		probe("sqlserver", false, cfg.SqlServer, cfg.SqlServer != nil)
		probe("elasticsearch", false, cfg.ES, cfg.ES != nil)

		code := http.StatusOK
		if status != "OK" {
			code = http.StatusServiceUnavailable
			cfg.Logger.Warn("healthcheck degraded", map[string]interface{}{"checks": checks})
		}

		uptime := ""
		if !cfg.StartedAt.IsZero() {
			uptime = time.Since(cfg.StartedAt).Round(time.Second).String()
		}
		c.JSON(code, dto.NewHealthResponse(c, status, "ticketpulse", "1.0.0", uptime, checks))
	}
}

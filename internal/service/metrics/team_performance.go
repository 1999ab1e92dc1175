// Package metrics serves the team performance, shift and statistics views
package metrics

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/utils"
)

const requestTimeout = 60 * time.Second

// TeamPerformance returns the per-agent performance table of a window
// @Summary      Team performance
// @Description  Per-agent ticket counts, reply medians and ratings for a window, with team totals. Defaults to the last 24 hours.
// @Tags         metrics
// @Produce      json
// @Param        startDate  query  string  false  "Window start (yyyy-mm-dd, local date-time or ISO with offset)"
// @Param        endDate    query  string  false  "Window end (inclusive)"
// @Success      200 {object} dto.SuccessResponse{data=dashboard.TeamPerformanceView}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      429 {object} dto.RateLimitErrorResponse
// @Failure      502 {object} dto.ErrorResponse "Upstream error"
// @Failure      504 {object} dto.ErrorResponse "Upstream timeout"
// @Router       /api/team-performance [get]
func TeamPerformance(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := utils.WindowFromQuery(c, cfg.Dashboard.Planner(), 24)
		if err != nil {
			utils.RespondError(c, err, "Invalid date range")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		view, err := cfg.Dashboard.TeamPerformance(ctx, w)
		if err != nil {
			cfg.Logger.Error("team performance failed", err, map[string]interface{}{"window": w.String()})
			utils.RespondError(c, err, "Failed to retrieve team performance")
			return
		}

		utils.RespondOK(c, view, "Team performance retrieved successfully")
	}
}

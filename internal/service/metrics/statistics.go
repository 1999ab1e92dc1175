package metrics

import (
	"context"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/utils"
)

// Statistics returns the median reply facts of a window, in minutes
// @Summary      Median statistics
// @Description  Median first response, reply time and time to close. Defaults to the last hour.
// @Tags         metrics
// @Produce      json
// @Param        startDate  query  string  false  "Window start"
// @Param        endDate    query  string  false  "Window end (inclusive)"
// @Success      200 {object} dto.SuccessResponse{data=dashboard.StatisticsView}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Router       /api/statistics [get]
func Statistics(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := utils.WindowFromQuery(c, cfg.Dashboard.Planner(), 1)
		if err != nil {
			utils.RespondError(c, err, "Invalid date range")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		view, err := cfg.Dashboard.Statistics(ctx, w)
		if err != nil {
			cfg.Logger.Error("statistics failed", err)
			utils.RespondError(c, err, "Failed to retrieve statistics")
			return
		}

		utils.RespondOK(c, view, "Statistics retrieved successfully")
	}
}

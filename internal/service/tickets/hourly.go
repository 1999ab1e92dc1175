package tickets

import (
	"context"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/middleware"
	"ticketpulse/internal/utils"
)

// Hourly returns the agent by local hour matrix over a range of days
// @Summary      Hourly matrix
// @Description  Closed tickets per agent per local hour. applicable is false when the range is wider than the hourly limit. Defaults to today.
// @Tags         tickets
// @Produce      json
// @Param        startDate  query  string  false  "First local day (yyyy-mm-dd)"
// @Param        endDate    query  string  false  "Last local day (yyyy-mm-dd)"
// @Success      200 {object} dto.SuccessResponse{data=dashboard.HourlyView}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Router       /api/hourly [get]
func Hourly(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := utils.DateRangeFromQuery(c, cfg.Dashboard.Planner())
		if err != nil {
			utils.RespondError(c, err, "Invalid date range")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		view, err := cfg.Dashboard.HourlyMatrix(ctx, r)
		if err != nil {
			cfg.Logger.Error("hourly matrix failed", err, map[string]interface{}{"start": r.Start, "end": r.End})
			utils.RespondError(c, err, "Failed to retrieve hourly matrix")
			return
		}
		if err := view.Err(); err != nil {
			_ = c.Error(err)
			middleware.AddLogFields(c, map[string]interface{}{"partial": true, "failed_windows": view.FailedWindows})
		}

		utils.RespondOK(c, view, "Hourly matrix retrieved successfully")
	}
}

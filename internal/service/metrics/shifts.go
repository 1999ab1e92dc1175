package metrics

import (
	"context"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/middleware"
	"ticketpulse/internal/utils"
)

// Shifts returns the morning, noon and night tables over a range of days
// @Summary      Shift view
// @Description  Team performance per shift, merged across the requested local days. Idle agents are left out. Defaults to today.
// @Tags         metrics
// @Produce      json
// @Param        startDate  query  string  false  "First local day (yyyy-mm-dd)"
// @Param        endDate    query  string  false  "Last local day (yyyy-mm-dd)"
// @Success      200 {object} dto.SuccessResponse{data=dashboard.ShiftsView}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Router       /api/shifts [get]
func Shifts(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := utils.DateRangeFromQuery(c, cfg.Dashboard.Planner())
		if err != nil {
			utils.RespondError(c, err, "Invalid date range")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		view, err := cfg.Dashboard.ShiftView(ctx, r)
		if err != nil {
			cfg.Logger.Error("shift view failed", err, map[string]interface{}{"start": r.Start, "end": r.End})
			utils.RespondError(c, err, "Failed to retrieve shift view")
			return
		}
		if err := view.Err(); err != nil {
			_ = c.Error(err)
			middleware.AddLogFields(c, map[string]interface{}{"partial": true, "failed_windows": view.FailedWindows})
		}

		utils.RespondOK(c, view, "Shift view retrieved successfully")
	}
}

package tickets

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/middleware"
	"ticketpulse/internal/utils"
)

const requestTimeout = 60 * time.Second

// Archived returns who closed tickets inside a window, plus the rolling
// last-24h hourly matrix
// @Summary      Archived tickets
// @Description  Per-agent table of archived and done tickets in the window. The matrix always covers the trailing 24 hours. Defaults to the last 24 hours.
// @Tags         tickets
// @Produce      json
// @Param        startDate  query  string  false  "Window start"
// @Param        endDate    query  string  false  "Window end (inclusive)"
// @Success      200 {object} dto.SuccessResponse{data=dashboard.ArchivedView}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse
// @Failure      504 {object} dto.ErrorResponse
// @Router       /api/archived [get]
func Archived(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := utils.WindowFromQuery(c, cfg.Dashboard.Planner(), 24)
		if err != nil {
			utils.RespondError(c, err, "Invalid date range")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		view, err := cfg.Dashboard.ArchivedView(ctx, w)
		if err != nil {
			cfg.Logger.Error("archived view failed", err, map[string]interface{}{"window": w.String()})
			utils.RespondError(c, err, "Failed to retrieve archived tickets")
			return
		}
		if err := view.Err(); err != nil {
			_ = c.Error(err)
			middleware.AddLogFields(c, map[string]interface{}{"partial": true, "failed_windows": view.FailedWindows})
		}

		utils.RespondOK(c, view, "Archived tickets retrieved successfully")
	}
}

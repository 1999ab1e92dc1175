package tickets

import (
	"context"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/utils"
)

// OpenTickets lists the open tickets with each agent's open count
// @Summary      Open tickets
// @Description  Open tickets, busiest agents first, with plan and time open
// @Tags         tickets
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.OpenTicketsView}
// @Failure      502 {object} dto.ErrorResponse
// @Router       /api/open-tickets [get]
func OpenTickets(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		view, err := cfg.Dashboard.OpenTickets(ctx)
		if err != nil {
			cfg.Logger.Error("open tickets failed", err)
			utils.RespondError(c, err, "Failed to retrieve open tickets")
			return
		}

		utils.RespondOK(c, view, "Open tickets retrieved successfully")
	}
}

// PlanSummary counts the open tickets per customer plan
// @Summary      Plan summary
// @Description  Open tickets grouped by plan (base, pro, trial, custom)
// @Tags         tickets
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.PlanSummary}
// @Failure      502 {object} dto.ErrorResponse
// @Router       /api/plan-summary [get]
func PlanSummary(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		sum, err := cfg.Dashboard.PlanSummary(ctx)
		if err != nil {
			cfg.Logger.Error("plan summary failed", err)
			utils.RespondError(c, err, "Failed to retrieve plan summary")
			return
		}

		utils.RespondOK(c, sum, "Plan summary retrieved successfully")
	}
}

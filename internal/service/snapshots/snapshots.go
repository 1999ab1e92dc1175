// Package snapshots serves the persisted open ticket snapshots
package snapshots

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/config"
	"ticketpulse/internal/models/dto"
	"ticketpulse/internal/utils"
)

const requestTimeout = 60 * time.Second

// Upsert stores the posted rows, replacing rows with the same id
// @Summary      Upsert snapshot rows
// @Description  Inserts or overwrites open ticket rows by id. Last write wins.
// @Tags         snapshots
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertRequest  true  "Rows to store"
// @Success      200 {object} dto.SuccessResponse{data=dto.UpsertResult}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse "Snapshot store not configured"
// @Router       /api/upsert [post]
func Upsert(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpsertRequest
		if err := utils.BindJSON(c, &req); err != nil {
			utils.RespondError(c, err, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		res, err := cfg.Dashboard.Upsert(ctx, req.Rows)
		if err != nil {
			cfg.Logger.Error("upsert failed", err, map[string]interface{}{"rows": len(req.Rows)})
			utils.RespondError(c, err, "Failed to store rows")
			return
		}

		utils.RespondOK(c, res, "Rows stored successfully")
	}
}

// Refresh reads the open tickets and stores and indexes them
// @Summary      Refresh snapshots
// @Description  Fetches the open tickets, upserts them and indexes them for search
// @Tags         snapshots
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.RefreshResult}
// @Failure      502 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Router       /api/snapshots/refresh [post]
func Refresh(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		res, err := cfg.Dashboard.RefreshSnapshots(ctx)
		if err != nil {
			cfg.Logger.Error("snapshot refresh failed", err)
			utils.RespondError(c, err, "Failed to refresh snapshots")
			return
		}

		cfg.Logger.Info("snapshots refreshed", map[string]interface{}{
			"fetched": res.Fetched, "rows_written": res.RowsWritten, "indexed": res.Indexed,
		})
		utils.RespondOK(c, res, "Snapshots refreshed successfully")
	}
}

// Agents lists the stored snapshots
// @Summary      Stored snapshots
// @Description  Stored open ticket rows ordered by the agent's open count
// @Tags         snapshots
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]entities.TicketSnapshot}
// @Failure      503 {object} dto.ErrorResponse
// @Router       /api/agents [get]
func Agents(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		rows, err := cfg.Dashboard.Agents(ctx)
		if err != nil {
			utils.RespondError(c, err, "Failed to list snapshots")
			return
		}

		utils.RespondOK(c, rows, "Snapshots retrieved successfully")
	}
}

// Search runs a full text query over the indexed snapshots
// @Summary      Search snapshots
// @Description  Fuzzy search over agent, customer, tags and ticket id, with optional agent and plan filters
// @Tags         snapshots
// @Produce      json
// @Param        q          query  string  false  "Search text"
// @Param        agent      query  string  false  "Agent name filter"
// @Param        plan       query  string  false  "Plan filter"
// @Param        page       query  int     false  "Page number" default(1)
// @Param        page_size  query  int     false  "Items per page" default(50) maximum(100)
// @Success      200 {object} dto.PaginatedResponse{data=[]entities.TicketSnapshot}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Router       /api/snapshots/search [get]
func Search(cfg *config.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.SnapshotSearchParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(c, http.StatusBadRequest, err.Error(), "Invalid search parameters", nil))
			return
		}
		params.Query = strings.TrimSpace(params.Query)
		params.Plan = strings.ToUpper(strings.TrimSpace(params.Plan))

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		rows, page, err := cfg.Dashboard.SearchSnapshots(ctx, params)
		if err != nil {
			utils.RespondError(c, err, "Failed to search snapshots")
			return
		}

		c.JSON(http.StatusOK, dto.NewPaginatedResponse(c, rows, page, "Snapshots retrieved successfully"))
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ticketpulse/internal/config"
	"ticketpulse/internal/service/healthcheck"
	"ticketpulse/internal/service/metrics"
	"ticketpulse/internal/service/snapshots"
	"ticketpulse/internal/service/tickets"
)

// InitiateRoutes is a function that initializes the routes for the application
func InitiateRoutes(engine *gin.Engine, cfg *config.App) {

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthGroup := engine.Group("/healthcheck")
	{
		healthGroup.GET("/", healthcheck.Health(cfg))
	}

	api := engine.Group("/api")

	// Statistics backed views
	{
		api.GET("/team-performance", metrics.TeamPerformance(cfg))
		api.GET("/team-performance/export", metrics.ExportTeamPerformance(cfg))
		api.GET("/shifts", metrics.Shifts(cfg))
		api.GET("/statistics", metrics.Statistics(cfg))
	}

	// Ticket listing views
	{
		api.GET("/archived", tickets.Archived(cfg))
		api.GET("/hourly", tickets.Hourly(cfg))
		api.GET("/open-tickets", tickets.OpenTickets(cfg))
		api.GET("/plan-summary", tickets.PlanSummary(cfg))
	}

	// Snapshot persistence and search
	{
		api.POST("/upsert", snapshots.Upsert(cfg))
		api.POST("/snapshots/refresh", snapshots.Refresh(cfg))
		api.GET("/agents", snapshots.Agents(cfg))
		api.GET("/snapshots/search", snapshots.Search(cfg))
	}
}

package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/axiroad/roadworks-backend/internal/handlers"
	"github.com/axiroad/roadworks-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLog    *middleware.RequestLog
	RoadHandler   *handlers.RoadHandler
	EntryHandler  *handlers.EntryHandler
	ReportHandler *handlers.ReportHandler
	BatchHandler  *handlers.BatchHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLog != nil {
		router.Use(cfg.RequestLog.Handler())
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Roads & phases
		api.POST("/roads", cfg.RoadHandler.CreateRoad)
		api.GET("/roads", cfg.RoadHandler.ListRoads)
		api.POST("/roads/:id/phases", cfg.RoadHandler.CreatePhase)
		api.GET("/roads/:id/phases", cfg.RoadHandler.ListPhases)
		api.POST("/phases/:id/intervals", cfg.RoadHandler.CreateInterval)
		api.GET("/phases/:id/intervals", cfg.RoadHandler.ListIntervals)

		// Entries
		api.POST("/entries", cfg.EntryHandler.Create)
		api.PATCH("/entries/:id", cfg.EntryHandler.Update)
		api.POST("/entries/bulk-edit", cfg.EntryHandler.BulkEdit)
		api.GET("/entries", cfg.EntryHandler.List)
		api.DELETE("/entries", cfg.EntryHandler.Delete)

		// Reports
		api.GET("/reports/items", cfg.ReportHandler.Items)
		api.POST("/reports/items/by-ids", cfg.ReportHandler.ItemsByIDs)

		// Batch maintenance
		api.POST("/batch/dedup", cfg.BatchHandler.Dedup)
		api.GET("/batch/audit", cfg.BatchHandler.Audit)
		api.POST("/templates/rebuild", cfg.BatchHandler.RebuildTemplates)
	}

	return router
}

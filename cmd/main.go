package main

import (
	"context"
	"fmt"
	"os"

	"github.com/axiroad/roadworks-backend/internal/clients/redis"
	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/db"
	"github.com/axiroad/roadworks-backend/internal/engine/rules"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	"github.com/axiroad/roadworks-backend/internal/handlers"
	"github.com/axiroad/roadworks-backend/internal/middleware"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
	"github.com/axiroad/roadworks-backend/internal/server"
	"github.com/axiroad/roadworks-backend/internal/services"
	"github.com/axiroad/roadworks-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Dictionary
	entries := vocab.DefaultEntries()
	if path := os.Getenv("DICTIONARY_PATH"); path != "" {
		extra, err := vocab.LoadFile(path)
		if err != nil {
			log.Error("Could not load dictionary file", "path", path, "error", err)
			os.Exit(1)
		}
		log.Info("Loaded site dictionary entries", "path", path, "entries", len(extra))
		entries = append(entries, extra...)
	}
	dict := vocab.New(entries)

	// Repos
	log.Info("Setting up Repos from main...")
	roadRepo := repos.NewRoadSectionRepo(thePG, log)
	defRepo := repos.NewPhaseDefinitionRepo(thePG, log)
	templateRepo := repos.NewWorkflowTemplateRepo(thePG, log)
	phaseRepo := repos.NewRoadPhaseRepo(thePG, log)
	intervalRepo := repos.NewPhaseIntervalRepo(thePG, log)
	entryRepo := repos.NewInspectionEntryRepo(thePG, log)

	// Report cache (optional)
	var reportCache redis.ReportCache
	if cache, err := redis.NewReportCache(log); err != nil {
		log.Warn("Report cache disabled", "error", err)
	} else {
		reportCache = cache
		defer cache.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	templateService := services.NewTemplateService(thePG, log, templateRepo, dict, rules.DefaultOverrides())
	if err := templateService.Rebuild(context.Background()); err != nil {
		log.Warn("Initial template index rebuild failed", "error", err)
	}
	roadService := services.NewRoadService(thePG, log, roadRepo, defRepo, phaseRepo, intervalRepo, dict)
	entryService := services.NewEntryService(thePG, log, entryRepo, dict, templateService)
	dedupService := services.NewDedupService(thePG, log, entryRepo, dict, templateService)
	aggregateService := services.NewAggregateService(thePG, log, entryRepo, dict, reportCache)
	auditService := services.NewAuditService(thePG, log, phaseRepo, intervalRepo, dict)

	// Handlers
	log.Info("Setting up handlers from main...")
	roadHandler := handlers.NewRoadHandler(roadService)
	entryHandler := handlers.NewEntryHandler(entryService)
	reportHandler := handlers.NewReportHandler(aggregateService)
	batchHandler := handlers.NewBatchHandler(dedupService, auditService, templateService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RequestLog:    middleware.NewRequestLog(log),
		RoadHandler:   roadHandler,
		EntryHandler:  entryHandler,
		ReportHandler: reportHandler,
		BatchHandler:  batchHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}

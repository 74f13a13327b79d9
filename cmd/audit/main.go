package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/db"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
	"github.com/axiroad/roadworks-backend/internal/services"
)

// One-shot template consistency audit. Prints the report as JSON on
// stdout; exits 2 when any drift is found so cron jobs can alert.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "production"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	entries := vocab.DefaultEntries()
	if path := os.Getenv("DICTIONARY_PATH"); path != "" {
		extra, err := vocab.LoadFile(path)
		if err != nil {
			log.Error("Could not load dictionary file", "path", path, "error", err)
			os.Exit(1)
		}
		entries = append(entries, extra...)
	}
	dict := vocab.New(entries)

	phaseRepo := repos.NewRoadPhaseRepo(thePG, log)
	intervalRepo := repos.NewPhaseIntervalRepo(thePG, log)
	auditService := services.NewAuditService(thePG, log, phaseRepo, intervalRepo, dict)

	report, err := auditService.Run(context.Background())
	if err != nil {
		log.Error("Audit failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Error("Could not encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	if len(report.DefinitionMissingDefaults)+len(report.IntervalLayerOutsideTemplate)+len(report.PhaseLayerLinkOutsideTemplate) > 0 {
		os.Exit(2)
	}
}

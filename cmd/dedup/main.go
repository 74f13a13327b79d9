package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/db"
	"github.com/axiroad/roadworks-backend/internal/engine/rules"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
	"github.com/axiroad/roadworks-backend/internal/services"
)

// One-shot duplicate merge pass, for cron or manual operation. Prints the
// merge report as JSON on stdout.
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

	entryRepo := repos.NewInspectionEntryRepo(thePG, log)
	templateRepo := repos.NewWorkflowTemplateRepo(thePG, log)
	templateService := services.NewTemplateService(thePG, log, templateRepo, dict, rules.DefaultOverrides())

	ctx := context.Background()
	if err := templateService.Rebuild(ctx); err != nil {
		log.Error("Template index rebuild failed", "error", err)
		os.Exit(1)
	}

	dedupService := services.NewDedupService(thePG, log, entryRepo, dict, templateService)
	report, err := dedupService.Run(ctx)
	if err != nil {
		log.Error("Dedup pass failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Error("Could not encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	if len(report.Failures) > 0 {
		os.Exit(2)
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/data/repos/testutil"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/rules"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
)

func TestDedupRunMergesDuplicateGroup(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)
	ctx := context.Background()

	dict := vocab.Default()
	entryRepo := repos.NewInspectionEntryRepo(tx, logg)
	templateRepo := repos.NewWorkflowTemplateRepo(tx, logg)
	templates := NewTemplateService(tx, logg, templateRepo, dict, rules.DefaultOverrides())
	svc := NewDedupService(tx, logg, entryRepo, dict, templates)

	road := testutil.SeedRoadSection(t, ctx, tx, "dedup-run")
	def := testutil.SeedPhaseDefinition(t, ctx, tx, "Couche de fondation dedup",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, tx, road.ID, def.ID)

	// Same request entered twice with different spellings. Épaisseur is
	// hard-overridden to [Géométrie, Essai], so the Visuel on the first
	// entry must not survive.
	e1 := testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"couche de fondation", "epaisseur", []string{"Visuel"})
	e2 := testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Épaisseur", []string{"Géométrie"})
	appt := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	e2.Remark = "ok"
	e2.AppointmentDate = &appt
	if err := tx.WithContext(ctx).Save(e2).Error; err != nil {
		t.Fatalf("update e2: %v", err)
	}
	// Distinct range, must be left alone.
	e3 := testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideLeft, 500, 900,
		"Fondation", "Compactage", []string{"Essai"})

	report, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("run dedup: %v", err)
	}
	if report.Scanned != 3 {
		t.Fatalf("scanned: got %d, want 3", report.Scanned)
	}
	if report.Groups != 1 || report.Merged != 1 || report.EntriesDeleted != 1 {
		t.Fatalf("report: groups=%d merged=%d deleted=%d, want 1/1/1",
			report.Groups, report.Merged, report.EntriesDeleted)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}

	// Keeper is the smallest id.
	keeper, err := entryRepo.GetByID(ctx, nil, e1.ID)
	if err != nil {
		t.Fatalf("load keeper: %v", err)
	}
	if keeper == nil {
		t.Fatal("keeper was deleted")
	}
	gone, err := entryRepo.GetByID(ctx, nil, e2.ID)
	if err != nil {
		t.Fatalf("load source: %v", err)
	}
	if gone != nil {
		t.Fatalf("source entry %d still present", e2.ID)
	}

	if keeper.LayerName != "Fondation" || keeper.CheckName != "Épaisseur" {
		t.Fatalf("keeper names not canonical: %q / %q", keeper.LayerName, keeper.CheckName)
	}
	// The governing set wins over the merged union.
	types := domain.StringList(keeper.Types)
	if len(types) != 2 || types[0] != "Géométrie" || types[1] != "Essai" {
		t.Fatalf("keeper types: got %v, want [Géométrie Essai]", types)
	}
	if keeper.Remark != "ok" {
		t.Fatalf("remark: got %q, want first non-empty", keeper.Remark)
	}
	if keeper.AppointmentDate == nil || !keeper.AppointmentDate.Equal(appt) {
		t.Fatalf("appointment date: got %v, want %v", keeper.AppointmentDate, appt)
	}
	if keeper.Status != domain.StatusPending {
		t.Fatalf("status must be untouched by merge, got %q", keeper.Status)
	}

	untouched, err := entryRepo.GetByID(ctx, nil, e3.ID)
	if err != nil {
		t.Fatalf("load untouched: %v", err)
	}
	if untouched == nil {
		t.Fatal("non-duplicate entry was deleted")
	}
}

func TestDedupRunIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)
	ctx := context.Background()

	dict := vocab.Default()
	entryRepo := repos.NewInspectionEntryRepo(tx, logg)
	templateRepo := repos.NewWorkflowTemplateRepo(tx, logg)
	templates := NewTemplateService(tx, logg, templateRepo, dict, rules.DefaultOverrides())
	svc := NewDedupService(tx, logg, entryRepo, dict, templates)

	road := testutil.SeedRoadSection(t, ctx, tx, "dedup-idem")
	def := testutil.SeedPhaseDefinition(t, ctx, tx, "Couche de fondation idem",
		[]string{"Fondation"}, []string{"Compactage"})
	phase := testutil.SeedRoadPhase(t, ctx, tx, road.ID, def.ID)

	testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideBoth, 0, 100,
		"Fondation", "Compactage", []string{"Essai"})
	testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideBoth, 0, 100,
		"fondation", "compacité", []string{"Essai"})

	first, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Merged != 1 || first.EntriesDeleted != 1 {
		t.Fatalf("first run: merged=%d deleted=%d, want 1/1", first.Merged, first.EntriesDeleted)
	}

	second, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Groups != 0 || second.Merged != 0 || second.EntriesDeleted != 0 || second.Normalized != 0 {
		t.Fatalf("second run must be a no-op: %+v", second)
	}
}

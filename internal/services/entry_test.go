package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/data/repos/testutil"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/rules"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	apperrors "github.com/axiroad/roadworks-backend/internal/pkg/errors"
	"github.com/axiroad/roadworks-backend/internal/pkg/pointers"
)

func newEntryService(t *testing.T) (EntryService, *testServiceDeps) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)

	dict := vocab.Default()
	entryRepo := repos.NewInspectionEntryRepo(tx, logg)
	templateRepo := repos.NewWorkflowTemplateRepo(tx, logg)
	templates := NewTemplateService(tx, logg, templateRepo, dict, rules.DefaultOverrides())
	svc := NewEntryService(tx, logg, entryRepo, dict, templates)
	return svc, &testServiceDeps{tx: tx, entryRepo: entryRepo}
}

type testServiceDeps struct {
	tx        *gorm.DB
	entryRepo repos.InspectionEntryRepo
}

func TestCreateEntriesCanonicalizesInput(t *testing.T) {
	svc, deps := newEntryService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "entry-create")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation create",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	rows, err := svc.CreateEntries(ctx, []EntryCreateInput{{
		RoadSectionID: road.ID,
		RoadPhaseID:   phase.ID,
		Side:          domain.SideLeft,
		StartPK:       0,
		EndPK:         500,
		LayerName:     "couche de fondation",
		CheckName:     "epaisseur",
		Types:         []string{"geometrie"},
		Remark:        "premier contrôle",
		CreatedBy:     "inspector-1",
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	got := rows[0]
	if got.ID == 0 {
		t.Fatal("id not assigned")
	}
	if got.LayerName != "Fondation" || got.CheckName != "Épaisseur" {
		t.Fatalf("names not canonical: %q / %q", got.LayerName, got.CheckName)
	}
	if types := domain.StringList(got.Types); len(types) != 1 || types[0] != "Géométrie" {
		t.Fatalf("types: got %v, want [Géométrie]", types)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("status: got %q, want %q", got.Status, domain.StatusPending)
	}
}

func TestCreateEntriesRejectsDisallowedType(t *testing.T) {
	svc, deps := newEntryService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "entry-clamp")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation clamp",
		[]string{"Fondation"}, []string{"Compactage"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	// Compactage only accepts Essai; the request must fail loudly rather
	// than silently dropping Visuel.
	_, err := svc.CreateEntries(ctx, []EntryCreateInput{{
		RoadSectionID: road.ID,
		RoadPhaseID:   phase.ID,
		Side:          domain.SideBoth,
		StartPK:       0,
		EndPK:         100,
		LayerName:     "Fondation",
		CheckName:     "Compactage",
		Types:         []string{"Essai", "Visuel"},
	}})
	var tna *apperrors.TypeNotAllowedError
	if !errors.As(err, &tna) {
		t.Fatalf("expected TypeNotAllowedError, got %v", err)
	}
	if len(tna.Rejected) != 1 || tna.Rejected[0] != "Visuel" {
		t.Fatalf("rejected: got %v, want [Visuel]", tna.Rejected)
	}
	if len(tna.Allowed) != 1 || tna.Allowed[0] != "Essai" {
		t.Fatalf("allowed: got %v, want [Essai]", tna.Allowed)
	}
}

func TestCreateEntriesRejectsDuplicateKey(t *testing.T) {
	svc, deps := newEntryService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "entry-dup")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation dup",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	existing := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Épaisseur", []string{"Géométrie"})

	// Different spelling, same request.
	_, err := svc.CreateEntries(ctx, []EntryCreateInput{{
		RoadSectionID: road.ID,
		RoadPhaseID:   phase.ID,
		Side:          domain.SideLeft,
		StartPK:       0,
		EndPK:         500,
		LayerName:     "COUCHE DE FONDATION",
		CheckName:     "epaisseur",
		Types:         []string{"Géométrie"},
	}})
	var dup *apperrors.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if dup.ExistingID != existing.ID {
		t.Fatalf("existing id: got %d, want %d", dup.ExistingID, existing.ID)
	}
}

func TestCreateEntriesRejectsInvalidRange(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	_, err := svc.CreateEntries(ctx, []EntryCreateInput{{
		RoadSectionID: uuid.New(),
		RoadPhaseID:   uuid.New(),
		Side:          domain.SideBoth,
		StartPK:       500,
		EndPK:         100,
		LayerName:     "Fondation",
		CheckName:     "Épaisseur",
	}})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateEntryAppliesPatch(t *testing.T) {
	svc, deps := newEntryService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "entry-patch")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation patch",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	row := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Épaisseur", []string{"Géométrie"})
	appt := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	updated, err := svc.UpdateEntry(ctx, row.ID, EntryUpdateInput{
		EndPK:           pointers.Float64(600),
		Remark:          pointers.String("repris après pluie"),
		AppointmentDate: pointers.Time(appt),
		SubmissionOrder: pointers.Int(3),
		Status:          pointers.String(domain.StatusScheduled),
		UpdatedBy:       "inspector-2",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.EndPK != 600 {
		t.Fatalf("end pk: got %v", updated.EndPK)
	}
	if updated.SubmissionOrder == nil || *updated.SubmissionOrder != 3 {
		t.Fatalf("submission order: got %v", updated.SubmissionOrder)
	}
	if updated.Remark != "repris après pluie" {
		t.Fatalf("remark: got %q", updated.Remark)
	}
	if updated.AppointmentDate == nil || !updated.AppointmentDate.Equal(appt) {
		t.Fatalf("appointment date: got %v", updated.AppointmentDate)
	}
	if updated.Status != domain.StatusScheduled {
		t.Fatalf("status: got %q", updated.Status)
	}
	if updated.UpdatedBy != "inspector-2" {
		t.Fatalf("updated by: got %q", updated.UpdatedBy)
	}

	cleared, err := svc.UpdateEntry(ctx, row.ID, EntryUpdateInput{ClearAppointmentDate: true})
	if err != nil {
		t.Fatalf("clear date: %v", err)
	}
	if cleared.AppointmentDate != nil {
		t.Fatalf("appointment date not cleared: %v", cleared.AppointmentDate)
	}
}

func TestUpdateEntryRevalidatesTypesOnCheckChange(t *testing.T) {
	svc, deps := newEntryService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "entry-recheck")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation recheck",
		[]string{"Fondation"}, []string{"Nivellement"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	// Visuel is fine under the ungoverned Nivellement, but re-pointing the
	// entry at Compactage (Essai only) must fail even though the patch
	// itself carries no types.
	row := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Nivellement", []string{"Visuel"})

	_, err := svc.UpdateEntry(ctx, row.ID, EntryUpdateInput{CheckName: pointers.String("Compactage")})
	var tna *apperrors.TypeNotAllowedError
	if !errors.As(err, &tna) {
		t.Fatalf("expected TypeNotAllowedError, got %v", err)
	}
	if len(tna.Rejected) != 1 || tna.Rejected[0] != "Visuel" {
		t.Fatalf("rejected: got %v, want [Visuel]", tna.Rejected)
	}
	if len(tna.Allowed) != 1 || tna.Allowed[0] != "Essai" {
		t.Fatalf("allowed: got %v, want [Essai]", tna.Allowed)
	}

	// Compatible retained types survive the same move.
	ok := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideRight, 0, 500,
		"Fondation", "Nivellement", []string{"Essai"})
	updated, err := svc.UpdateEntry(ctx, ok.ID, EntryUpdateInput{CheckName: pointers.String("Compactage")})
	if err != nil {
		t.Fatalf("compatible move: %v", err)
	}
	if updated.CheckName != "Compactage" {
		t.Fatalf("check name: got %q", updated.CheckName)
	}
	if types := domain.StringList(updated.Types); len(types) != 1 || types[0] != "Essai" {
		t.Fatalf("types: got %v, want [Essai]", types)
	}
}

func TestUpdateEntryRejectsKeyCollision(t *testing.T) {
	svc, deps := newEntryService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "entry-collide")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation collide",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	a := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Épaisseur", nil)
	b := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideRight, 0, 500,
		"Fondation", "Épaisseur", nil)

	_, err := svc.UpdateEntry(ctx, b.ID, EntryUpdateInput{Side: pointers.String(domain.SideLeft)})
	var dup *apperrors.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if dup.ExistingID != a.ID {
		t.Fatalf("existing id: got %d, want %d", dup.ExistingID, a.ID)
	}
}

func TestBulkEditEntries(t *testing.T) {
	svc, deps := newEntryService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "entry-bulk")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation bulk",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	a := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Épaisseur", nil)
	b := testutil.SeedEntry(t, ctx, deps.tx, road.ID, phase.ID, domain.SideLeft, 500, 900,
		"Fondation", "Épaisseur", nil)

	rows, err := svc.BulkEditEntries(ctx, BulkEditInput{
		IDs:   []int64{a.ID, b.ID},
		Patch: EntryUpdateInput{Status: pointers.String(domain.StatusSubmitted)},
	})
	if err != nil {
		t.Fatalf("bulk edit: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Status != domain.StatusSubmitted {
			t.Fatalf("entry %d status: got %q", row.ID, row.Status)
		}
	}

	_, err = svc.BulkEditEntries(ctx, BulkEditInput{
		IDs:   []int64{a.ID, 999999999},
		Patch: EntryUpdateInput{Status: pointers.String(domain.StatusApproved)},
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for missing id, got %v", err)
	}
}

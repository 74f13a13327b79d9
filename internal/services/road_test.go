package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/data/repos/testutil"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	apperrors "github.com/axiroad/roadworks-backend/internal/pkg/errors"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Rocade Nord RN-12", "rocade-nord-rn-12"},
		{"  Voie   Express  ", "voie-express"},
		{"Déviation d'Abidjan", "deviation-d-abidjan"},
		{"路段一", "路段一"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func newRoadService(t *testing.T) (RoadService, *gormDeps) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)

	dict := vocab.Default()
	roadRepo := repos.NewRoadSectionRepo(tx, logg)
	defRepo := repos.NewPhaseDefinitionRepo(tx, logg)
	phaseRepo := repos.NewRoadPhaseRepo(tx, logg)
	intervalRepo := repos.NewPhaseIntervalRepo(tx, logg)
	svc := NewRoadService(tx, logg, roadRepo, defRepo, phaseRepo, intervalRepo, dict)
	return svc, &gormDeps{tx: tx, phaseRepo: phaseRepo}
}

type gormDeps struct {
	tx        *gorm.DB
	phaseRepo repos.RoadPhaseRepo
}

func TestCreateRoadDerivesSlug(t *testing.T) {
	svc, _ := newRoadService(t)
	ctx := context.Background()

	road, err := svc.CreateRoad(ctx, RoadCreateInput{Name: "Rocade Nord Étape 1"})
	if err != nil {
		t.Fatalf("create road: %v", err)
	}
	if road.Slug != "rocade-nord-etape-1" {
		t.Fatalf("slug: got %q", road.Slug)
	}

	_, err = svc.CreateRoad(ctx, RoadCreateInput{Name: "Autre nom", Slug: "rocade-nord-etape-1"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error on slug reuse, got %v", err)
	}
}

func TestCreatePhaseCopiesTemplateDefaults(t *testing.T) {
	svc, deps := newRoadService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "road-phase-copy")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation copy",
		[]string{"couche de fondation", "couche de base"}, []string{"epaisseur", "compacité"})

	phase, err := svc.CreatePhase(ctx, road.ID, PhaseCreateInput{PhaseDefinitionID: def.ID})
	if err != nil {
		t.Fatalf("create phase: %v", err)
	}

	layerLinks, err := deps.phaseRepo.GetLayerLinksByPhaseIDs(ctx, nil, []uuid.UUID{phase.ID})
	if err != nil {
		t.Fatalf("load layer links: %v", err)
	}
	if len(layerLinks) != 2 || layerLinks[0].Name != "Fondation" || layerLinks[1].Name != "Base" {
		t.Fatalf("layer links: got %+v", layerLinks)
	}
	checkLinks, err := deps.phaseRepo.GetCheckLinksByPhaseIDs(ctx, nil, []uuid.UUID{phase.ID})
	if err != nil {
		t.Fatalf("load check links: %v", err)
	}
	if len(checkLinks) != 2 || checkLinks[0].Name != "Épaisseur" || checkLinks[1].Name != "Compactage" {
		t.Fatalf("check links: got %+v", checkLinks)
	}
}

func TestCreateIntervalValidatesAndCanonicalizes(t *testing.T) {
	svc, deps := newRoadService(t)
	ctx := context.Background()

	road := testutil.SeedRoadSection(t, ctx, deps.tx, "road-interval")
	def := testutil.SeedPhaseDefinition(t, ctx, deps.tx, "Couche de fondation interval",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, deps.tx, road.ID, def.ID)

	row, err := svc.CreateInterval(ctx, phase.ID, IntervalCreateInput{
		StartPK: 100,
		EndPK:   900,
		Layers:  []string{"couche de fondation"},
		Spec:    "  CBR >= 30  ",
	})
	if err != nil {
		t.Fatalf("create interval: %v", err)
	}
	if row.Side != domain.SideBoth {
		t.Fatalf("side default: got %q", row.Side)
	}
	if layers := domain.StringList(row.Layers); len(layers) != 1 || layers[0] != "Fondation" {
		t.Fatalf("layers: got %v", layers)
	}
	if row.Spec != "CBR >= 30" {
		t.Fatalf("spec: got %q", row.Spec)
	}

	_, err = svc.CreateInterval(ctx, phase.ID, IntervalCreateInput{StartPK: 900, EndPK: 100})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error on inverted range, got %v", err)
	}
}

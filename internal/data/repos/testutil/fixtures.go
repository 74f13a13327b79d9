package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/domain"
)

func SeedRoadSection(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *domain.RoadSection {
	tb.Helper()
	rs := &domain.RoadSection{
		ID:   uuid.New(),
		Name: "RN-" + slug,
		Slug: slug,
	}
	if err := tx.WithContext(ctx).Create(rs).Error; err != nil {
		tb.Fatalf("seed road section: %v", err)
	}
	return rs
}

func SeedPhaseDefinition(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, layers, checks []string) *domain.PhaseDefinition {
	tb.Helper()
	pd := &domain.PhaseDefinition{
		ID:            uuid.New(),
		Name:          name,
		Mode:          domain.ModeLinear,
		DefaultLayers: domain.JSONList(layers),
		DefaultChecks: domain.JSONList(checks),
	}
	if err := tx.WithContext(ctx).Create(pd).Error; err != nil {
		tb.Fatalf("seed phase definition: %v", err)
	}
	return pd
}

func SeedRoadPhase(tb testing.TB, ctx context.Context, tx *gorm.DB, roadID, defID uuid.UUID) *domain.RoadPhase {
	tb.Helper()
	rp := &domain.RoadPhase{
		ID:                uuid.New(),
		RoadSectionID:     roadID,
		PhaseDefinitionID: defID,
	}
	if err := tx.WithContext(ctx).Create(rp).Error; err != nil {
		tb.Fatalf("seed road phase: %v", err)
	}
	return rp
}

func SeedPhaseInterval(tb testing.TB, ctx context.Context, tx *gorm.DB, phaseID uuid.UUID, startPK, endPK float64, layers []string) *domain.PhaseInterval {
	tb.Helper()
	pi := &domain.PhaseInterval{
		ID:          uuid.New(),
		RoadPhaseID: phaseID,
		StartPK:     startPK,
		EndPK:       endPK,
		Side:        domain.SideBoth,
		Layers:      domain.JSONList(layers),
	}
	if err := tx.WithContext(ctx).Create(pi).Error; err != nil {
		tb.Fatalf("seed phase interval: %v", err)
	}
	return pi
}

func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, roadID, phaseID uuid.UUID, side string, startPK, endPK float64, layer, check string, types []string) *domain.InspectionEntry {
	tb.Helper()
	e := &domain.InspectionEntry{
		RoadSectionID: roadID,
		RoadPhaseID:   phaseID,
		Side:          side,
		StartPK:       startPK,
		EndPK:         endPK,
		LayerName:     layer,
		CheckName:     check,
		Types:         domain.JSONList(types),
		Status:        domain.StatusPending,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	return e
}

func SeedWorkflowTemplate(tb testing.TB, ctx context.Context, tx *gorm.DB, defID uuid.UUID, name string) *domain.WorkflowTemplate {
	tb.Helper()
	wt := &domain.WorkflowTemplate{
		ID:                uuid.New(),
		PhaseDefinitionID: defID,
		Name:              name,
		Active:            true,
	}
	if err := tx.WithContext(ctx).Omit("Layers").Create(wt).Error; err != nil {
		tb.Fatalf("seed workflow template: %v", err)
	}
	return wt
}

func SeedTemplateLayer(tb testing.TB, ctx context.Context, tx *gorm.DB, templateID uuid.UUID, sortIndex int, name string) *domain.TemplateLayer {
	tb.Helper()
	tl := &domain.TemplateLayer{
		ID:         uuid.New(),
		TemplateID: templateID,
		SortIndex:  sortIndex,
		Name:       name,
	}
	if err := tx.WithContext(ctx).Omit("Checks").Create(tl).Error; err != nil {
		tb.Fatalf("seed template layer: %v", err)
	}
	return tl
}

func SeedTemplateCheck(tb testing.TB, ctx context.Context, tx *gorm.DB, layerID uuid.UUID, sortIndex int, name string, allowedTypes []string) *domain.TemplateCheck {
	tb.Helper()
	tc := &domain.TemplateCheck{
		ID:              uuid.New(),
		TemplateLayerID: layerID,
		SortIndex:       sortIndex,
		Name:            name,
		AllowedTypes:    domain.JSONList(allowedTypes),
	}
	if err := tx.WithContext(ctx).Create(tc).Error; err != nil {
		tb.Fatalf("seed template check: %v", err)
	}
	return tc
}

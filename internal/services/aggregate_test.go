package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/data/repos/testutil"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
)

func entry(id int64, roadID, phaseID uuid.UUID, side string, startPK, endPK float64, layer, check string, types []string, updatedAt time.Time) *domain.InspectionEntry {
	return &domain.InspectionEntry{
		ID:            id,
		RoadSectionID: roadID,
		RoadPhaseID:   phaseID,
		Side:          side,
		StartPK:       startPK,
		EndPK:         endPK,
		LayerName:     layer,
		CheckName:     check,
		Types:         domain.JSONList(types),
		Status:        domain.StatusPending,
		UpdatedAt:     updatedAt,
	}
}

func TestGroupEntriesCollapsesChecksOnSameRange(t *testing.T) {
	dict := vocab.Default()
	roadID := uuid.New()
	phaseID := uuid.New()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	items := GroupEntries([]*domain.InspectionEntry{
		entry(1, roadID, phaseID, domain.SideLeft, 0, 500, "Fondation", "Épaisseur", []string{"Géométrie"}, at),
		entry(2, roadID, phaseID, domain.SideLeft, 0, 500, "couche de fondation", "Compactage", []string{"Essai"}, at),
	}, dict)

	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, []string{"Fondation"}, item.Layers)
	assert.Equal(t, []string{"Épaisseur", "Compactage"}, item.Checks)
	assert.Equal(t, []string{"Géométrie", "Essai"}, item.Types)
	assert.Equal(t, []int64{1, 2}, item.EntryIDs)
}

func TestGroupEntriesSeparatesDistinctRanges(t *testing.T) {
	dict := vocab.Default()
	roadID := uuid.New()
	phaseID := uuid.New()
	at := time.Now().UTC()

	items := GroupEntries([]*domain.InspectionEntry{
		entry(1, roadID, phaseID, domain.SideLeft, 0, 500, "Fondation", "Épaisseur", nil, at),
		entry(2, roadID, phaseID, domain.SideRight, 0, 500, "Fondation", "Épaisseur", nil, at),
		entry(3, roadID, phaseID, domain.SideLeft, 500, 900, "Fondation", "Épaisseur", nil, at),
	}, dict)

	require.Len(t, items, 3)
	// Group order follows input order.
	assert.Equal(t, []int64{1}, items[0].EntryIDs)
	assert.Equal(t, []int64{2}, items[1].EntryIDs)
	assert.Equal(t, []int64{3}, items[2].EntryIDs)
}

func TestGroupEntriesRepresentativeIsLatestUpdated(t *testing.T) {
	dict := vocab.Default()
	roadID := uuid.New()
	phaseID := uuid.New()
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	a := entry(1, roadID, phaseID, domain.SideBoth, 0, 100, "Fondation", "Épaisseur", nil, newer)
	a.Remark = "latest wins"
	a.Status = domain.StatusSubmitted
	b := entry(2, roadID, phaseID, domain.SideBoth, 0, 100, "Fondation", "Compactage", nil, older)
	b.Remark = "stale"

	items := GroupEntries([]*domain.InspectionEntry{a, b}, dict)
	require.Len(t, items, 1)
	assert.Equal(t, "latest wins", items[0].Remark)
	assert.Equal(t, domain.StatusSubmitted, items[0].Status)
	assert.Equal(t, newer, items[0].UpdatedAt)
}

func TestGroupEntriesRepresentativeTieBreaksOnHighestID(t *testing.T) {
	dict := vocab.Default()
	roadID := uuid.New()
	phaseID := uuid.New()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := entry(1, roadID, phaseID, domain.SideBoth, 0, 100, "Fondation", "Épaisseur", nil, at)
	a.Remark = "first"
	b := entry(2, roadID, phaseID, domain.SideBoth, 0, 100, "Fondation", "Compactage", nil, at)
	b.Remark = "second"

	items := GroupEntries([]*domain.InspectionEntry{a, b}, dict)
	require.Len(t, items, 1)
	assert.Equal(t, "second", items[0].Remark)
}

func TestGroupEntriesCanonicalizesAndDedupesVocab(t *testing.T) {
	dict := vocab.Default()
	roadID := uuid.New()
	phaseID := uuid.New()
	at := time.Now().UTC()

	items := GroupEntries([]*domain.InspectionEntry{
		entry(1, roadID, phaseID, domain.SideBoth, 0, 100, "基层", "epaisseur", []string{"essais"}, at),
		entry(2, roadID, phaseID, domain.SideBoth, 0, 100, "FONDATION", "厚度", []string{"Essai", "visuelle"}, at),
	}, dict)

	require.Len(t, items, 1)
	assert.Equal(t, []string{"Fondation"}, items[0].Layers)
	assert.Equal(t, []string{"Épaisseur"}, items[0].Checks)
	assert.Equal(t, []string{"Essai", "Visuel"}, items[0].Types)
}

func TestGroupEntriesEmptyInput(t *testing.T) {
	items := GroupEntries(nil, vocab.Default())
	assert.Empty(t, items)
}

func TestAggregateByFilterDoesNotMutateEntries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)
	ctx := context.Background()

	dict := vocab.Default()
	entryRepo := repos.NewInspectionEntryRepo(tx, logg)
	svc := NewAggregateService(tx, logg, entryRepo, dict, nil)

	road := testutil.SeedRoadSection(t, ctx, tx, "agg-readonly")
	def := testutil.SeedPhaseDefinition(t, ctx, tx, "Couche de fondation agg",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, tx, road.ID, def.ID)

	// Raw spellings stay raw in the store; only the report output is
	// canonicalized.
	testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"couche de fondation", "epaisseur", []string{"geometrie"})
	testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Compactage", []string{"Essai"})

	before, err := entryRepo.GetAll(ctx, nil)
	require.NoError(t, err)

	result, err := svc.ByFilter(ctx, ListFilter{RoadPhaseID: &phase.ID})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, []string{"Fondation"}, result.Items[0].Layers)
	assert.Equal(t, []string{"Épaisseur", "Compactage"}, result.Items[0].Checks)

	after, err := entryRepo.GetAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].LayerName, after[i].LayerName)
		assert.Equal(t, before[i].CheckName, after[i].CheckName)
		assert.Equal(t, string(before[i].Types), string(after[i].Types))
		assert.Equal(t, before[i].Status, after[i].Status)
		assert.Equal(t, before[i].Remark, after[i].Remark)
		assert.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt))
	}
	assert.Equal(t, "couche de fondation", after[0].LayerName)
}

func TestAggregateByIDsFollowsRequestedOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)
	ctx := context.Background()

	dict := vocab.Default()
	entryRepo := repos.NewInspectionEntryRepo(tx, logg)
	svc := NewAggregateService(tx, logg, entryRepo, dict, nil)

	road := testutil.SeedRoadSection(t, ctx, tx, "agg-order")
	def := testutil.SeedPhaseDefinition(t, ctx, tx, "Couche de fondation order",
		[]string{"Fondation"}, []string{"Épaisseur"})
	phase := testutil.SeedRoadPhase(t, ctx, tx, road.ID, def.ID)

	a := testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideLeft, 0, 500,
		"Fondation", "Épaisseur", nil)
	b := testutil.SeedEntry(t, ctx, tx, road.ID, phase.ID, domain.SideLeft, 500, 900,
		"Fondation", "Épaisseur", nil)

	result, err := svc.ByIDs(ctx, []int64{b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, []int64{b.ID}, result.Items[0].EntryIDs)
	assert.Equal(t, []int64{a.ID}, result.Items[1].EntryIDs)
}

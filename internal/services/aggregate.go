package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rediscache "github.com/axiroad/roadworks-backend/internal/clients/redis"
	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

// ListItem is one "nature of work" display row: every check requested on
// one PK range/side collapsed together, ready for the report renderer.
// Array ordering is first-seen, not alphabetical; renderers rely on it.
type ListItem struct {
	RoadSectionID   uuid.UUID  `json:"road_section_id"`
	RoadPhaseID     uuid.UUID  `json:"road_phase_id"`
	Side            string     `json:"side"`
	StartPK         float64    `json:"start_pk"`
	EndPK           float64    `json:"end_pk"`
	Layers          []string   `json:"layers"`
	Checks          []string   `json:"checks"`
	Types           []string   `json:"types"`
	EntryIDs        []int64    `json:"entry_ids"`
	Status          string     `json:"status"`
	Remark          string     `json:"remark,omitempty"`
	AppointmentDate *time.Time `json:"appointment_date,omitempty"`
	SubmissionOrder *int       `json:"submission_order,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	SubmittedBy     string     `json:"submitted_by,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
	UpdatedBy       string     `json:"updated_by,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AggregateResult struct {
	Items    []ListItem `json:"items"`
	PageInfo PageInfo   `json:"page_info"`
}

// AggregateService groups entries into report line items. It performs no
// writes and is safe to call concurrently; entries vanishing mid-read (a
// merge racing us) just fall out of the snapshot.
type AggregateService interface {
	ByIDs(ctx context.Context, ids []int64) (*AggregateResult, error)
	ByFilter(ctx context.Context, filter ListFilter) (*AggregateResult, error)
}

type aggregateService struct {
	db        *gorm.DB
	log       *logger.Logger
	entryRepo repos.InspectionEntryRepo
	dict      *vocab.Dictionary
	cache     rediscache.ReportCache
	cacheTTL  time.Duration
}

// NewAggregateService accepts a nil cache; caching is an optimization,
// never a dependency.
func NewAggregateService(db *gorm.DB, baseLog *logger.Logger, entryRepo repos.InspectionEntryRepo, dict *vocab.Dictionary, cache rediscache.ReportCache) AggregateService {
	return &aggregateService{
		db:        db,
		log:       baseLog.With("service", "AggregateService"),
		entryRepo: entryRepo,
		dict:      dict,
		cache:     cache,
		cacheTTL:  30 * time.Second,
	}
}

func (s *aggregateService) ByIDs(ctx context.Context, ids []int64) (*AggregateResult, error) {
	rows, err := s.entryRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	// The id list is the caller's requested order; group order follows it,
	// not the store's id-ascending fetch order.
	byID := make(map[int64]*domain.InspectionEntry, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]*domain.InspectionEntry, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
			delete(byID, id)
		}
	}

	items := GroupEntries(ordered, s.dict)
	return &AggregateResult{
		Items:    items,
		PageInfo: PageInfo{Total: int64(len(items))},
	}, nil
}

func (s *aggregateService) ByFilter(ctx context.Context, filter ListFilter) (*AggregateResult, error) {
	cacheKey := s.filterCacheKey(filter)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, cacheKey); ok {
			var cached AggregateResult
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	rows, total, err := s.entryRepo.Find(ctx, nil, repos.EntryFilter{
		IDs:           filter.IDs,
		RoadSectionID: filter.RoadSectionID,
		RoadPhaseID:   filter.RoadPhaseID,
		Status:        filter.Status,
		CreatedFrom:   filter.CreatedFrom,
		CreatedTo:     filter.CreatedTo,
		Keyword:       filter.Keyword,
		SortBy:        filter.SortBy,
		SortDesc:      filter.SortDesc,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	})
	if err != nil {
		return nil, err
	}

	result := &AggregateResult{
		Items:    GroupEntries(rows, s.dict),
		PageInfo: PageInfo{Total: total, Limit: filter.Limit, Offset: filter.Offset},
	}

	if s.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, cacheKey, raw, s.cacheTTL)
		}
	}
	return result, nil
}

func (s *aggregateService) filterCacheKey(filter ListFilter) string {
	raw, _ := json.Marshal(filter)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("report:items:%s", hex.EncodeToString(sum[:16]))
}

// reportKey is the aggregation grouping key: coarser than the dedup key,
// so distinct checks on one layer collapse into a single display row.
type reportKey struct {
	roadSectionID uuid.UUID
	roadPhaseID   uuid.UUID
	side          string
	startPK       float64
	endPK         float64
}

// GroupEntries folds fetched entries into list items. Input order is the
// caller's requested sort order and is preserved at the group level. The
// representative member for metadata fields is the most recently updated
// entry, ties broken by highest id.
func GroupEntries(entries []*domain.InspectionEntry, dict *vocab.Dictionary) []ListItem {
	order := make([]reportKey, 0, len(entries))
	grouped := make(map[reportKey][]*domain.InspectionEntry, len(entries))
	for _, e := range entries {
		key := reportKey{
			roadSectionID: e.RoadSectionID,
			roadPhaseID:   e.RoadPhaseID,
			side:          e.Side,
			startPK:       e.StartPK,
			endPK:         e.EndPK,
		}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], e)
	}

	items := make([]ListItem, 0, len(order))
	for _, key := range order {
		group := grouped[key]

		var layers, checks, types []string
		ids := make([]int64, 0, len(group))
		rep := group[0]
		for _, e := range group {
			layers = append(layers, e.LayerName)
			checks = append(checks, e.CheckName)
			types = append(types, domain.StringList(e.Types)...)
			ids = append(ids, e.ID)
			if e.UpdatedAt.After(rep.UpdatedAt) ||
				(e.UpdatedAt.Equal(rep.UpdatedAt) && e.ID > rep.ID) {
				rep = e
			}
		}

		items = append(items, ListItem{
			RoadSectionID:   key.roadSectionID,
			RoadPhaseID:     key.roadPhaseID,
			Side:            key.side,
			StartPK:         key.startPK,
			EndPK:           key.endPK,
			Layers:          dict.Canonicalize(vocab.KindLayer, layers),
			Checks:          dict.Canonicalize(vocab.KindCheck, checks),
			Types:           dict.Canonicalize(vocab.KindType, types),
			EntryIDs:        ids,
			Status:          rep.Status,
			Remark:          rep.Remark,
			AppointmentDate: rep.AppointmentDate,
			SubmissionOrder: rep.SubmissionOrder,
			SubmittedAt:     rep.SubmittedAt,
			SubmittedBy:     rep.SubmittedBy,
			CreatedBy:       rep.CreatedBy,
			UpdatedBy:       rep.UpdatedBy,
			UpdatedAt:       rep.UpdatedAt,
		})
	}
	return items
}

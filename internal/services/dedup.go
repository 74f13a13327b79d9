package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/mergepol"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	"github.com/axiroad/roadworks-backend/internal/pkg/ctxutil"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

// GroupFailure records one duplicate group whose merge transaction failed.
// Failures are isolated: sibling groups still get processed.
type GroupFailure struct {
	KeeperID int64  `json:"keeper_id"`
	Members  int    `json:"members"`
	Error    string `json:"error"`
}

type MergeReport struct {
	Scanned        int            `json:"scanned"`
	Normalized     int            `json:"normalized"`
	Groups         int            `json:"groups"`
	Merged         int            `json:"merged"`
	EntriesDeleted int            `json:"entries_deleted"`
	Failures       []GroupFailure `json:"failures,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
}

// DedupService collapses inspection entries that describe the same
// physical work item into one surviving row. Safe to re-run: a second
// pass with no intervening writes finds nothing to merge.
type DedupService interface {
	Run(ctx context.Context) (*MergeReport, error)
}

type dedupService struct {
	db        *gorm.DB
	log       *logger.Logger
	entryRepo repos.InspectionEntryRepo
	dict      *vocab.Dictionary
	templates TemplateService
	// workers bounds how many group merges run at once.
	workers int
}

func NewDedupService(db *gorm.DB, baseLog *logger.Logger, entryRepo repos.InspectionEntryRepo, dict *vocab.Dictionary, templates TemplateService) DedupService {
	return &dedupService{
		db:        db,
		log:       baseLog.With("service", "DedupService"),
		entryRepo: entryRepo,
		dict:      dict,
		templates: templates,
		workers:   4,
	}
}

func (s *dedupService) Run(ctx context.Context) (*MergeReport, error) {
	ctx = ctxutil.Default(ctx)
	report := &MergeReport{StartedAt: time.Now().UTC()}

	entries, err := s.entryRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	report.Scanned = len(entries)

	normalized, err := s.normalizePass(ctx, entries)
	if err != nil {
		return nil, err
	}
	report.Normalized = normalized

	groups := s.groupByKey(entries)
	report.Groups = len(groups)

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for i := range groups {
		group := groups[i]
		eg.Go(func() error {
			deleted, err := s.mergeGroup(egCtx, group)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, GroupFailure{
					KeeperID: group[0].ID,
					Members:  len(group),
					Error:    err.Error(),
				})
				// A group failure never aborts siblings.
				return nil
			}
			report.Merged++
			report.EntriesDeleted += deleted
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].KeeperID < report.Failures[j].KeeperID
	})
	report.FinishedAt = time.Now().UTC()
	s.log.Info("Dedup pass finished",
		"scanned", report.Scanned,
		"normalized", report.Normalized,
		"groups", report.Groups,
		"merged", report.Merged,
		"deleted", report.EntriesDeleted,
		"failures", len(report.Failures))
	return report, nil
}

// normalizePass re-canonicalizes names and re-clamps types in place. The
// dictionary may have grown since an entry was created, so this runs on
// every pass, not just once.
func (s *dedupService) normalizePass(ctx context.Context, entries []*domain.InspectionEntry) (int, error) {
	resolver := s.templates.Resolver()
	changed := 0
	for _, e := range entries {
		layer := s.dict.Canonical(vocab.KindLayer, e.LayerName)
		check := s.dict.Canonical(vocab.KindCheck, e.CheckName)
		types := resolver.ClampTypes(check, domain.StringList(e.Types))

		if layer == e.LayerName && check == e.CheckName && equalStrings(types, domain.StringList(e.Types)) {
			continue
		}
		updates := map[string]interface{}{
			"layer_name": layer,
			"check_name": check,
			"types":      domain.JSONList(types),
		}
		if err := s.entryRepo.UpdateFields(ctx, nil, e.ID, updates); err != nil {
			return changed, fmt.Errorf("normalize entry %d: %w", e.ID, err)
		}
		e.LayerName = layer
		e.CheckName = check
		e.Types = domain.JSONList(types)
		changed++
	}
	return changed, nil
}

// groupByKey buckets entries by natural key and returns only groups that
// need merging, each sorted by id ascending (smallest id is the keeper).
// Group order follows the keeper id so reports are deterministic.
func (s *dedupService) groupByKey(entries []*domain.InspectionEntry) [][]*domain.InspectionEntry {
	byKey := make(map[repos.EntryKey][]*domain.InspectionEntry)
	for _, e := range entries {
		key := repos.EntryKey{
			RoadSectionID: e.RoadSectionID,
			RoadPhaseID:   e.RoadPhaseID,
			Side:          e.Side,
			StartPK:       e.StartPK,
			EndPK:         e.EndPK,
			LayerKey:      vocab.NormKey(e.LayerName),
			CheckKey:      vocab.NormKey(e.CheckName),
		}
		byKey[key] = append(byKey[key], e)
	}

	var groups [][]*domain.InspectionEntry
	for _, group := range byKey {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0].ID < groups[j][0].ID })
	return groups
}

// mergeGroup collapses one duplicate group in a single transaction:
// keeper updated and sources deleted together, or neither.
func (s *dedupService) mergeGroup(ctx context.Context, group []*domain.InspectionEntry) (int, error) {
	keeper := group[0]
	sources := group[1:]
	resolver := s.templates.Resolver()

	finalTypes := domain.StringList(keeper.Types)
	for _, src := range sources {
		finalTypes = resolver.MergeTypes(keeper.CheckName, finalTypes, domain.StringList(src.Types))
	}
	// The authoritative set always wins over merge history.
	if governing := resolver.AllowedTypes(keeper.CheckName); governing != nil {
		finalTypes = governing
	}

	remarks := make([]string, 0, len(group))
	dates := make([]*time.Time, 0, len(group))
	orders := make([]*int, 0, len(group))
	sourceIDs := make([]int64, 0, len(sources))
	for _, e := range group {
		remarks = append(remarks, e.Remark)
		dates = append(dates, e.AppointmentDate)
		orders = append(orders, e.SubmissionOrder)
	}
	for _, src := range sources {
		sourceIDs = append(sourceIDs, src.ID)
	}

	updates := map[string]interface{}{
		"types":            domain.JSONList(finalTypes),
		"remark":           mergepol.FirstNonEmptyRemark(remarks),
		"appointment_date": mergepol.FirstValidDate(dates),
		"submission_order": mergepol.FirstSubmissionOrder(orders),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.entryRepo.UpdateFields(ctx, tx, keeper.ID, updates); err != nil {
			return err
		}
		return s.entryRepo.DeleteByIDs(ctx, tx, sourceIDs)
	})
	if err != nil {
		return 0, err
	}
	return len(sourceIDs), nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

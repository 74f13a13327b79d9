package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	apperrors "github.com/axiroad/roadworks-backend/internal/pkg/errors"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type EntryCreateInput struct {
	RoadSectionID   uuid.UUID
	RoadPhaseID     uuid.UUID
	Side            string
	StartPK         float64
	EndPK           float64
	LayerName       string
	CheckName       string
	Types           []string
	Remark          string
	AppointmentDate *time.Time
	SubmissionOrder *int
	CreatedBy       string
}

// EntryUpdateInput is a patch: nil pointer fields stay untouched.
type EntryUpdateInput struct {
	Side                 *string
	StartPK              *float64
	EndPK                *float64
	LayerName            *string
	CheckName            *string
	Types                []string
	Remark               *string
	AppointmentDate      *time.Time
	ClearAppointmentDate bool
	SubmissionOrder      *int
	Status               *string
	UpdatedBy            string
}

// BulkEditInput applies one patch to many entries.
type BulkEditInput struct {
	IDs   []int64
	Patch EntryUpdateInput
}

type ListFilter struct {
	IDs           []int64
	RoadSectionID *uuid.UUID
	RoadPhaseID   *uuid.UUID
	Status        *string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Keyword       string
	SortBy        string
	SortDesc      bool
	Limit         int
	Offset        int
}

type PageInfo struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type EntryService interface {
	CreateEntries(ctx context.Context, inputs []EntryCreateInput) ([]*domain.InspectionEntry, error)
	UpdateEntry(ctx context.Context, id int64, patch EntryUpdateInput) (*domain.InspectionEntry, error)
	BulkEditEntries(ctx context.Context, input BulkEditInput) ([]*domain.InspectionEntry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]*domain.InspectionEntry, *PageInfo, error)
	DeleteEntries(ctx context.Context, ids []int64) error
}

type entryService struct {
	db        *gorm.DB
	log       *logger.Logger
	entryRepo repos.InspectionEntryRepo
	dict      *vocab.Dictionary
	templates TemplateService
}

func NewEntryService(db *gorm.DB, baseLog *logger.Logger, entryRepo repos.InspectionEntryRepo, dict *vocab.Dictionary, templates TemplateService) EntryService {
	return &entryService{
		db:        db,
		log:       baseLog.With("service", "EntryService"),
		entryRepo: entryRepo,
		dict:      dict,
		templates: templates,
	}
}

// ValidatePKRange rejects negative or inverted PK bounds.
func ValidatePKRange(startPK, endPK float64) error {
	if startPK < 0 || endPK < 0 {
		return apperrors.NewValidation("pk range", "PK values must be >= 0")
	}
	if endPK < startPK {
		return apperrors.NewValidation("pk range", "endPk must be >= startPk")
	}
	return nil
}

func (s *entryService) normalizeInput(in *EntryCreateInput) (repos.EntryKey, error) {
	if err := ValidatePKRange(in.StartPK, in.EndPK); err != nil {
		return repos.EntryKey{}, err
	}
	if !domain.ValidSide(in.Side) {
		return repos.EntryKey{}, apperrors.NewValidation("side", "must be LEFT, RIGHT or BOTH")
	}

	layers := s.dict.Canonicalize(vocab.KindLayer, []string{in.LayerName})
	if len(layers) == 0 {
		return repos.EntryKey{}, apperrors.NewValidation("layerName", "required")
	}
	checks := s.dict.Canonicalize(vocab.KindCheck, []string{in.CheckName})
	if len(checks) == 0 {
		return repos.EntryKey{}, apperrors.NewValidation("checkName", "required")
	}
	in.LayerName = layers[0]
	in.CheckName = checks[0]

	resolver := s.templates.Resolver()
	requested := s.dict.Canonicalize(vocab.KindType, in.Types)
	clamped := resolver.ClampTypes(in.CheckName, requested)
	if len(clamped) != len(requested) {
		rejected := diffTypes(requested, clamped)
		return repos.EntryKey{}, &apperrors.TypeNotAllowedError{
			CheckName: in.CheckName,
			Rejected:  rejected,
			Allowed:   resolver.AllowedTypes(in.CheckName),
		}
	}
	in.Types = clamped

	return repos.EntryKey{
		RoadSectionID: in.RoadSectionID,
		RoadPhaseID:   in.RoadPhaseID,
		Side:          in.Side,
		StartPK:       in.StartPK,
		EndPK:         in.EndPK,
		LayerKey:      vocab.NormKey(in.LayerName),
		CheckKey:      vocab.NormKey(in.CheckName),
	}, nil
}

func diffTypes(requested, kept []string) []string {
	keptKeys := make(map[string]bool, len(kept))
	for _, t := range kept {
		keptKeys[vocab.NormKey(t)] = true
	}
	var out []string
	for _, t := range requested {
		if !keptKeys[vocab.NormKey(t)] {
			out = append(out, t)
		}
	}
	return out
}

func (s *entryService) CreateEntries(ctx context.Context, inputs []EntryCreateInput) ([]*domain.InspectionEntry, error) {
	if len(inputs) == 0 {
		return []*domain.InspectionEntry{}, nil
	}

	rows := make([]*domain.InspectionEntry, 0, len(inputs))
	seen := make(map[repos.EntryKey]bool, len(inputs))
	for i := range inputs {
		in := inputs[i]
		key, err := s.normalizeInput(&in)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, &apperrors.DuplicateKeyError{}
		}
		seen[key] = true

		existing, err := s.entryRepo.FindByNaturalKey(ctx, nil, key, 0)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &apperrors.DuplicateKeyError{ExistingID: existing.ID}
		}

		rows = append(rows, &domain.InspectionEntry{
			RoadSectionID:   in.RoadSectionID,
			RoadPhaseID:     in.RoadPhaseID,
			Side:            in.Side,
			StartPK:         in.StartPK,
			EndPK:           in.EndPK,
			LayerName:       in.LayerName,
			CheckName:       in.CheckName,
			Types:           domain.JSONList(in.Types),
			Status:          domain.StatusPending,
			Remark:          in.Remark,
			AppointmentDate: in.AppointmentDate,
			SubmissionOrder: in.SubmissionOrder,
			CreatedBy:       in.CreatedBy,
			UpdatedBy:       in.CreatedBy,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.entryRepo.Create(ctx, tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Entries created", "count", len(rows))
	return rows, nil
}

func (s *entryService) applyPatch(ctx context.Context, tx *gorm.DB, row *domain.InspectionEntry, patch EntryUpdateInput) error {
	keyChanged := false
	checkChanged := false

	if patch.Side != nil {
		row.Side = *patch.Side
		keyChanged = true
	}
	if patch.StartPK != nil {
		row.StartPK = *patch.StartPK
		keyChanged = true
	}
	if patch.EndPK != nil {
		row.EndPK = *patch.EndPK
		keyChanged = true
	}
	if patch.LayerName != nil {
		row.LayerName = *patch.LayerName
		keyChanged = true
	}
	if patch.CheckName != nil {
		row.CheckName = *patch.CheckName
		keyChanged = true
		checkChanged = true
	}

	if err := ValidatePKRange(row.StartPK, row.EndPK); err != nil {
		return err
	}
	if !domain.ValidSide(row.Side) {
		return apperrors.NewValidation("side", "must be LEFT, RIGHT or BOTH")
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return apperrors.NewValidation("status", "unknown status")
		}
		row.Status = *patch.Status
	}

	layers := s.dict.Canonicalize(vocab.KindLayer, []string{row.LayerName})
	if len(layers) == 0 {
		return apperrors.NewValidation("layerName", "required")
	}
	checks := s.dict.Canonicalize(vocab.KindCheck, []string{row.CheckName})
	if len(checks) == 0 {
		return apperrors.NewValidation("checkName", "required")
	}
	row.LayerName = layers[0]
	row.CheckName = checks[0]

	resolver := s.templates.Resolver()
	if patch.Types != nil {
		requested := s.dict.Canonicalize(vocab.KindType, patch.Types)
		clamped := resolver.ClampTypes(row.CheckName, requested)
		if len(clamped) != len(requested) {
			return &apperrors.TypeNotAllowedError{
				CheckName: row.CheckName,
				Rejected:  diffTypes(requested, clamped),
				Allowed:   resolver.AllowedTypes(row.CheckName),
			}
		}
		row.Types = domain.JSONList(clamped)
	} else if checkChanged {
		// Re-pointing an entry at a governed check must not smuggle the
		// old types along; retained types face the new governing set.
		current := s.dict.Canonicalize(vocab.KindType, domain.StringList(row.Types))
		clamped := resolver.ClampTypes(row.CheckName, current)
		if len(clamped) != len(current) {
			return &apperrors.TypeNotAllowedError{
				CheckName: row.CheckName,
				Rejected:  diffTypes(current, clamped),
				Allowed:   resolver.AllowedTypes(row.CheckName),
			}
		}
		row.Types = domain.JSONList(current)
	}

	if patch.Remark != nil {
		row.Remark = *patch.Remark
	}
	if patch.ClearAppointmentDate {
		row.AppointmentDate = nil
	} else if patch.AppointmentDate != nil {
		row.AppointmentDate = patch.AppointmentDate
	}
	if patch.SubmissionOrder != nil {
		row.SubmissionOrder = patch.SubmissionOrder
	}
	if patch.UpdatedBy != "" {
		row.UpdatedBy = patch.UpdatedBy
	}
	row.UpdatedAt = time.Now().UTC()

	if keyChanged {
		key := repos.EntryKey{
			RoadSectionID: row.RoadSectionID,
			RoadPhaseID:   row.RoadPhaseID,
			Side:          row.Side,
			StartPK:       row.StartPK,
			EndPK:         row.EndPK,
			LayerKey:      vocab.NormKey(row.LayerName),
			CheckKey:      vocab.NormKey(row.CheckName),
		}
		existing, err := s.entryRepo.FindByNaturalKey(ctx, tx, key, row.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &apperrors.DuplicateKeyError{ExistingID: existing.ID}
		}
	}
	return nil
}

func (s *entryService) UpdateEntry(ctx context.Context, id int64, patch EntryUpdateInput) (*domain.InspectionEntry, error) {
	var updated *domain.InspectionEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.entryRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return apperrors.ErrNotFound
		}
		if err := s.applyPatch(ctx, tx, row, patch); err != nil {
			return err
		}
		if err := s.entryRepo.Update(ctx, tx, row); err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *entryService) BulkEditEntries(ctx context.Context, input BulkEditInput) ([]*domain.InspectionEntry, error) {
	if len(input.IDs) == 0 {
		return []*domain.InspectionEntry{}, nil
	}
	var updated []*domain.InspectionEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.entryRepo.GetByIDs(ctx, tx, input.IDs)
		if err != nil {
			return err
		}
		if len(rows) != len(input.IDs) {
			return apperrors.ErrNotFound
		}
		for _, row := range rows {
			if err := s.applyPatch(ctx, tx, row, input.Patch); err != nil {
				return err
			}
			if err := s.entryRepo.Update(ctx, tx, row); err != nil {
				return err
			}
		}
		updated = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Bulk edit applied", "count", len(updated))
	return updated, nil
}

func (s *entryService) ListEntries(ctx context.Context, filter ListFilter) ([]*domain.InspectionEntry, *PageInfo, error) {
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
		return nil, nil, err
	}
	return rows, &PageInfo{Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *entryService) DeleteEntries(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.entryRepo.DeleteByIDs(ctx, tx, ids)
	})
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type RoadPhaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.RoadPhase) ([]*domain.RoadPhase, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RoadPhase, error)
	GetByRoadSectionIDs(ctx context.Context, tx *gorm.DB, roadIDs []uuid.UUID) ([]*domain.RoadPhase, error)
	// GetAllWithDefinitions preloads PhaseDefinition for every phase; the
	// auditor walks this to compare instances against their templates.
	GetAllWithDefinitions(ctx context.Context, tx *gorm.DB) ([]*domain.RoadPhase, error)

	CreateLayerLinks(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseLayerLink) ([]*domain.PhaseLayerLink, error)
	CreateCheckLinks(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseCheckLink) ([]*domain.PhaseCheckLink, error)
	GetLayerLinksByPhaseIDs(ctx context.Context, tx *gorm.DB, phaseIDs []uuid.UUID) ([]*domain.PhaseLayerLink, error)
	GetCheckLinksByPhaseIDs(ctx context.Context, tx *gorm.DB, phaseIDs []uuid.UUID) ([]*domain.PhaseCheckLink, error)
}

type roadPhaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadPhaseRepo(db *gorm.DB, baseLog *logger.Logger) RoadPhaseRepo {
	return &roadPhaseRepo{db: db, log: baseLog.With("repo", "RoadPhaseRepo")}
}

func (r *roadPhaseRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.RoadPhase) ([]*domain.RoadPhase, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.RoadPhase{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *roadPhaseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RoadPhase, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.RoadPhase
	if err := t.WithContext(ctx).
		Where("id = ?", id).
		Preload("PhaseDefinition").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *roadPhaseRepo) GetByRoadSectionIDs(ctx context.Context, tx *gorm.DB, roadIDs []uuid.UUID) ([]*domain.RoadPhase, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.RoadPhase
	if len(roadIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("road_section_id IN ?", roadIDs).
		Preload("PhaseDefinition").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roadPhaseRepo) GetAllWithDefinitions(ctx context.Context, tx *gorm.DB) ([]*domain.RoadPhase, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.RoadPhase
	if err := t.WithContext(ctx).
		Preload("PhaseDefinition").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roadPhaseRepo) CreateLayerLinks(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseLayerLink) ([]*domain.PhaseLayerLink, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.PhaseLayerLink{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *roadPhaseRepo) CreateCheckLinks(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseCheckLink) ([]*domain.PhaseCheckLink, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.PhaseCheckLink{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *roadPhaseRepo) GetLayerLinksByPhaseIDs(ctx context.Context, tx *gorm.DB, phaseIDs []uuid.UUID) ([]*domain.PhaseLayerLink, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.PhaseLayerLink
	if len(phaseIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("road_phase_id IN ?", phaseIDs).
		Order("road_phase_id ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roadPhaseRepo) GetCheckLinksByPhaseIDs(ctx context.Context, tx *gorm.DB, phaseIDs []uuid.UUID) ([]*domain.PhaseCheckLink, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.PhaseCheckLink
	if len(phaseIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("road_phase_id IN ?", phaseIDs).
		Order("road_phase_id ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

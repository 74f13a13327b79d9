package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type PhaseIntervalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseInterval) ([]*domain.PhaseInterval, error)
	GetByPhaseIDs(ctx context.Context, tx *gorm.DB, phaseIDs []uuid.UUID) ([]*domain.PhaseInterval, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.PhaseInterval, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.PhaseInterval) error
}

type phaseIntervalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhaseIntervalRepo(db *gorm.DB, baseLog *logger.Logger) PhaseIntervalRepo {
	return &phaseIntervalRepo{db: db, log: baseLog.With("repo", "PhaseIntervalRepo")}
}

func (r *phaseIntervalRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseInterval) ([]*domain.PhaseInterval, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.PhaseInterval{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *phaseIntervalRepo) GetByPhaseIDs(ctx context.Context, tx *gorm.DB, phaseIDs []uuid.UUID) ([]*domain.PhaseInterval, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.PhaseInterval
	if len(phaseIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("road_phase_id IN ?", phaseIDs).
		Order("start_pk ASC, end_pk ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phaseIntervalRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.PhaseInterval, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.PhaseInterval
	if err := t.WithContext(ctx).
		Order("road_phase_id ASC, start_pk ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phaseIntervalRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.PhaseInterval) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Save(row).Error
}

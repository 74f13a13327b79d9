package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type PhaseDefinitionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseDefinition) ([]*domain.PhaseDefinition, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.PhaseDefinition, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.PhaseDefinition, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.PhaseDefinition, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.PhaseDefinition) error
}

type phaseDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhaseDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) PhaseDefinitionRepo {
	return &phaseDefinitionRepo{db: db, log: baseLog.With("repo", "PhaseDefinitionRepo")}
}

func (r *phaseDefinitionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.PhaseDefinition) ([]*domain.PhaseDefinition, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.PhaseDefinition{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *phaseDefinitionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.PhaseDefinition, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.PhaseDefinition
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phaseDefinitionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.PhaseDefinition, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *phaseDefinitionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.PhaseDefinition, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.PhaseDefinition
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phaseDefinitionRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.PhaseDefinition) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Save(row).Error
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type RoadSectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.RoadSection) ([]*domain.RoadSection, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RoadSection, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.RoadSection, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.RoadSection, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.RoadSection) error
}

type roadSectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadSectionRepo(db *gorm.DB, baseLog *logger.Logger) RoadSectionRepo {
	return &roadSectionRepo{db: db, log: baseLog.With("repo", "RoadSectionRepo")}
}

func (r *roadSectionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.RoadSection) ([]*domain.RoadSection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.RoadSection{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *roadSectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RoadSection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.RoadSection
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *roadSectionRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.RoadSection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var out []*domain.RoadSection
	if err := t.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *roadSectionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.RoadSection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.RoadSection
	if err := t.WithContext(ctx).Order("slug ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roadSectionRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.RoadSection) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Save(row).Error
}

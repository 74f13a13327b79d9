package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type WorkflowTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.WorkflowTemplate) ([]*domain.WorkflowTemplate, error)
	CreateLayers(ctx context.Context, tx *gorm.DB, rows []*domain.TemplateLayer) ([]*domain.TemplateLayer, error)
	CreateChecks(ctx context.Context, tx *gorm.DB, rows []*domain.TemplateCheck) ([]*domain.TemplateCheck, error)
	// GetActiveWithStructure loads every active template with its layers and
	// checks preloaded in sort order. This is the resolver's template feed.
	GetActiveWithStructure(ctx context.Context, tx *gorm.DB) ([]*domain.WorkflowTemplate, error)
	GetByPhaseDefinitionIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.WorkflowTemplate, error)
}

type workflowTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkflowTemplateRepo(db *gorm.DB, baseLog *logger.Logger) WorkflowTemplateRepo {
	return &workflowTemplateRepo{db: db, log: baseLog.With("repo", "WorkflowTemplateRepo")}
}

func (r *workflowTemplateRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.WorkflowTemplate) ([]*domain.WorkflowTemplate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.WorkflowTemplate{}, nil
	}
	if err := t.WithContext(ctx).Omit("Layers").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workflowTemplateRepo) CreateLayers(ctx context.Context, tx *gorm.DB, rows []*domain.TemplateLayer) ([]*domain.TemplateLayer, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.TemplateLayer{}, nil
	}
	if err := t.WithContext(ctx).Omit("Checks").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workflowTemplateRepo) CreateChecks(ctx context.Context, tx *gorm.DB, rows []*domain.TemplateCheck) ([]*domain.TemplateCheck, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.TemplateCheck{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workflowTemplateRepo) GetActiveWithStructure(ctx context.Context, tx *gorm.DB) ([]*domain.WorkflowTemplate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.WorkflowTemplate
	if err := t.WithContext(ctx).
		Where("active = ?", true).
		Preload("Layers", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_layer.sort_index ASC")
		}).
		Preload("Layers.Checks", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_check.sort_index ASC")
		}).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workflowTemplateRepo) GetByPhaseDefinitionIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.WorkflowTemplate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.WorkflowTemplate
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("phase_definition_id IN ?", ids).
		Preload("Layers", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_layer.sort_index ASC")
		}).
		Preload("Layers.Checks", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_check.sort_index ASC")
		}).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

// EntryKey is the natural key of an inspection entry. Layer and check
// names are compared case/whitespace-insensitively; the grouping key is an
// explicit struct rather than a joined string so free text containing
// delimiters cannot collide.
type EntryKey struct {
	RoadSectionID uuid.UUID
	RoadPhaseID   uuid.UUID
	Side          string
	StartPK       float64
	EndPK         float64
	LayerKey      string
	CheckKey      string
}

// EntryFilter is the listing/aggregation selector. Zero values mean "no
// constraint". SortBy must come from the service-level whitelist.
type EntryFilter struct {
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

type InspectionEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.InspectionEntry) ([]*domain.InspectionEntry, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*domain.InspectionEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.InspectionEntry, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.InspectionEntry, error)
	// FindByNaturalKey returns the entry matching the key, excluding
	// excludeID (pass 0 to exclude nothing). Name comparison is
	// lower(trim()) on both sides.
	FindByNaturalKey(ctx context.Context, tx *gorm.DB, key EntryKey, excludeID int64) (*domain.InspectionEntry, error)
	Find(ctx context.Context, tx *gorm.DB, filter EntryFilter) ([]*domain.InspectionEntry, int64, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.InspectionEntry) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []int64) error
}

type inspectionEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInspectionEntryRepo(db *gorm.DB, baseLog *logger.Logger) InspectionEntryRepo {
	return &inspectionEntryRepo{db: db, log: baseLog.With("repo", "InspectionEntryRepo")}
}

func (r *inspectionEntryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.InspectionEntry) ([]*domain.InspectionEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.InspectionEntry{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *inspectionEntryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*domain.InspectionEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.InspectionEntry
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *inspectionEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.InspectionEntry, error) {
	if id == 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *inspectionEntryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.InspectionEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.InspectionEntry
	if err := t.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *inspectionEntryRepo) FindByNaturalKey(ctx context.Context, tx *gorm.DB, key EntryKey, excludeID int64) (*domain.InspectionEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Where("road_section_id = ? AND road_phase_id = ? AND side = ? AND start_pk = ? AND end_pk = ?",
			key.RoadSectionID, key.RoadPhaseID, key.Side, key.StartPK, key.EndPK).
		Where("LOWER(TRIM(layer_name)) = ? AND LOWER(TRIM(check_name)) = ?", key.LayerKey, key.CheckKey)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var out []*domain.InspectionEntry
	if err := q.Order("id ASC").Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

var entrySortColumns = map[string]string{
	"id":               "id",
	"created_at":       "created_at",
	"updated_at":       "updated_at",
	"start_pk":         "start_pk",
	"submission_order": "submission_order",
	"appointment_date": "appointment_date",
}

func (r *inspectionEntryRepo) Find(ctx context.Context, tx *gorm.DB, filter EntryFilter) ([]*domain.InspectionEntry, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&domain.InspectionEntry{})

	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	if filter.RoadSectionID != nil {
		q = q.Where("road_section_id = ?", *filter.RoadSectionID)
	}
	if filter.RoadPhaseID != nil {
		q = q.Where("road_phase_id = ?", *filter.RoadPhaseID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		q = q.Where("layer_name ILIKE ? OR check_name ILIKE ? OR remark ILIKE ?", kw, kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := entrySortColumns[filter.SortBy]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	// id is always the final tie-break so pagination is deterministic.
	q = q.Order(col + " " + dir)
	if col != "id" {
		q = q.Order("id ASC")
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var out []*domain.InspectionEntry
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *inspectionEntryRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.InspectionEntry) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *inspectionEntryRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == 0 {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(ctx).
		Model(&domain.InspectionEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteByIDs hard-deletes. Deleting an id that is already gone is a
// no-op, which is what a merge racing another merge needs.
func (r *inspectionEntryRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.InspectionEntry{}).Error
}

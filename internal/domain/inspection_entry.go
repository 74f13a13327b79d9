package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPending    = "PENDING"
	StatusScheduled  = "SCHEDULED"
	StatusSubmitted  = "SUBMITTED"
	StatusInProgress = "IN_PROGRESS"
	StatusApproved   = "APPROVED"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusSubmitted, StatusInProgress, StatusApproved:
		return true
	}
	return false
}

// InspectionEntry is the atomic unit of work submitted for acceptance:
// one row per (layer × check) requested on a PK range. The natural key is
// (road, phase, side, startPk, endPk, layerName, checkName) after
// canonicalization; two rows sharing it describe the same request.
//
// The id is a bigint sequence rather than a uuid: duplicate merges keep the
// smallest id, so ids must order by creation.
type InspectionEntry struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RoadSectionID uuid.UUID `gorm:"type:uuid;not null;index:idx_entry_key,priority:1" json:"road_section_id"`
	RoadPhaseID   uuid.UUID `gorm:"type:uuid;not null;index:idx_entry_key,priority:2" json:"road_phase_id"`
	Side          string    `gorm:"column:side;not null;index:idx_entry_key,priority:3" json:"side"`
	StartPK       float64   `gorm:"column:start_pk;not null;index:idx_entry_key,priority:4" json:"start_pk"`
	EndPK         float64   `gorm:"column:end_pk;not null;index:idx_entry_key,priority:5" json:"end_pk"`
	LayerName     string    `gorm:"column:layer_name;not null" json:"layer_name"`
	CheckName     string    `gorm:"column:check_name;not null" json:"check_name"`
	// Types is []string of canonical acceptance types, ⊆ the check's
	// governing set when one exists.
	Types           datatypes.JSON `gorm:"column:types;type:jsonb" json:"types"`
	Status          string         `gorm:"column:status;not null;default:'PENDING';index" json:"status"`
	Remark          string         `gorm:"column:remark;type:text" json:"remark,omitempty"`
	AppointmentDate *time.Time     `gorm:"column:appointment_date" json:"appointment_date,omitempty"`
	SubmissionOrder *int           `gorm:"column:submission_order" json:"submission_order,omitempty"`
	SubmittedAt     *time.Time     `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	SubmittedBy     string         `gorm:"column:submitted_by" json:"submitted_by,omitempty"`
	CreatedBy       string         `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy       string         `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (InspectionEntry) TableName() string { return "inspection_entry" }

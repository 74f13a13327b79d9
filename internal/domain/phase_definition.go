package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ModeLinear = "LINEAR"
	ModePoint  = "POINT"
)

// PhaseDefinition is a reusable phase type (e.g. "Base Layer"). Its default
// layer/check name lists form the template vocabulary for every RoadPhase
// instantiated from it.
type PhaseDefinition struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Mode string    `gorm:"column:mode;not null;default:'LINEAR'" json:"mode"`
	// DefaultLayers / DefaultChecks are []string as entered by admins,
	// pre-canonicalization.
	DefaultLayers datatypes.JSON `gorm:"column:default_layers;type:jsonb" json:"default_layers"`
	DefaultChecks datatypes.JSON `gorm:"column:default_checks;type:jsonb" json:"default_checks"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PhaseDefinition) TableName() string { return "phase_definition" }

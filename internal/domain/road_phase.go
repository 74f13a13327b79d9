package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SideLeft  = "LEFT"
	SideRight = "RIGHT"
	SideBoth  = "BOTH"
)

func ValidSide(s string) bool {
	return s == SideLeft || s == SideRight || s == SideBoth
}

// RoadPhase is one instantiation of a PhaseDefinition on a RoadSection.
type RoadPhase struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoadSectionID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"road_section_id"`
	RoadSection       *RoadSection     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoadSectionID;references:ID" json:"road_section,omitempty"`
	PhaseDefinitionID uuid.UUID        `gorm:"type:uuid;not null;index" json:"phase_definition_id"`
	PhaseDefinition   *PhaseDefinition `gorm:"constraint:OnDelete:RESTRICT;foreignKey:PhaseDefinitionID;references:ID" json:"phase_definition,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (RoadPhase) TableName() string { return "road_phase" }

// PhaseLayerLink binds one working-vocabulary layer name to a RoadPhase.
// Expected to stay within the phase definition's template vocabulary;
// drift is a data-quality defect surfaced by the auditor.
type PhaseLayerLink struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoadPhaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"road_phase_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PhaseLayerLink) TableName() string { return "phase_layer_link" }

type PhaseCheckLink struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoadPhaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"road_phase_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PhaseCheckLink) TableName() string { return "phase_check_link" }

// PhaseInterval is a PK sub-range within a RoadPhase. Layers is []string,
// free text pre-canonicalization.
type PhaseInterval struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoadPhaseID uuid.UUID      `gorm:"type:uuid;not null;index" json:"road_phase_id"`
	RoadPhase   *RoadPhase     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoadPhaseID;references:ID" json:"road_phase,omitempty"`
	StartPK     float64        `gorm:"column:start_pk;not null" json:"start_pk"`
	EndPK       float64        `gorm:"column:end_pk;not null" json:"end_pk"`
	Side        string         `gorm:"column:side;not null;default:'BOTH'" json:"side"`
	Layers      datatypes.JSON `gorm:"column:layers;type:jsonb" json:"layers"`
	Spec        string         `gorm:"column:spec;type:text" json:"spec,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PhaseInterval) TableName() string { return "phase_interval" }

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkflowTemplate is the ordered layers→checks→allowed-types structure
// attached to a PhaseDefinition. Read-only from the engine's perspective.
type WorkflowTemplate struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PhaseDefinitionID uuid.UUID        `gorm:"type:uuid;not null;index" json:"phase_definition_id"`
	PhaseDefinition   *PhaseDefinition `gorm:"constraint:OnDelete:CASCADE;foreignKey:PhaseDefinitionID;references:ID" json:"phase_definition,omitempty"`
	Name              string           `gorm:"column:name;not null" json:"name"`
	Active            bool             `gorm:"column:active;not null;default:true;index" json:"active"`
	Layers            []*TemplateLayer `gorm:"foreignKey:TemplateID;references:ID" json:"layers,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkflowTemplate) TableName() string { return "workflow_template" }

type TemplateLayer struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TemplateID uuid.UUID         `gorm:"type:uuid;not null;index" json:"template_id"`
	SortIndex  int               `gorm:"column:sort_index;not null;default:0" json:"sort_index"`
	Name       string            `gorm:"column:name;not null" json:"name"`
	Checks     []*TemplateCheck  `gorm:"foreignKey:TemplateLayerID;references:ID" json:"checks,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (TemplateLayer) TableName() string { return "template_layer" }

type TemplateCheck struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TemplateLayerID uuid.UUID `gorm:"type:uuid;not null;index" json:"template_layer_id"`
	SortIndex       int       `gorm:"column:sort_index;not null;default:0" json:"sort_index"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	// AllowedTypes is []string, the acceptance types this check may carry.
	AllowedTypes datatypes.JSON `gorm:"column:allowed_types;type:jsonb" json:"allowed_types"`
	MustHave     bool           `gorm:"column:must_have;not null;default:false" json:"must_have"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (TemplateCheck) TableName() string { return "template_check" }

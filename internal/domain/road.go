package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoadSection is a named linear road. Identity is immutable; name/slug
// may be changed by admin action.
type RoadSection struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Slug      string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RoadSection) TableName() string { return "road_section" }

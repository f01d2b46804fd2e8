package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimelineVersion is a persisted snapshot of a project's timeline
// blob. Exactly one row per project carries IsCurrent=true; the store
// enforces this by flipping the prior current row inside the same
// write-locked transaction that inserts a new one.
type TimelineVersion struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	ParentVersionID *uuid.UUID    `gorm:"type:uuid;column:parent_version_id" json:"parent_version_id,omitempty"`
	Blob           datatypes.JSON `gorm:"column:blob;not null" json:"blob"`
	IsCurrent      bool           `gorm:"column:is_current;not null;default:false;index" json:"is_current"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TimelineVersion) TableName() string { return "timeline_version" }

func (v *TimelineVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

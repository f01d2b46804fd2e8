package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Embedding is one (segment, type, model) vector, stored as a
// little-endian f32 byte blob so it can round-trip without a JSON
// number-precision detour.
type Embedding struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SegmentID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uidx_segment_type_model" json:"segment_id"`
	EmbeddingType string    `gorm:"column:embedding_type;not null;uniqueIndex:uidx_segment_type_model" json:"embedding_type"`
	ModelName     string    `gorm:"column:model_name;not null;uniqueIndex:uidx_segment_type_model" json:"model_name"`
	ModelVersion  string    `gorm:"column:model_version;not null;default:''" json:"model_version"`
	Vector        []byte    `gorm:"column:vector;type:blob;not null" json:"-"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Embedding) TableName() string { return "embedding" }

func (e *Embedding) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

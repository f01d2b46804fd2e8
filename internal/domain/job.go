package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job is a durable unit of pipeline or generic work. IsActive mirrors
// Status (true while Pending|Running) as a persisted column rather
// than a computed one so dedupe-key admission can be checked with a
// plain indexed lookup instead of a status subquery.
type Job struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobType    string         `gorm:"column:job_type;not null;index" json:"job_type"`
	Status     string         `gorm:"column:status;not null;index" json:"status"`
	Stage      string         `gorm:"column:stage" json:"stage,omitempty"`
	Progress   float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	Payload    datatypes.JSON `gorm:"column:payload" json:"payload"`
	Result     datatypes.JSON `gorm:"column:result" json:"result,omitempty"`
	DedupeKey  *string        `gorm:"column:dedupe_key;index" json:"dedupe_key,omitempty"`
	AssetID    *uuid.UUID     `gorm:"type:uuid;column:asset_id;index" json:"asset_id,omitempty"`
	IsActive   bool           `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Job) TableName() string { return "job" }

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is the top-level container: one editing workspace, one
// cache directory, at most one current timeline version.
type Project struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string         `gorm:"column:name;not null" json:"name"`
	CacheDir            string         `gorm:"column:cache_dir;not null" json:"cache_dir"`
	StyleProfileAssetID *uuid.UUID     `gorm:"type:uuid;column:style_profile_asset_id" json:"style_profile_asset_id,omitempty"`
	ExternalIndexID     *string        `gorm:"column:external_index_id" json:"external_index_id,omitempty"`
	ExternalIndexAt     *time.Time     `gorm:"column:external_index_at" json:"external_index_at,omitempty"`
	CreatedAt           time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "project" }

// BeforeCreate assigns an id when the caller hasn't set one, mirroring
// the uuid-on-insert convention used throughout the store.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

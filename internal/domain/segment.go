package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Segment is a span of source media with stable identity. SrcIn/SrcOut
// are the only fields writers may mutate; Start/End are legacy
// fallbacks kept for rows written before the stable-bound migration.
// Every reader MUST go through CoalescedIn/CoalescedOut — direct field
// access on Start/End or SrcIn/SrcOut bypasses the fallback and is a
// defect wherever it appears outside this file.
type Segment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	AssetID   uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_id"`

	SrcInTicks  *int64 `gorm:"column:src_in_ticks" json:"src_in_ticks,omitempty"`
	SrcOutTicks *int64 `gorm:"column:src_out_ticks" json:"src_out_ticks,omitempty"`
	StartTicks  int64  `gorm:"column:start_ticks;not null;default:0" json:"start_ticks"`
	EndTicks    int64  `gorm:"column:end_ticks;not null;default:0" json:"end_ticks"`

	SegmentKind *string        `gorm:"column:segment_kind" json:"segment_kind,omitempty"`
	SummaryText string         `gorm:"column:summary_text" json:"summary_text,omitempty"`
	KeywordsJSON datatypes.JSON `gorm:"column:keywords_json" json:"keywords_json,omitempty"`
	QualityJSON  datatypes.JSON `gorm:"column:quality_json" json:"quality_json,omitempty"`
	SubjectJSON  datatypes.JSON `gorm:"column:subject_json" json:"subject_json,omitempty"`
	SceneJSON    datatypes.JSON `gorm:"column:scene_json" json:"scene_json,omitempty"`
	CaptureTime  *time.Time     `gorm:"column:capture_time" json:"capture_time,omitempty"`
	Transcript   string         `gorm:"column:transcript" json:"transcript,omitempty"`
	Speaker      *string        `gorm:"column:speaker" json:"speaker,omitempty"`

	// Dynamic-segment fields: set only for segments materialized from
	// an external retrieval hit via GetOrCreateDynamicSegment.
	DedupeKey   *string `gorm:"column:dedupe_key;index" json:"dedupe_key,omitempty"`
	Origin      *string `gorm:"column:origin" json:"origin,omitempty"`
	ExternalRef *string `gorm:"column:external_ref" json:"external_ref,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Segment) TableName() string { return "segment" }

func (s *Segment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CoalescedIn returns src_in_ticks if set, else the legacy start_ticks.
func (s *Segment) CoalescedIn() int64 {
	if s.SrcInTicks != nil {
		return *s.SrcInTicks
	}
	return s.StartTicks
}

// CoalescedOut returns src_out_ticks if set, else the legacy end_ticks.
func (s *Segment) CoalescedOut() int64 {
	if s.SrcOutTicks != nil {
		return *s.SrcOutTicks
	}
	return s.EndTicks
}

// SetBounds is the only sanctioned writer path for a segment's time
// bounds: it always updates the stable src_* fields, never the legacy
// start/end columns.
func (s *Segment) SetBounds(inTicks, outTicks int64) {
	s.SrcInTicks = &inTicks
	s.SrcOutTicks = &outTicks
}

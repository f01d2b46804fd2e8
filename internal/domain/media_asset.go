package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaAsset is one imported source file. Its six nullable readiness
// timestamps are the only source of truth for AssetReadiness — there
// is no separate denormalized "stage" column, so a restart can never
// observe a readiness level the store itself doesn't attest to.
type MediaAsset struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uidx_project_path" json:"project_id"`
	Path        string    `gorm:"column:path;not null;uniqueIndex:uidx_project_path" json:"path"`
	ContentHash *string   `gorm:"column:content_hash" json:"content_hash,omitempty"`

	DurationTicks int64 `gorm:"column:duration_ticks;not null;default:0" json:"duration_ticks"`
	FrameRateNum  int   `gorm:"column:frame_rate_num;not null;default:0" json:"frame_rate_num"`
	FrameRateDen  int   `gorm:"column:frame_rate_den;not null;default:1" json:"frame_rate_den"`
	Width         int   `gorm:"column:width;not null;default:0" json:"width"`
	Height        int   `gorm:"column:height;not null;default:0" json:"height"`
	AudioPresent  bool  `gorm:"column:audio_present;not null;default:false" json:"audio_present"`
	IsReference   bool  `gorm:"column:is_reference;not null;default:false;index" json:"is_reference"`

	SegmentsBuiltAt      *time.Time `gorm:"column:segments_built_at" json:"segments_built_at,omitempty"`
	TranscriptReadyAt     *time.Time `gorm:"column:transcript_ready_at" json:"transcript_ready_at,omitempty"`
	VisionReadyAt          *time.Time `gorm:"column:vision_ready_at" json:"vision_ready_at,omitempty"`
	MetadataReadyAt        *time.Time `gorm:"column:metadata_ready_at" json:"metadata_ready_at,omitempty"`
	EmbeddingsReadyAt      *time.Time `gorm:"column:embeddings_ready_at" json:"embeddings_ready_at,omitempty"`
	ExternallyIndexedAt    *time.Time `gorm:"column:externally_indexed_at" json:"externally_indexed_at,omitempty"`

	ExternalTaskID   *string `gorm:"column:external_task_id" json:"external_task_id,omitempty"`
	ExternalVideoID  *string `gorm:"column:external_video_id;index" json:"external_video_id,omitempty"`
	LastExternalError *string `gorm:"column:last_external_error" json:"last_external_error,omitempty"`
	ThumbnailDir     *string `gorm:"column:thumbnail_dir" json:"thumbnail_dir,omitempty"`

	// RawTranscript/RawVision hold the verbatim ML-service response
	// JSON, persisted unparsed so enrichment stages can re-read it
	// without re-calling the external service.
	RawTranscript []byte `gorm:"column:raw_transcript;type:blob" json:"-"`
	RawVision     []byte `gorm:"column:raw_vision;type:blob" json:"-"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MediaAsset) TableName() string { return "media_asset" }

func (a *MediaAsset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Readiness computes the highest stage whose timestamp is set, per the
// precedence IndexedExternal > Embedded > MetadataReady > Enriched >
// Segmented > Imported.
func (a *MediaAsset) Readiness() AssetReadiness {
	switch {
	case a.ExternallyIndexedAt != nil:
		return ReadinessIndexedExternal
	case a.EmbeddingsReadyAt != nil:
		return ReadinessEmbedded
	case a.MetadataReadyAt != nil:
		return ReadinessMetadataReady
	case a.TranscriptReadyAt != nil && a.VisionReadyAt != nil:
		return ReadinessEnriched
	case a.SegmentsBuiltAt != nil:
		return ReadinessSegmented
	default:
		return ReadinessImported
	}
}

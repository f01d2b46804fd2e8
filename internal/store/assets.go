package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vibecut/daemon/internal/domain"
)

func (s *Store) CreateAsset(ctx context.Context, a *domain.MediaAsset) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(a).Error
	})
}

func (s *Store) GetAsset(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error) {
	var a domain.MediaAsset
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAssetByExternalVideoID(ctx context.Context, videoID string) (*domain.MediaAsset, error) {
	var a domain.MediaAsset
	err := s.db.WithContext(ctx).First(&a, "external_video_id = ?", videoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAssetByPath looks up an asset by its (project_id, path) unique
// pair, the same pair import_raw checks before creating a new row.
func (s *Store) GetAssetByPath(ctx context.Context, projectID uuid.UUID, path string) (*domain.MediaAsset, error) {
	var a domain.MediaAsset
	err := s.db.WithContext(ctx).First(&a, "project_id = ? AND path = ?", projectID, path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssets returns every media asset for a project, optionally
// excluding reference (style-profile) footage.
func (s *Store) ListAssets(ctx context.Context, projectID uuid.UUID, excludeReference bool) ([]*domain.MediaAsset, error) {
	q := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	if excludeReference {
		q = q.Where("is_reference = ?", false)
	}
	var out []*domain.MediaAsset
	if err := q.Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAssetsIndexedExternally returns the assets of a project that
// have already been uploaded into the external video-search index.
func (s *Store) ListAssetsIndexedExternally(ctx context.Context, projectID uuid.UUID) ([]*domain.MediaAsset, error) {
	var out []*domain.MediaAsset
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND external_video_id IS NOT NULL", projectID).
		Order("created_at asc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListReferenceAssets returns only the style-profile reference assets
// of a project — still run through analysis, always excluded from
// retrieval and from editing-goal readiness counting.
func (s *Store) ListReferenceAssets(ctx context.Context, projectID uuid.UUID) ([]*domain.MediaAsset, error) {
	var out []*domain.MediaAsset
	err := s.db.WithContext(ctx).Where("project_id = ? AND is_reference = ?", projectID, true).
		Order("created_at asc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return s.withWriteTx(ctx, func(tx *gorm.DB) error {
		var segmentIDs []uuid.UUID
		if err := tx.Model(&domain.Segment{}).Where("asset_id = ?", id).Pluck("id", &segmentIDs).Error; err != nil {
			return err
		}
		if len(segmentIDs) > 0 {
			if err := tx.Where("segment_id IN ?", segmentIDs).Delete(&domain.Embedding{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("asset_id = ?", id).Delete(&domain.Segment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.MediaAsset{}, "id = ?", id).Error
	})
}

func (s *Store) UpdateAssetFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.MediaAsset{}).Where("id = ?", id).Updates(updates).Error
	})
}

// stageColumn maps a pipeline job type to the readiness column it
// stamps. GenerateProxy and ImportRaw have no readiness column of
// their own: proxy generation is outside the analysis gate entirely.
var stageColumn = map[domain.JobType]string{
	domain.JobBuildSegments:                "segments_built_at",
	domain.JobTranscribeAsset:               "transcript_ready_at",
	domain.JobAnalyzeVisionAsset:            "vision_ready_at",
	domain.JobComputeSegmentMetadata:        "metadata_ready_at",
	domain.JobEmbedSegments:                 "embeddings_ready_at",
	domain.JobIndexAssetWithExternalService: "externally_indexed_at",
}

// UpdateAssetAnalysisState stamps the current time on the readiness
// column belonging to stage. A readiness timestamp is set only once
// its preconditions have been observed in the store — callers are
// expected to have already verified that before calling this.
func (s *Store) UpdateAssetAnalysisState(ctx context.Context, assetID uuid.UUID, stage domain.JobType) error {
	col, ok := stageColumn[stage]
	if !ok {
		return nil
	}
	now := time.Now()
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.MediaAsset{}).Where("id = ?", assetID).Update(col, &now).Error
	})
}

// CheckAssetPrerequisites returns true iff every named readiness
// column is non-null for the asset.
func (s *Store) CheckAssetPrerequisites(ctx context.Context, assetID uuid.UUID, requiredStages []domain.JobType) (bool, error) {
	a, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return false, err
	}
	for _, stage := range requiredStages {
		switch stage {
		case domain.JobBuildSegments:
			if a.SegmentsBuiltAt == nil {
				return false, nil
			}
		case domain.JobTranscribeAsset:
			if a.TranscriptReadyAt == nil {
				return false, nil
			}
		case domain.JobAnalyzeVisionAsset:
			if a.VisionReadyAt == nil {
				return false, nil
			}
		case domain.JobComputeSegmentMetadata:
			if a.MetadataReadyAt == nil {
				return false, nil
			}
		case domain.JobEmbedSegments:
			if a.EmbeddingsReadyAt == nil {
				return false, nil
			}
		}
	}
	return true, nil
}

func (s *Store) PutRawTranscript(ctx context.Context, assetID uuid.UUID, raw []byte) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.MediaAsset{}).Where("id = ?", assetID).Update("raw_transcript", raw).Error
	})
}

func (s *Store) GetRawTranscript(ctx context.Context, assetID uuid.UUID) ([]byte, error) {
	a, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return a.RawTranscript, nil
}

func (s *Store) PutRawVision(ctx context.Context, assetID uuid.UUID, raw []byte) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.MediaAsset{}).Where("id = ?", assetID).Update("raw_vision", raw).Error
	})
}

func (s *Store) GetRawVision(ctx context.Context, assetID uuid.UUID) ([]byte, error) {
	a, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return a.RawVision, nil
}

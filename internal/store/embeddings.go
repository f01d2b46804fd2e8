package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vibecut/daemon/internal/domain"
)

// GetEmbedding returns the (segment, type, model) embedding, or
// ErrNotFound. EmbedSegments uses this to decide idempotently whether
// a given embedding still needs to be computed.
func (s *Store) GetEmbedding(ctx context.Context, segmentID uuid.UUID, embType domain.EmbeddingType, modelName string) (*domain.Embedding, error) {
	var e domain.Embedding
	err := s.db.WithContext(ctx).
		Where("segment_id = ? AND embedding_type = ? AND model_name = ?", segmentID, string(embType), modelName).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertEmbedding writes an embedding, relying on the uniqueness
// constraint over (segment, type, model) to keep the write idempotent:
// a second identical call updates the vector in place instead of
// erroring or duplicating the row.
func (s *Store) UpsertEmbedding(ctx context.Context, e *domain.Embedding) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		var existing domain.Embedding
		err := tx.WithContext(ctx).
			Where("segment_id = ? AND embedding_type = ? AND model_name = ?", e.SegmentID, e.EmbeddingType, e.ModelName).
			First(&existing).Error
		if err == nil {
			return tx.WithContext(ctx).Model(&existing).Updates(map[string]any{
				"vector":        e.Vector,
				"model_version": e.ModelVersion,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.WithContext(ctx).Create(e).Error
	})
}

func (s *Store) ListEmbeddingsBySegment(ctx context.Context, segmentID uuid.UUID) ([]*domain.Embedding, error) {
	var out []*domain.Embedding
	err := s.db.WithContext(ctx).Where("segment_id = ?", segmentID).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListEmbeddingsByProject returns every embedding of embType belonging
// to non-reference segments of a project, joined in one query for C5's
// local-backend similarity scan.
func (s *Store) ListEmbeddingsByProject(ctx context.Context, projectID uuid.UUID, embType domain.EmbeddingType) ([]*domain.Embedding, error) {
	var out []*domain.Embedding
	err := s.db.WithContext(ctx).
		Joins("JOIN segment ON segment.id = embedding.segment_id").
		Joins("JOIN media_asset ON media_asset.id = segment.asset_id").
		Where("segment.project_id = ? AND media_asset.is_reference = ? AND embedding.embedding_type = ?", projectID, false, string(embType)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

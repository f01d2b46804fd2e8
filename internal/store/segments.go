package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vibecut/daemon/internal/domain"
)

func (s *Store) CreateSegment(ctx context.Context, seg *domain.Segment) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(seg).Error
	})
}

func (s *Store) CreateSegments(ctx context.Context, segs []*domain.Segment) error {
	if len(segs) == 0 {
		return nil
	}
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(&segs).Error
	})
}

func (s *Store) GetSegment(ctx context.Context, id uuid.UUID) (*domain.Segment, error) {
	var seg domain.Segment
	err := s.db.WithContext(ctx).First(&seg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (s *Store) ListSegmentsByAsset(ctx context.Context, assetID uuid.UUID) ([]*domain.Segment, error) {
	var out []*domain.Segment
	err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).Order("start_ticks asc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListSegmentsByProject returns every segment belonging to
// non-reference assets of a project — the retrieval-eligible set.
func (s *Store) ListSegmentsByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Segment, error) {
	var out []*domain.Segment
	err := s.db.WithContext(ctx).
		Joins("JOIN media_asset ON media_asset.id = segment.asset_id").
		Where("segment.project_id = ? AND media_asset.is_reference = ?", projectID, false).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateSegmentFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.Segment{}).Where("id = ?", id).Updates(updates).Error
	})
}

// GetOrCreateDynamicSegment returns the existing segment sharing
// dedupeKey, or creates one with the given stable bounds and external
// provenance. This is the only path by which a dynamic segment (one
// not produced by BuildSegments' fixed chunking) enters the store.
func (s *Store) GetOrCreateDynamicSegment(ctx context.Context, assetID, projectID uuid.UUID, srcIn, srcOut int64, dedupeKey, origin, externalRef string) (*domain.Segment, error) {
	var existing domain.Segment
	err := s.db.WithContext(ctx).Where("dedupe_key = ?", dedupeKey).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seg := &domain.Segment{
		ProjectID:   projectID,
		AssetID:     assetID,
		DedupeKey:   &dedupeKey,
		Origin:      &origin,
		ExternalRef: &externalRef,
	}
	seg.SetBounds(srcIn, srcOut)

	var created *domain.Segment
	err = s.withWriteLock(func(tx *gorm.DB) error {
		// Re-check for a concurrent creator under the write lock —
		// the only mutating handle in the process, so this closes the
		// race between the read above and the insert below.
		var again domain.Segment
		e := tx.WithContext(ctx).Where("dedupe_key = ?", dedupeKey).First(&again).Error
		if e == nil {
			created = &again
			return nil
		}
		if !errors.Is(e, gorm.ErrRecordNotFound) {
			return e
		}
		if ce := tx.WithContext(ctx).Create(seg).Error; ce != nil {
			return ce
		}
		created = seg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

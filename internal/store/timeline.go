package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vibecut/daemon/internal/domain"
)

// GetCurrentTimeline returns the current timeline version for a
// project, or ErrNotFound if none has been written yet.
func (s *Store) GetCurrentTimeline(ctx context.Context, projectID uuid.UUID) (*domain.TimelineVersion, error) {
	var v domain.TimelineVersion
	err := s.db.WithContext(ctx).Where("project_id = ? AND is_current = ?", projectID, true).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveTimelineVersion writes a new current version with parent set to
// the prior current version (if any), flipping the prior row's
// IsCurrent off in the same transaction so there is never a window
// where a project has zero or more than one current version.
func (s *Store) SaveTimelineVersion(ctx context.Context, projectID uuid.UUID, blob datatypes.JSON) (*domain.TimelineVersion, error) {
	var created *domain.TimelineVersion
	err := s.withWriteTx(ctx, func(tx *gorm.DB) error {
		var prior domain.TimelineVersion
		var parentID *uuid.UUID
		err := tx.Where("project_id = ? AND is_current = ?", projectID, true).First(&prior).Error
		switch {
		case err == nil:
			parentID = &prior.ID
			if uErr := tx.Model(&prior).Update("is_current", false).Error; uErr != nil {
				return uErr
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first version for this project
		default:
			return err
		}

		v := &domain.TimelineVersion{
			ProjectID:       projectID,
			ParentVersionID: parentID,
			Blob:            blob,
			IsCurrent:       true,
		}
		if cErr := tx.Create(v).Error; cErr != nil {
			return cErr
		}
		created = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) GetTimelineVersion(ctx context.Context, id uuid.UUID) (*domain.TimelineVersion, error) {
	var v domain.TimelineVersion
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

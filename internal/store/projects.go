package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vibecut/daemon/internal/domain"
)

// ErrNotFound is returned by Store lookups that find no row. Callers
// at the boundary translate this into apierr's NotFound kind.
var ErrNotFound = errors.New("store: not found")

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(p).Error
	})
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProject removes a project and cascades logically through its
// assets, segments, embeddings, timeline versions, and orchestrator
// rows, all inside one write-locked transaction, rather than relying
// on a DB-level ON DELETE CASCADE.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.withWriteTx(ctx, func(tx *gorm.DB) error {
		var assetIDs []uuid.UUID
		if err := tx.Model(&domain.MediaAsset{}).Where("project_id = ?", id).Pluck("id", &assetIDs).Error; err != nil {
			return err
		}
		var segmentIDs []uuid.UUID
		if err := tx.Model(&domain.Segment{}).Where("project_id = ?", id).Pluck("id", &segmentIDs).Error; err != nil {
			return err
		}
		if len(segmentIDs) > 0 {
			if err := tx.Where("segment_id IN ?", segmentIDs).Delete(&domain.Embedding{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.Segment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.MediaAsset{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.TimelineVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.OrchestratorMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.OrchestratorGoal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, "id = ?", id).Error
	})
}

func (s *Store) UpdateProjectFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", id).Updates(updates).Error
	})
}

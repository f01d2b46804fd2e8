package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vibecut/daemon/internal/domain"
)

// GetActiveGoal returns the most recent non-terminal goal for a
// project, or ErrNotFound if there is none.
func (s *Store) GetActiveGoal(ctx context.Context, projectID uuid.UUID) (*domain.OrchestratorGoal, error) {
	var g domain.OrchestratorGoal
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND status NOT IN ?", projectID, []string{string(domain.GoalStatusCompleted), string(domain.GoalStatusCancelled)}).
		Order("created_at desc").First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// StartGoal terminates any existing active goal and inserts a new one
// under the same write lock, so a project never has more than one
// active goal at a time.
func (s *Store) StartGoal(ctx context.Context, projectID uuid.UUID, intent string) (*domain.OrchestratorGoal, error) {
	var created *domain.OrchestratorGoal
	err := s.withWriteTx(ctx, func(tx *gorm.DB) error {
		if uErr := tx.Model(&domain.OrchestratorGoal{}).
			Where("project_id = ? AND status NOT IN ?", projectID, []string{string(domain.GoalStatusCompleted), string(domain.GoalStatusCancelled)}).
			Update("status", string(domain.GoalStatusCancelled)).Error; uErr != nil {
			return uErr
		}
		g := &domain.OrchestratorGoal{
			ProjectID: projectID,
			Intent:    intent,
			Status:    string(domain.GoalStatusNeedsAnalysis),
		}
		if cErr := tx.Create(g).Error; cErr != nil {
			return cErr
		}
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) UpdateGoalStatus(ctx context.Context, id uuid.UUID, status domain.OrchestratorGoalStatus) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.OrchestratorGoal{}).Where("id = ?", id).Update("status", string(status)).Error
	})
}

func (s *Store) AppendMessage(ctx context.Context, projectID uuid.UUID, role domain.MessageRole, content string, payload datatypes.JSON) (*domain.OrchestratorMessage, error) {
	m := &domain.OrchestratorMessage{
		ProjectID: projectID,
		Role:      string(role),
		Content:   content,
		Payload:   payload,
	}
	err := s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns up to limit most-recent messages in
// chronological order — the bounded history (≤20 turns) fed to the
// LLM message generator.
func (s *Store) ListMessages(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.OrchestratorMessage, error) {
	var out []*domain.OrchestratorMessage
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

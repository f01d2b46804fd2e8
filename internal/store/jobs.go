package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vibecut/daemon/internal/domain"
)

// CreateJob enforces dedupe-key admission: if dedupeKey is non-empty
// and an active job already carries it, the existing job is returned
// unchanged; otherwise a new Pending job is inserted. The existence
// check and the insert happen under the same write lock so two
// concurrent callers can never both win.
func (s *Store) CreateJob(ctx context.Context, jobType domain.JobType, payload datatypes.JSON, dedupeKey string, assetID *uuid.UUID) (*domain.Job, bool, error) {
	var result *domain.Job
	created := false
	err := s.withWriteLock(func(tx *gorm.DB) error {
		if dedupeKey != "" {
			var existing domain.Job
			err := tx.WithContext(ctx).Where("dedupe_key = ? AND is_active = ?", dedupeKey, true).First(&existing).Error
			if err == nil {
				result = &existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		job := &domain.Job{
			JobType:  string(jobType),
			Status:   string(domain.JobStatusPending),
			Payload:  payload,
			IsActive: true,
			AssetID:  assetID,
		}
		if dedupeKey != "" {
			job.DedupeKey = &dedupeKey
		}
		if err := tx.WithContext(ctx).Create(job).Error; err != nil {
			return err
		}
		result = job
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var j domain.Job
	err := s.db.WithContext(ctx).First(&j, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// ListPendingJobsOrdered returns every Pending job, oldest first — the
// order the scheduler dispatches in.
func (s *Store) ListPendingJobsOrdered(ctx context.Context) ([]*domain.Job, error) {
	var out []*domain.Job
	err := s.db.WithContext(ctx).Where("status = ?", string(domain.JobStatusPending)).Order("created_at asc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateJobStatus sets status (and progress, when non-nil), stamping
// is_active=false iff the new status is terminal.
func (s *Store) UpdateJobStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, progress *float64) error {
	updates := map[string]any{
		"status":     string(status),
		"is_active":  !status.IsTerminal(),
		"updated_at": time.Now(),
	}
	if progress != nil {
		updates["progress"] = *progress
	}
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.Job{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (s *Store) UpdateJobFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return s.withWriteLock(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Model(&domain.Job{}).Where("id = ?", id).Updates(updates).Error
	})
}

// SweepRunningToPending resets any job left Running by a prior process
// back to Pending, so a daemon restart always re-dispatches work that
// was interrupted mid-run rather than leaving it stuck. Called once at
// boot, before the scheduler starts polling.
func (s *Store) SweepRunningToPending(ctx context.Context) (int64, error) {
	var n int64
	err := s.withWriteLock(func(tx *gorm.DB) error {
		res := tx.WithContext(ctx).Model(&domain.Job{}).
			Where("status = ?", string(domain.JobStatusRunning)).
			Updates(map[string]any{"status": string(domain.JobStatusPending), "updated_at": time.Now()})
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}

// CountActiveJobsForAssets counts running-or-pending jobs bound to one
// of the given asset ids. Jobs without an asset binding are
// conservatively uncounted.
func (s *Store) CountActiveJobsForAssets(ctx context.Context, assetIDs []uuid.UUID) (int64, error) {
	if len(assetIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Job{}).
		Where("is_active = ? AND asset_id IN ?", true, assetIDs).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) CountFailedJobsForAssets(ctx context.Context, assetIDs []uuid.UUID) (int64, error) {
	if len(assetIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Job{}).
		Where("status = ? AND asset_id IN ?", string(domain.JobStatusFailed), assetIDs).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListJobsByAssetIDs returns every job bound to one of the given
// asset ids, most recent first — backing the project-scoped job
// summary endpoint.
func (s *Store) ListJobsByAssetIDs(ctx context.Context, assetIDs []uuid.UUID) ([]*domain.Job, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}
	var out []*domain.Job
	err := s.db.WithContext(ctx).Where("asset_id IN ?", assetIDs).Order("created_at desc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

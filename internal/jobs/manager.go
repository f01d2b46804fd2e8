package jobs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/platform/logger"
	"github.com/vibecut/daemon/internal/store"
)

// Manager is the C2 facade: create/get/update_status/cancel/subscribe
// over the job table, plus the Registry used to dispatch Pending jobs
// and the Broadcaster used to fan JobEvents out to subscribers.
type Manager struct {
	store       *store.Store
	broadcaster Broadcaster
	registry    *Registry
	log         *logger.Logger
}

func NewManager(st *store.Store, b Broadcaster, reg *Registry, log *logger.Logger) *Manager {
	return &Manager{store: st, broadcaster: b, registry: reg, log: log.With("component", "JobManager")}
}

func (m *Manager) Registry() *Registry { return m.registry }

// Create inserts a new Pending job, or returns the existing active
// job sharing dedupeKey unchanged.
func (m *Manager) Create(ctx context.Context, jobType domain.JobType, payload datatypes.JSON, dedupeKey string, assetID *uuid.UUID) (*domain.Job, bool, error) {
	job, created, err := m.store.CreateJob(ctx, jobType, payload, dedupeKey, assetID)
	if err != nil {
		return nil, false, err
	}
	if created {
		m.log.Debug("job enqueued", "job_id", job.ID, "job_type", job.JobType, "dedupe_key", dedupeKey)
	}
	return job, created, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return m.store.GetJob(ctx, id)
}

// Cancel flips the job to Cancelled. Handlers check nothing beyond
// their normal failure paths — cancellation is purely a status flip.
func (m *Manager) Cancel(ctx context.Context, id uuid.UUID) error {
	return m.store.UpdateJobStatus(ctx, id, domain.JobStatusCancelled, nil)
}

// Subscribe returns a channel of Events and a cancel function to stop
// receiving them.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	return m.broadcaster.Subscribe()
}

func (m *Manager) updateProgress(ctx context.Context, id uuid.UUID, stage string, frac float64) error {
	if err := m.store.UpdateJobFields(ctx, id, map[string]any{
		"status":   string(domain.JobStatusRunning),
		"stage":    stage,
		"progress": frac,
	}); err != nil {
		return err
	}
	return nil
}

func (m *Manager) fail(ctx context.Context, job *domain.Job, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if uErr := m.store.UpdateJobFields(ctx, job.ID, map[string]any{
		"status":    string(domain.JobStatusFailed),
		"is_active": false,
		"error":     msg,
	}); uErr != nil {
		m.log.Warn("failed to persist job failure", "job_id", job.ID, "error", uErr)
	}
	assetID, _ := payloadAssetID(job.Payload)
	m.broadcaster.Publish(Event{
		Kind:    domain.EventJobFailed,
		JobID:   job.ID,
		JobType: job.JobType,
		AssetID: assetID,
		Message: msg,
	})
}

func (m *Manager) succeed(ctx context.Context, job *domain.Job, result any) {
	var res datatypes.JSON
	if result != nil {
		if b, mErr := marshalJSON(result); mErr == nil {
			res = b
		}
	}
	if uErr := m.store.UpdateJobFields(ctx, job.ID, map[string]any{
		"status":   string(domain.JobStatusCompleted),
		"is_active": false,
		"progress": 1.0,
		"result":   res,
	}); uErr != nil {
		m.log.Warn("failed to persist job success", "job_id", job.ID, "error", uErr)
	}
	assetID, _ := payloadAssetID(job.Payload)
	m.broadcaster.Publish(Event{
		Kind:    domain.EventJobCompleted,
		JobID:   job.ID,
		JobType: job.JobType,
		AssetID: assetID,
	})
	if assetID != nil {
		a, aErr := m.store.GetAsset(ctx, *assetID)
		if aErr == nil {
			m.broadcaster.Publish(Event{
				Kind:      domain.EventAnalysisComplete,
				JobID:     job.ID,
				JobType:   job.JobType,
				AssetID:   assetID,
				ProjectID: &a.ProjectID,
				Readiness: string(a.Readiness()),
			})
		}
	}
}

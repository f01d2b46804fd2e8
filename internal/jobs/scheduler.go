package jobs

import (
	"context"
	"time"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/platform/logger"
)

// Scheduler is the single task loop: fetch Pending jobs ordered by
// creation time, gate each on its asset's readiness, and dispatch
// sequentially, awaiting each processor before considering the next
// job. There is no concurrent claim pool: the job table is the only
// queue, and only one goroutine ever reads it.
type Scheduler struct {
	manager      *Manager
	log          *logger.Logger
	pollInterval time.Duration
}

func NewScheduler(m *Manager, log *logger.Logger, pollInterval time.Duration) *Scheduler {
	if pollInterval < time.Second {
		pollInterval = time.Second
	}
	return &Scheduler{manager: m, log: log.With("component", "Scheduler"), pollInterval: pollInterval}
}

// Run blocks until ctx is cancelled, polling and dispatching on the
// configured interval.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	pending, err := s.manager.store.ListPendingJobsOrdered(ctx)
	if err != nil {
		s.log.Warn("failed to list pending jobs", "error", err)
		return
	}
	for _, job := range pending {
		if ctx.Err() != nil {
			return
		}
		s.dispatchIfReady(ctx, job)
	}
}

func (s *Scheduler) dispatchIfReady(ctx context.Context, job *domain.Job) {
	jobType := domain.JobType(job.JobType)

	if required, ok := prerequisites[jobType]; ok && job.AssetID != nil {
		ready, err := s.manager.store.CheckAssetPrerequisites(ctx, *job.AssetID, required)
		if err != nil {
			s.log.Warn("prerequisite check failed", "job_id", job.ID, "error", err)
			return
		}
		if !ready {
			return
		}
	}

	handler, ok := s.manager.registry.Get(jobType)
	if !ok {
		s.log.Warn("no handler registered for job_type; failing job", "job_id", job.ID, "job_type", job.JobType)
		rc := newRunContext(ctx, job, s.manager)
		rc.Fail(errNoHandler{jobType: job.JobType})
		return
	}

	if err := s.manager.store.UpdateJobFields(ctx, job.ID, map[string]any{
		"status":   string(domain.JobStatusRunning),
		"progress": 0.0,
	}); err != nil {
		s.log.Warn("failed to mark job running", "job_id", job.ID, "error", err)
		return
	}

	rc := newRunContext(ctx, job, s.manager)
	if err := handler.Run(rc); err != nil {
		// Most handlers call rc.Fail themselves; this is a safety net
		// for one that returns an error without doing so.
		rc.Fail(err)
	}
}

type errNoHandler struct{ jobType string }

func (e errNoHandler) Error() string { return "no handler registered for job_type=" + e.jobType }

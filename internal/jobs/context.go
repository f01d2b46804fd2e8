package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vibecut/daemon/internal/domain"
)

// RunContext is the execution contract between the scheduler and
// pipeline handlers. It is the only sanctioned way a handler reports
// progress, fails, or succeeds, and the only way it enqueues
// downstream jobs — mirroring the job_run runtime's "pipelines never
// touch the job row directly" discipline.
type RunContext struct {
	Ctx     context.Context
	Job     *domain.Job
	Manager *Manager

	payload map[string]any
}

func newRunContext(ctx context.Context, job *domain.Job, m *Manager) *RunContext {
	rc := &RunContext{Ctx: ctx, Job: job, Manager: m}
	rc.decodePayload()
	return rc
}

func (rc *RunContext) decodePayload() {
	if rc.Job == nil || len(rc.Job.Payload) == 0 {
		rc.payload = map[string]any{}
		return
	}
	var mp map[string]any
	if err := json.Unmarshal(rc.Job.Payload, &mp); err != nil {
		rc.payload = map[string]any{}
		return
	}
	rc.payload = mp
}

// Payload returns the decoded payload map; never nil.
func (rc *RunContext) Payload() map[string]any {
	if rc.payload == nil {
		rc.payload = map[string]any{}
	}
	return rc.payload
}

// PayloadUUID reads key from the payload and parses it as a UUID.
func (rc *RunContext) PayloadUUID(key string) (uuid.UUID, bool) {
	v, ok := rc.Payload()[key]
	if !ok || v == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(fmt.Sprint(v))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// AssetID is a convenience accessor for the common "asset_id" /
// "media_asset_id" payload field every pipeline stage binds to.
func (rc *RunContext) AssetID() (uuid.UUID, bool) {
	if id, ok := rc.PayloadUUID("asset_id"); ok {
		return id, true
	}
	return rc.PayloadUUID("media_asset_id")
}

func (rc *RunContext) ProjectID() (uuid.UUID, bool) {
	return rc.PayloadUUID("project_id")
}

// Progress publishes a non-terminal status update for this job run.
func (rc *RunContext) Progress(stage string, frac float64) {
	_ = rc.Manager.updateProgress(rc.Ctx, rc.Job.ID, stage, frac)
}

// StampReadiness marks the readiness timestamp this stage owns. A
// processor MUST call this before Succeed: Succeed does not imply a
// readiness stamp on its own.
func (rc *RunContext) StampReadiness(assetID uuid.UUID, stage domain.JobType) error {
	return rc.Manager.store.UpdateAssetAnalysisState(rc.Ctx, assetID, stage)
}

// Fail marks the job Failed with the given error message and emits a
// JobFailed event. It does not cascade: downstream jobs simply stay
// unable to satisfy their prerequisites.
func (rc *RunContext) Fail(err error) {
	rc.Manager.fail(rc.Ctx, rc.Job, err)
}

// Succeed marks the job Completed with a JSON-encodable result and
// emits a JobCompleted event.
func (rc *RunContext) Succeed(result any) {
	rc.Manager.succeed(rc.Ctx, rc.Job, result)
}

// Enqueue creates a downstream job through the same dedupe-admission
// path every other caller uses — handlers never insert into the job
// table directly.
func (rc *RunContext) Enqueue(jobType domain.JobType, payload map[string]any, assetID *uuid.UUID) (*domain.Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	dedupe := ""
	if assetID != nil {
		dedupe = domain.DedupeKey(jobType, assetID.String())
	}
	job, _, err := rc.Manager.Create(rc.Ctx, jobType, datatypes.JSON(raw), dedupe, assetID)
	return job, err
}

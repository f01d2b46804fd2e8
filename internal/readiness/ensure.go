// Package readiness implements the ensure-loop that drives assets
// toward a target analysis stage by enqueuing whatever jobs are
// missing. It never waits on a job to finish — it only schedules, and
// is safe to call repeatedly (a later call against unchanged state
// enqueues nothing new).
package readiness

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/store"
)

type AssetResult struct {
	AssetID       uuid.UUID        `json:"asset"`
	Current       domain.AssetReadiness `json:"current"`
	Target        domain.ReadinessGoal  `json:"target"`
	MissingSteps  []domain.JobType `json:"missing_steps"`
	ActiveJobs    int64            `json:"active_jobs"`
	EnqueuedJobs  []uuid.UUID      `json:"enqueued_jobs"`
}

type Result struct {
	EnqueuedJobIDs []uuid.UUID             `json:"enqueued_job_ids"`
	PerAsset       []AssetResult           `json:"per_asset"`
	WaitingFor     []uuid.UUID             `json:"waiting_for"`
	NextPollMs     int                     `json:"next_poll_ms"`
	WillBeReady    bool                    `json:"will_be_ready"`
}

const nextPollMs = 5000

// missingSteps returns every pipeline-order step whose completion
// would move the asset past its current readiness and no further than
// goal. A step is included even if another step targets the same
// resulting readiness level (TranscribeAsset and AnalyzeVisionAsset
// both only reach Enriched once BOTH have completed), so both get
// enqueued rather than stopping at the first one found in order.
func missingSteps(current domain.AssetReadiness, goal domain.ReadinessGoal) []domain.JobType {
	if current.AtLeast(goal) {
		return nil
	}
	var out []domain.JobType
	for _, step := range domain.PipelineOrder {
		rank := readinessAfter(step).Rank()
		if rank > current.Rank() && rank <= goal.Rank() {
			out = append(out, step)
		}
	}
	return out
}

// readinessAfter maps a job type to the readiness level reached once
// it completes, mirroring domain.MediaAsset.Readiness's precedence.
func readinessAfter(t domain.JobType) domain.AssetReadiness {
	switch t {
	case domain.JobBuildSegments:
		return domain.ReadinessSegmented
	case domain.JobTranscribeAsset, domain.JobAnalyzeVisionAsset,
		domain.JobEnrichSegmentsFromTranscript, domain.JobEnrichSegmentsFromVision:
		return domain.ReadinessEnriched
	case domain.JobComputeSegmentMetadata:
		return domain.ReadinessMetadataReady
	case domain.JobEmbedSegments:
		return domain.ReadinessEmbedded
	case domain.JobIndexAssetWithExternalService:
		return domain.ReadinessIndexedExternal
	default:
		return domain.ReadinessImported
	}
}

// EnsureReady drives every non-reference asset of a project toward
// goal, enqueuing one job per missing pipeline step that has no active
// job already admitted under its dedupe key.
func EnsureReady(ctx context.Context, st *store.Store, mgr *jobs.Manager, projectID uuid.UUID, goal domain.ReadinessGoal) (*Result, error) {
	assets, err := st.ListAssets(ctx, projectID, true)
	if err != nil {
		return nil, err
	}

	result := &Result{NextPollMs: nextPollMs, WillBeReady: true}

	for _, asset := range assets {
		current := asset.Readiness()
		steps := missingSteps(current, goal)

		active, err := st.CountActiveJobsForAssets(ctx, []uuid.UUID{asset.ID})
		if err != nil {
			return nil, err
		}

		assetResult := AssetResult{
			AssetID:      asset.ID,
			Current:      current,
			Target:       goal,
			MissingSteps: steps,
			ActiveJobs:   active,
		}

		if len(steps) == 0 {
			result.PerAsset = append(result.PerAsset, assetResult)
			continue
		}

		for _, step := range steps {
			dedupe := domain.DedupeKey(step, asset.ID.String())
			job, created, err := mgr.Create(ctx, step, datatypes.JSON(marshalAssetPayload(asset.ID, projectID)), dedupe, &asset.ID)
			if err != nil {
				return nil, err
			}
			if created {
				result.EnqueuedJobIDs = append(result.EnqueuedJobIDs, job.ID)
				assetResult.EnqueuedJobs = append(assetResult.EnqueuedJobs, job.ID)
			}
		}

		if active == 0 && len(assetResult.EnqueuedJobs) == 0 {
			result.WillBeReady = false
			result.WaitingFor = append(result.WaitingFor, asset.ID)
		}

		result.PerAsset = append(result.PerAsset, assetResult)
	}

	return result, nil
}

func marshalAssetPayload(assetID, projectID uuid.UUID) []byte {
	return []byte(`{"asset_id":"` + assetID.String() + `","project_id":"` + projectID.String() + `"}`)
}

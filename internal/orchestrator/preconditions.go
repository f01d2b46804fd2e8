// Package orchestrator turns a free-form editing intent into concrete
// timeline work. A pure mode-decision function picks one of six modes
// from a snapshot of project state; propose/plan/apply carry out the
// side effects for whichever mode applies, always returning the same
// envelope shape so a client never needs to branch on which endpoint
// it called.
package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/store"
)

// Preconditions is the snapshot every mode decision is a pure function
// of. Computing it is the only I/O in the decision path.
type Preconditions struct {
	MediaAssetsCount           int64
	SegmentsCount              int64
	SegmentsWithTextEmbeddings int64
	SegmentsWithVisionEmbeddings int64
	EmbeddingCoverage          float64
	JobsRunningCount           int64
	JobsFailedCount            int64
}

func computePreconditions(ctx context.Context, st *store.Store, projectID uuid.UUID) (Preconditions, error) {
	var p Preconditions

	assets, err := st.ListAssets(ctx, projectID, true)
	if err != nil {
		return p, err
	}
	p.MediaAssetsCount = int64(len(assets))

	segments, err := st.ListSegmentsByProject(ctx, projectID)
	if err != nil {
		return p, err
	}
	p.SegmentsCount = int64(len(segments))

	textEmb, err := st.ListEmbeddingsByProject(ctx, projectID, domain.EmbeddingText)
	if err != nil {
		return p, err
	}
	p.SegmentsWithTextEmbeddings = int64(len(textEmb))

	visionEmb, err := st.ListEmbeddingsByProject(ctx, projectID, domain.EmbeddingVision)
	if err != nil {
		return p, err
	}
	p.SegmentsWithVisionEmbeddings = int64(len(visionEmb))

	if p.SegmentsCount > 0 {
		p.EmbeddingCoverage = float64(p.SegmentsWithTextEmbeddings) / float64(p.SegmentsCount)
	}

	assetIDs := make([]uuid.UUID, len(assets))
	for i, a := range assets {
		assetIDs[i] = a.ID
	}
	p.JobsRunningCount, err = st.CountActiveJobsForAssets(ctx, assetIDs)
	if err != nil {
		return p, err
	}
	p.JobsFailedCount, err = st.CountFailedJobsForAssets(ctx, assetIDs)
	if err != nil {
		return p, err
	}

	return p, nil
}

// Package pipeline implements the analysis stages that take a raw
// imported asset to full retrieval readiness: each stage is a
// jobs.Handler registered into the scheduler's dispatch table.
package pipeline

import (
	"fmt"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/media"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/ticks"
)

// SegmentWindowTicks is the fixed chunking window BuildSegments cuts
// an asset's source timeline into: 5 seconds.
const SegmentWindowTicks = 5 * ticks.PerSecond

type BuildSegmentsHandler struct {
	Store  *store.Store
	Prober media.Prober
}

func (BuildSegmentsHandler) Type() domain.JobType { return domain.JobBuildSegments }

func (h BuildSegmentsHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("build_segments: payload missing asset_id")
		rc.Fail(err)
		return err
	}

	asset, err := h.Store.GetAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	// Already segmented: idempotent no-op, still a success.
	if asset.SegmentsBuiltAt != nil {
		rc.Succeed(map[string]any{"skipped": true})
		return nil
	}

	probe, err := h.Prober.Probe(rc.Ctx, asset.Path)
	if err != nil {
		rc.Fail(err)
		return err
	}

	var segs []*domain.Segment
	for in := int64(0); in < probe.DurationTicks; in += SegmentWindowTicks {
		out := in + SegmentWindowTicks
		if out > probe.DurationTicks {
			out = probe.DurationTicks
		}
		seg := &domain.Segment{ProjectID: asset.ProjectID, AssetID: asset.ID}
		seg.SetBounds(in, out)
		segs = append(segs, seg)
	}

	if len(segs) > 0 {
		if err := h.Store.CreateSegments(rc.Ctx, segs); err != nil {
			rc.Fail(err)
			return err
		}
	}

	if err := rc.StampReadiness(assetID, domain.JobBuildSegments); err != nil {
		rc.Fail(err)
		return err
	}
	rc.Succeed(map[string]any{"segment_count": len(segs)})
	return nil
}

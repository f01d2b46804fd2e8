package retrieval

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/ticks"
	"github.com/vibecut/daemon/internal/videosearch"
)

// snapOverlapFraction is the minimum fraction of a hit's duration that
// must overlap a candidate segment for the hit to snap onto it instead
// of materializing a new dynamic segment.
const snapOverlapFraction = 0.40

// snapHit maps one external search hit onto a local segment: either
// the existing segment it overlaps most, or a freshly materialized
// dynamic segment carrying its own external provenance.
func snapHit(ctx context.Context, st *store.Store, projectID uuid.UUID, hit videosearch.SearchHit) (*domain.Segment, bool, error) {
	asset, err := st.GetAssetByExternalVideoID(ctx, hit.AssetID)
	if err != nil {
		return nil, false, err
	}

	hitStart := ticks.FromSeconds(hit.StartTime)
	hitEnd := ticks.FromSeconds(hit.EndTime)
	hitMid := (hitStart + hitEnd) / 2
	hitDuration := hitEnd - hitStart

	segs, err := st.ListSegmentsByAsset(ctx, asset.ID)
	if err != nil {
		return nil, false, err
	}

	var best *domain.Segment
	var bestOverlap int64
	for _, seg := range segs {
		overlap := ticks.Overlap(hitStart, hitEnd, seg.CoalescedIn(), seg.CoalescedOut())
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = seg
		}
	}

	if best != nil {
		midInside := hitMid >= best.CoalescedIn() && hitMid < best.CoalescedOut()
		coversEnough := hitDuration > 0 && float64(bestOverlap)/float64(hitDuration) >= snapOverlapFraction
		if midInside || coversEnough {
			return best, true, nil
		}
	}

	dedupe := "external:" + hit.AssetID + ":" + hit.ExternalID
	externalRef := hit.AssetID + ":" + formatFloat(hit.StartTime) + ":" + formatFloat(hit.EndTime)
	seg, err := st.GetOrCreateDynamicSegment(ctx, asset.ID, projectID, hitStart, hitEnd, dedupe, "external", externalRef)
	if err != nil {
		return nil, false, err
	}
	return seg, false, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/ticks"
)

type EnrichSegmentsFromVisionHandler struct {
	Store *store.Store
}

func (EnrichSegmentsFromVisionHandler) Type() domain.JobType {
	return domain.JobEnrichSegmentsFromVision
}

type qualityJSON struct {
	BlurScore   float64 `json:"blur_score"`
	MotionScore float64 `json:"motion_score"`
}

type sceneJSON struct {
	Tags     []string  `json:"tags"`
	HasFace  bool      `json:"has_face"`
	FaceBBox []float64 `json:"face_bbox,omitempty"`
}

func (h EnrichSegmentsFromVisionHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("enrich_segments_from_vision: payload missing asset_id")
		rc.Fail(err)
		return err
	}

	raw, err := h.Store.GetRawVision(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}
	var resp mlclient.VisionAnalyzeResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			rc.Fail(err)
			return err
		}
	}

	segs, err := h.Store.ListSegmentsByAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	for _, seg := range segs {
		var matched []mlclient.VisionFrameSegment
		for _, frame := range resp.Segments {
			frameStart := ticks.FromSeconds(frame.Start)
			frameEnd := ticks.FromSeconds(frame.End)
			if ticks.Intersects(frameStart, frameEnd, seg.CoalescedIn(), seg.CoalescedOut()) {
				matched = append(matched, frame)
			}
		}
		if len(matched) == 0 {
			continue
		}

		var blurSum, motionSum float64
		hasFace := false
		var lastBBox []float64
		tagSet := map[string]struct{}{}
		for _, frame := range matched {
			blurSum += frame.BlurScore
			motionSum += frame.MotionScore
			if frame.HasFace {
				hasFace = true
				if len(frame.FaceBBox) > 0 {
					lastBBox = frame.FaceBBox
				}
			}
			for _, tag := range frame.Tags {
				tagSet[tag] = struct{}{}
			}
		}
		tags := make([]string, 0, len(tagSet))
		for tag := range tagSet {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		quality, err := json.Marshal(qualityJSON{
			BlurScore:   blurSum / float64(len(matched)),
			MotionScore: motionSum / float64(len(matched)),
		})
		if err != nil {
			rc.Fail(err)
			return err
		}
		scene, err := json.Marshal(sceneJSON{Tags: tags, HasFace: hasFace, FaceBBox: lastBBox})
		if err != nil {
			rc.Fail(err)
			return err
		}

		if err := h.Store.UpdateSegmentFields(rc.Ctx, seg.ID, map[string]any{
			"quality_json": quality,
			"scene_json":   scene,
		}); err != nil {
			rc.Fail(err)
			return err
		}
	}

	rc.Succeed(map[string]any{"segment_count": len(segs)})
	return nil
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/ticks"
)

type EnrichSegmentsFromTranscriptHandler struct {
	Store *store.Store
}

func (EnrichSegmentsFromTranscriptHandler) Type() domain.JobType {
	return domain.JobEnrichSegmentsFromTranscript
}

func (h EnrichSegmentsFromTranscriptHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("enrich_segments_from_transcript: payload missing asset_id")
		rc.Fail(err)
		return err
	}

	raw, err := h.Store.GetRawTranscript(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}
	var resp mlclient.TranscribeResponse
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
		var matched []string
		for _, entry := range resp.Segments {
			entryStart := ticks.FromSeconds(entry.Start)
			entryEnd := ticks.FromSeconds(entry.End)
			if ticks.Intersects(entryStart, entryEnd, seg.CoalescedIn(), seg.CoalescedOut()) {
				matched = append(matched, strings.TrimSpace(entry.Text))
			}
		}
		if len(matched) == 0 {
			continue
		}
		if err := h.Store.UpdateSegmentFields(rc.Ctx, seg.ID, map[string]any{
			"transcript": strings.Join(matched, " "),
		}); err != nil {
			rc.Fail(err)
			return err
		}
	}

	rc.Succeed(map[string]any{"segment_count": len(segs)})
	return nil
}

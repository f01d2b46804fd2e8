package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/store"
)

type ComputeSegmentMetadataHandler struct {
	Store *store.Store
}

func (ComputeSegmentMetadataHandler) Type() domain.JobType { return domain.JobComputeSegmentMetadata }

type subjectJSON struct {
	HasFace        bool      `json:"has_face"`
	FaceBBox       []float64 `json:"face_bbox,omitempty"`
	SubjectPresent bool      `json:"subject_present"`
}

func (h ComputeSegmentMetadataHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("compute_segment_metadata: payload missing asset_id")
		rc.Fail(err)
		return err
	}

	segs, err := h.Store.ListSegmentsByAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	for _, seg := range segs {
		var scene sceneJSON
		if len(seg.SceneJSON) > 0 {
			_ = json.Unmarshal(seg.SceneJSON, &scene)
		}
		var quality qualityJSON
		if len(seg.QualityJSON) > 0 {
			_ = json.Unmarshal(seg.QualityJSON, &quality)
		}

		summary := summaryText(seg.Transcript, scene.Tags)
		keywords := keywordTokens(seg.Transcript)
		subject := subjectJSON{HasFace: scene.HasFace, FaceBBox: scene.FaceBBox, SubjectPresent: scene.HasFace}
		kind := segmentKind(seg.Transcript, scene.HasFace, quality.MotionScore)

		keywordsJSON, err := json.Marshal(keywords)
		if err != nil {
			rc.Fail(err)
			return err
		}
		subjectJSONBytes, err := json.Marshal(subject)
		if err != nil {
			rc.Fail(err)
			return err
		}

		updates := map[string]any{
			"summary_text": summary,
			"keywords_json": keywordsJSON,
			"subject_json":  subjectJSONBytes,
		}
		if kind != "" {
			updates["segment_kind"] = kind
		}
		if err := h.Store.UpdateSegmentFields(rc.Ctx, seg.ID, updates); err != nil {
			rc.Fail(err)
			return err
		}
	}

	if err := rc.StampReadiness(assetID, domain.JobComputeSegmentMetadata); err != nil {
		rc.Fail(err)
		return err
	}

	projectID, _ := rc.ProjectID()
	if _, err := rc.Enqueue(domain.JobEmbedSegments, map[string]any{
		"asset_id":   assetID.String(),
		"project_id": projectID.String(),
	}, &assetID); err != nil {
		rc.Fail(err)
		return err
	}

	rc.Succeed(map[string]any{"segment_count": len(segs)})
	return nil
}

func summaryText(transcript string, sceneTags []string) string {
	transcript = strings.TrimSpace(transcript)
	if transcript != "" {
		sentence := firstSentence(transcript)
		return truncateRunes(sentence, 50)
	}
	if len(sceneTags) > 0 {
		return strings.Join(sceneTags, ", ")
	}
	return "video segment"
}

func firstSentence(s string) string {
	for _, sep := range []string{". ", "! ", "? "} {
		if idx := strings.Index(s, sep); idx >= 0 {
			return s[:idx]
		}
	}
	return strings.TrimRight(s, ".!? ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func keywordTokens(transcript string) []string {
	fields := strings.Fields(transcript)
	if len(fields) > 5 {
		fields = fields[:5]
	}
	return fields
}

func segmentKind(transcript string, hasFace bool, motionScore float64) string {
	hasTranscript := strings.TrimSpace(transcript) != ""
	switch {
	case hasTranscript && hasFace:
		return "talking_head"
	case !hasTranscript && motionScore > 50:
		return "action"
	case !hasTranscript && motionScore <= 50:
		return "broll"
	default:
		return ""
	}
}

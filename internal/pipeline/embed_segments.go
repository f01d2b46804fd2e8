package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/retrieval"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/ticks"
)

const (
	TextEmbeddingModel   = "all-MiniLM-L6-v2"
	VisionEmbeddingModel = "clip-vit-b-32"
)

type EmbedSegmentsHandler struct {
	Store *store.Store
	ML    *mlclient.Client
}

func (EmbedSegmentsHandler) Type() domain.JobType { return domain.JobEmbedSegments }

func (h EmbedSegmentsHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("embed_segments: payload missing asset_id")
		rc.Fail(err)
		return err
	}

	asset, err := h.Store.GetAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}
	segs, err := h.Store.ListSegmentsByAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	for _, seg := range segs {
		textEmb, err := h.ensureTextEmbedding(rc, seg)
		if err != nil {
			rc.Fail(err)
			return err
		}
		visionEmb, err := h.ensureVisionEmbedding(rc, seg, asset.Path)
		if err != nil {
			rc.Fail(err)
			return err
		}
		if textEmb != nil && visionEmb != nil {
			if err := h.ensureFusionEmbedding(rc, seg, textEmb, visionEmb); err != nil {
				rc.Fail(err)
				return err
			}
		}
	}

	if err := rc.StampReadiness(assetID, domain.JobEmbedSegments); err != nil {
		rc.Fail(err)
		return err
	}
	rc.Succeed(map[string]any{"segment_count": len(segs)})
	return nil
}

func (h EmbedSegmentsHandler) ensureTextEmbedding(rc *jobs.RunContext, seg *domain.Segment) ([]float32, error) {
	existing, err := h.Store.GetEmbedding(rc.Ctx, seg.ID, domain.EmbeddingText, TextEmbeddingModel)
	if err == nil {
		return retrieval.DecodeVector(existing.Vector), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	doc := fmt.Sprintf("spoken: %s\nsummary: %s\nkeywords: %s", seg.Transcript, seg.SummaryText, strings.Join(keywordsFromJSON(seg.KeywordsJSON), " "))
	vec, err := h.ML.EmbedText(rc.Ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := h.Store.UpsertEmbedding(rc.Ctx, &domain.Embedding{
		SegmentID:     seg.ID,
		EmbeddingType: string(domain.EmbeddingText),
		ModelName:     TextEmbeddingModel,
		Vector:        retrieval.EncodeVector(vec),
	}); err != nil {
		return nil, err
	}
	return vec, nil
}

func (h EmbedSegmentsHandler) ensureVisionEmbedding(rc *jobs.RunContext, seg *domain.Segment, mediaPath string) ([]float32, error) {
	existing, err := h.Store.GetEmbedding(rc.Ctx, seg.ID, domain.EmbeddingVision, VisionEmbeddingModel)
	if err == nil {
		return retrieval.DecodeVector(existing.Vector), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	startSec := ticks.ToSeconds(seg.CoalescedIn())
	endSec := ticks.ToSeconds(seg.CoalescedOut())
	vec, err := h.ML.EmbedVision(rc.Ctx, mediaPath, startSec, endSec)
	if err != nil {
		return nil, err
	}
	if err := h.Store.UpsertEmbedding(rc.Ctx, &domain.Embedding{
		SegmentID:     seg.ID,
		EmbeddingType: string(domain.EmbeddingVision),
		ModelName:     VisionEmbeddingModel,
		Vector:        retrieval.EncodeVector(vec),
	}); err != nil {
		return nil, err
	}
	return vec, nil
}

func (h EmbedSegmentsHandler) ensureFusionEmbedding(rc *jobs.RunContext, seg *domain.Segment, text, vision []float32) error {
	_, err := h.Store.GetEmbedding(rc.Ctx, seg.ID, domain.EmbeddingFusion, fusionModelName())
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	fused := retrieval.FuseTextVision(text, vision)
	return h.Store.UpsertEmbedding(rc.Ctx, &domain.Embedding{
		SegmentID:     seg.ID,
		EmbeddingType: string(domain.EmbeddingFusion),
		ModelName:     fusionModelName(),
		Vector:        retrieval.EncodeVector(fused),
	})
}

func fusionModelName() string {
	return TextEmbeddingModel + "+" + VisionEmbeddingModel
}

func keywordsFromJSON(raw []byte) []string {
	var out []string
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

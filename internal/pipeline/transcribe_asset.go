package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/store"
)

type TranscribeAssetHandler struct {
	Store *store.Store
	ML    *mlclient.Client
}

func (TranscribeAssetHandler) Type() domain.JobType { return domain.JobTranscribeAsset }

func (h TranscribeAssetHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("transcribe_asset: payload missing asset_id")
		rc.Fail(err)
		return err
	}
	projectID, _ := rc.ProjectID()

	asset, err := h.Store.GetAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	resp, err := h.ML.Transcribe(rc.Ctx, asset.Path)
	if err != nil {
		rc.Fail(err)
		return err
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		rc.Fail(err)
		return err
	}
	if err := h.Store.PutRawTranscript(rc.Ctx, assetID, raw); err != nil {
		rc.Fail(err)
		return err
	}
	if err := rc.StampReadiness(assetID, domain.JobTranscribeAsset); err != nil {
		rc.Fail(err)
		return err
	}

	if _, err := rc.Enqueue(domain.JobEnrichSegmentsFromTranscript, map[string]any{
		"asset_id":   assetID.String(),
		"project_id": projectID.String(),
	}, &assetID); err != nil {
		rc.Fail(err)
		return err
	}

	rc.Succeed(map[string]any{"segment_count": len(resp.Segments)})
	return nil
}

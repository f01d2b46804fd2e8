package pipeline

import (
	"fmt"
	"time"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/videosearch"
)

// IndexPollBudget is the overall time budget AwaitUploadTask is given
// per invocation before it gives up on a stuck remote task.
const IndexPollBudget = 10 * time.Minute

type IndexAssetWithExternalServiceHandler struct {
	Store       *store.Store
	VideoSearch *videosearch.Client
}

func (IndexAssetWithExternalServiceHandler) Type() domain.JobType {
	return domain.JobIndexAssetWithExternalService
}

func (h IndexAssetWithExternalServiceHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("index_asset_with_external_service: payload missing asset_id")
		rc.Fail(err)
		return err
	}

	asset, err := h.Store.GetAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}
	project, err := h.Store.GetProject(rc.Ctx, asset.ProjectID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	indexID := ""
	if project.ExternalIndexID != nil {
		indexID = *project.ExternalIndexID
	} else {
		indexID, err = h.VideoSearch.CreateIndex(rc.Ctx, assetID.String())
		if err != nil {
			rc.Fail(err)
			return err
		}
		now := time.Now()
		if err := h.Store.UpdateProjectFields(rc.Ctx, project.ID, map[string]any{
			"external_index_id": indexID,
			"external_index_at": &now,
		}); err != nil {
			rc.Fail(err)
			return err
		}
	}

	taskID, err := h.VideoSearch.CreateUploadTask(rc.Ctx, indexID, asset.Path)
	if err != nil {
		rc.Fail(err)
		return err
	}
	if err := h.Store.UpdateAssetFields(rc.Ctx, assetID, map[string]any{
		"external_task_id": &taskID,
	}); err != nil {
		rc.Fail(err)
		return err
	}
	rc.Progress("polling_external_index", 0.5)

	videoID, err := h.VideoSearch.AwaitUploadTask(rc.Ctx, taskID, IndexPollBudget)
	if err != nil {
		_ = h.Store.UpdateAssetFields(rc.Ctx, assetID, map[string]any{
			"last_external_error": stringPtr(err.Error()),
			"external_task_id":    nil,
		})
		rc.Fail(err)
		return err
	}

	if err := h.Store.UpdateAssetFields(rc.Ctx, assetID, map[string]any{
		"external_task_id":  nil,
		"external_video_id": &videoID,
	}); err != nil {
		rc.Fail(err)
		return err
	}
	if err := rc.StampReadiness(assetID, domain.JobIndexAssetWithExternalService); err != nil {
		rc.Fail(err)
		return err
	}

	rc.Succeed(map[string]any{"external_video_id": videoID})
	return nil
}

func stringPtr(s string) *string { return &s }

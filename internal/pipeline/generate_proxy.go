package pipeline

import (
	"fmt"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/media"
	"github.com/vibecut/daemon/internal/store"
)

// GenerateProxyHandler produces the thumbnail directory a source asset
// streams from in the media API. It carries no readiness column of
// its own — proxy/thumbnail generation sits outside the analysis gate
// entirely, so nothing downstream waits on it.
type GenerateProxyHandler struct {
	Store  *store.Store
	Prober media.Prober
}

func (GenerateProxyHandler) Type() domain.JobType { return domain.JobGenerateProxy }

func (h GenerateProxyHandler) Run(rc *jobs.RunContext) error {
	assetID, ok := rc.AssetID()
	if !ok {
		err := fmt.Errorf("generate_proxy: payload missing asset_id")
		rc.Fail(err)
		return err
	}

	asset, err := h.Store.GetAsset(rc.Ctx, assetID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	if asset.ThumbnailDir != nil {
		rc.Succeed(map[string]any{"thumbnail_dir": *asset.ThumbnailDir, "already_present": true})
		return nil
	}

	probe, err := h.Prober.Probe(rc.Ctx, asset.Path)
	if err != nil {
		rc.Fail(err)
		return err
	}
	if probe.ThumbnailDir == "" {
		rc.Succeed(map[string]any{"thumbnail_dir": ""})
		return nil
	}
	if err := h.Store.UpdateAssetFields(rc.Ctx, assetID, map[string]any{"thumbnail_dir": probe.ThumbnailDir}); err != nil {
		rc.Fail(err)
		return err
	}
	rc.Succeed(map[string]any{"thumbnail_dir": probe.ThumbnailDir})
	return nil
}

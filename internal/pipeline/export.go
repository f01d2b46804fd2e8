package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/render"
	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/timeline"
)

// ExportHandler synthesizes render commands for a project's current
// timeline. It does not invoke ffmpeg: the job's result is the
// command description an external worker (or operator) would run, the
// same split the orchestrator keeps between deciding and doing.
type ExportHandler struct {
	Store       *store.Store
	Synthesizer render.Synthesizer
}

func (ExportHandler) Type() domain.JobType { return domain.JobExport }

func (h ExportHandler) Run(rc *jobs.RunContext) error {
	projectID, ok := rc.ProjectID()
	if !ok {
		err := fmt.Errorf("export: payload missing project_id")
		rc.Fail(err)
		return err
	}

	project, err := h.Store.GetProject(rc.Ctx, projectID)
	if err != nil {
		rc.Fail(err)
		return err
	}

	version, err := h.Store.GetCurrentTimeline(rc.Ctx, projectID)
	if err != nil {
		rc.Fail(err)
		return err
	}
	tl, err := timeline.Unmarshal(version.Blob)
	if err != nil {
		rc.Fail(err)
		return err
	}

	assetPaths, err := h.resolveAssetPaths(rc, tl)
	if err != nil {
		rc.Fail(err)
		return err
	}

	outputPath := filepath.Join(project.CacheDir, "exports", rc.Job.ID.String()+".mp4")
	cmd, err := h.Synthesizer.Synthesize(tl, assetPaths, outputPath)
	if err != nil {
		rc.Fail(err)
		return err
	}

	rc.Succeed(cmd)
	return nil
}

// resolveAssetPaths looks up every asset referenced by the primary
// track so the synthesizer never has to touch the store itself.
// Overlay lanes aren't part of the render yet (ConcatSynthesizer only
// walks the primary track), so their assets are skipped here too.
func (h ExportHandler) resolveAssetPaths(rc *jobs.RunContext, tl *timeline.Timeline) (map[uuid.UUID]string, error) {
	seen := map[uuid.UUID]string{}
	for _, t := range tl.Tracks {
		if !t.IsPrimary() {
			continue
		}
		for _, clip := range t.Clips {
			if _, ok := seen[clip.AssetID]; ok {
				continue
			}
			asset, err := h.Store.GetAsset(rc.Ctx, clip.AssetID)
			if err != nil {
				return nil, fmt.Errorf("export: resolving asset %s: %w", clip.AssetID, err)
			}
			seen[clip.AssetID] = asset.Path
		}
	}
	return seen, nil
}

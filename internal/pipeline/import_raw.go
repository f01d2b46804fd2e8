package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/media"
	"github.com/vibecut/daemon/internal/store"
)

// ImportRawHandler turns one or more source paths into MediaAsset
// rows, probing each with media.Prober, then kicks off the rest of
// the pipeline (BuildSegments, GenerateProxy) for every asset it
// actually creates. A path already imported for the project (same
// project_id + path) is skipped rather than duplicated.
type ImportRawHandler struct {
	Store  *store.Store
	Prober media.Prober
}

func (ImportRawHandler) Type() domain.JobType { return domain.JobImportRaw }

func (h ImportRawHandler) Run(rc *jobs.RunContext) error {
	projectID, ok := rc.ProjectID()
	if !ok {
		err := fmt.Errorf("import_raw: payload missing project_id")
		rc.Fail(err)
		return err
	}

	paths, err := resolvePaths(rc.Payload())
	if err != nil {
		rc.Fail(err)
		return err
	}

	isReference, _ := rc.Payload()["is_reference"].(bool)

	var createdIDs []string
	for i, path := range paths {
		rc.Progress("importing", float64(i)/float64(len(paths)))

		if existing, err := h.Store.GetAssetByPath(rc.Ctx, projectID, path); err == nil {
			createdIDs = append(createdIDs, existing.ID.String())
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			rc.Fail(err)
			return err
		}

		probe, err := h.Prober.Probe(rc.Ctx, path)
		if err != nil {
			rc.Fail(err)
			return err
		}

		asset := &domain.MediaAsset{
			ProjectID:     projectID,
			Path:          path,
			DurationTicks: probe.DurationTicks,
			FrameRateNum:  probe.FrameRateNum,
			FrameRateDen:  probe.FrameRateDen,
			Width:         probe.Width,
			Height:        probe.Height,
			AudioPresent:  probe.AudioPresent,
			IsReference:   isReference,
		}
		if probe.ContentHash != "" {
			asset.ContentHash = &probe.ContentHash
		}
		if probe.ThumbnailDir != "" {
			asset.ThumbnailDir = &probe.ThumbnailDir
		}
		if err := h.Store.CreateAsset(rc.Ctx, asset); err != nil {
			rc.Fail(err)
			return err
		}

		if _, err := rc.Enqueue(domain.JobBuildSegments, map[string]any{
			"asset_id":   asset.ID.String(),
			"project_id": projectID.String(),
		}, &asset.ID); err != nil {
			rc.Fail(err)
			return err
		}
		if _, err := rc.Enqueue(domain.JobGenerateProxy, map[string]any{
			"asset_id":   asset.ID.String(),
			"project_id": projectID.String(),
		}, &asset.ID); err != nil {
			rc.Fail(err)
			return err
		}
		createdIDs = append(createdIDs, asset.ID.String())
	}

	rc.Succeed(map[string]any{"asset_ids": createdIDs})
	return nil
}

// resolvePaths expands a payload's folder_path or file_paths into a
// flat list of regular files. folder_path is walked non-recursively —
// one asset per direct child file — mirroring what a user actually
// drags into an import dialog.
func resolvePaths(payload map[string]any) ([]string, error) {
	if raw, ok := payload["file_paths"]; ok {
		list, ok := raw.([]any)
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("import_raw: file_paths must be a non-empty array")
		}
		out := make([]string, 0, len(list))
		for _, v := range list {
			out = append(out, fmt.Sprint(v))
		}
		return out, nil
	}

	folder, ok := payload["folder_path"].(string)
	if !ok || folder == "" {
		return nil, fmt.Errorf("import_raw: payload must set folder_path or file_paths")
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, filepath.Join(folder, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("import_raw: folder %s has no files", folder)
	}
	return out, nil
}

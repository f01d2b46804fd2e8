package retrieval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/videosearch"
)

// External searches the project's remote video index and snaps each
// hit onto a local segment, materializing a dynamic one where nothing
// already covers it well.
type External struct {
	Store       *store.Store
	VideoSearch *videosearch.Client
}

// Ready reports whether the project has a remote index with at least
// one asset actually uploaded into it, so callers can route straight
// to Local instead of failing. Search itself only checks that the
// project has an index id.
func (b External) Ready(ctx context.Context, projectID uuid.UUID, indexID string) (bool, error) {
	if indexID == "" {
		return false, nil
	}
	assets, err := b.Store.ListAssetsIndexedExternally(ctx, projectID)
	if err != nil {
		return false, err
	}
	return len(assets) > 0, nil
}

func (b External) Search(ctx context.Context, q Query) (*Result, error) {
	project, err := b.Store.GetProject(ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.ExternalIndexID == nil {
		return nil, fmt.Errorf("retrieval: project %s has no external index", q.ProjectID)
	}

	topK := q.TopK
	if topK <= 0 {
		topK = LocalOversample
	}

	hits, err := b.VideoSearch.Search(ctx, videosearch.SearchRequest{
		Query:   q.Text,
		IndexID: *project.ExternalIndexID,
		TopK:    topK,
	})
	if err != nil {
		return nil, err
	}

	debug := Debug{BackendUsed: "external_video_search"}
	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		seg, snapped, err := snapHit(ctx, b.Store, q.ProjectID, hit)
		if err != nil {
			continue
		}
		if snapped {
			debug.Snapped++
		} else {
			debug.Created++
		}
		candidates = append(candidates, Candidate{
			SegmentID:   seg.ID,
			AssetID:     seg.AssetID,
			Similarity:  hit.Score,
			SummaryText: seg.SummaryText,
		})
	}

	return &Result{Candidates: candidates, Debug: debug}, nil
}

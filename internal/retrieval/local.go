package retrieval

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/store"
)

// scoreConcurrency bounds how many segment lookups run at once while
// scoring a batch of embeddings — generous for a local sqlite file,
// but not unbounded against a project with tens of thousands of rows.
const scoreConcurrency = 16

// LocalOversample is the number of candidates the local backend
// returns before diversification narrows the set down.
const LocalOversample = 200

// Local embeds the query text and scans stored fusion embeddings
// (falling back to text embeddings where no fusion row exists yet),
// restricted to non-reference segments of the queried project.
type Local struct {
	Store *store.Store
	ML    *mlclient.Client
}

func (b Local) Search(ctx context.Context, q Query) (*Result, error) {
	queryVec, err := b.ML.EmbedText(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	fusionEmbeddings, err := b.Store.ListEmbeddingsByProject(ctx, q.ProjectID, domain.EmbeddingFusion)
	if err != nil {
		return nil, err
	}
	textEmbeddings, err := b.Store.ListEmbeddingsByProject(ctx, q.ProjectID, domain.EmbeddingText)
	if err != nil {
		return nil, err
	}

	haveFusion := make(map[string]struct{}, len(fusionEmbeddings))
	for _, e := range fusionEmbeddings {
		haveFusion[e.SegmentID.String()] = struct{}{}
	}

	type job struct {
		segmentID uuid.UUID
		vector    []float32
	}
	jobs := make([]job, 0, len(fusionEmbeddings)+len(textEmbeddings))
	for _, e := range fusionEmbeddings {
		jobs = append(jobs, job{e.SegmentID, DecodeVector(e.Vector)})
	}
	for _, e := range textEmbeddings {
		if _, ok := haveFusion[e.SegmentID.String()]; ok {
			continue
		}
		jobs = append(jobs, job{e.SegmentID, DecodeVector(e.Vector)})
	}

	scored := make([]Candidate, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreConcurrency)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			scored[i] = b.score(gctx, j.segmentID, queryVec, j.vector)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })

	topK := LocalOversample
	if len(scored) < topK {
		topK = len(scored)
	}
	return &Result{Candidates: scored[:topK], Debug: Debug{BackendUsed: "local_embeddings"}}, nil
}

func (b Local) score(ctx context.Context, segmentID uuid.UUID, query, candidate []float32) Candidate {
	sim := Cosine(query, candidate)
	c := Candidate{Similarity: sim}
	if seg, err := b.Store.GetSegment(ctx, segmentID); err == nil {
		c.SegmentID = seg.ID
		c.AssetID = seg.AssetID
		c.SummaryText = seg.SummaryText
	}
	return c
}

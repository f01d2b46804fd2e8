// Package retrieval implements candidate segment search over a
// project's analyzed footage: a local cosine-similarity scan of
// stored embeddings, an external video-search pass that snaps hits
// onto persisted segments (materializing new ones where no segment
// covers a hit well), and a fallback decorator that composes the two.
package retrieval

import (
	"context"

	"github.com/google/uuid"
)

// Query is the shared input to every backend.
type Query struct {
	ProjectID uuid.UUID
	Text      string
	TopK      int
}

// Candidate is one retrieval hit, always traceable back to a
// non-reference segment of the queried project.
type Candidate struct {
	SegmentID   uuid.UUID `json:"segment_id"`
	AssetID     uuid.UUID `json:"asset_id"`
	Similarity  float64   `json:"similarity"`
	SummaryText string    `json:"summary_text"`
}

// Debug carries non-authoritative diagnostic fields surfaced to
// callers for observability; never required for correctness.
type Debug struct {
	BackendUsed    string `json:"backend_used,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	Snapped        int    `json:"snapped,omitempty"`
	Created        int    `json:"created,omitempty"`
}

type Result struct {
	Candidates []Candidate
	Debug      Debug
}

// Backend is implemented by Local, External, and FallbackBackend.
type Backend interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

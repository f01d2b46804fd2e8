// Package render turns a finished timeline into the commands an
// external renderer would execute to produce an output file. It never
// shells out to ffmpeg itself: that boundary belongs to whatever
// deployment wires a Synthesizer in, the same way internal/media keeps
// file probing out of the core.
package render

import (
	"fmt"

	"github.com/vibecut/daemon/internal/domain"
)

// RenderCommand is one segment of an ffmpeg-style filtergraph: an
// input clip trimmed to a source range, placed at a timeline offset,
// on a numbered output track.
type RenderCommand struct {
	AssetID      string  `json:"asset_id"`
	SourceInSec  float64 `json:"source_in_sec"`
	SourceOutSec float64 `json:"source_out_sec"`
	TimelineSec  float64 `json:"timeline_sec"`
	TrackIndex   int     `json:"track_index"`
	TrackKind    string  `json:"track_kind"`
}

// Synthesizer is implemented by whatever renders a timeline to a file.
// The package provides only the narrow interface and a deterministic
// reference implementation that flattens clip instances into commands
// without touching any real encoder.
type Synthesizer interface {
	Synthesize(tl *Timeline) ([]RenderCommand, error)
}

// Timeline is the minimal shape Synthesize needs, decoupled from
// internal/timeline's richer editing-time representation so this
// package can be exercised without importing the engine.
type Timeline struct {
	Tracks []Track
}

type Track struct {
	Kind  domain.TrackKind
	Index int
	Clips []ClipInstance
}

type ClipInstance struct {
	AssetID       string
	SourceInSec   float64
	SourceOutSec  float64
	TimelineInSec float64
}

type FiltergraphSynthesizer struct{}

func NewFiltergraphSynthesizer() FiltergraphSynthesizer { return FiltergraphSynthesizer{} }

func (FiltergraphSynthesizer) Synthesize(tl *Timeline) ([]RenderCommand, error) {
	if tl == nil {
		return nil, fmt.Errorf("render: nil timeline")
	}
	var out []RenderCommand
	for _, track := range tl.Tracks {
		for _, clip := range track.Clips {
			if clip.SourceOutSec <= clip.SourceInSec {
				return nil, fmt.Errorf("render: clip on track %d has non-positive duration", track.Index)
			}
			out = append(out, RenderCommand{
				AssetID:      clip.AssetID,
				SourceInSec:  clip.SourceInSec,
				SourceOutSec: clip.SourceOutSec,
				TimelineSec:  clip.TimelineInSec,
				TrackIndex:   track.Index,
				TrackKind:    string(track.Kind),
			})
		}
	}
	return out, nil
}

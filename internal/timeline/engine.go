package timeline

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/domain"
)

// Operation is one requested mutation, carrying only the fields its
// Kind needs. Unused fields are zero and ignored.
type Operation struct {
	Kind domain.TimelineOperation `json:"kind"`

	Clip      uuid.UUID `json:"clip,omitempty"`
	Asset     uuid.UUID `json:"asset,omitempty"`
	Pos       int64     `json:"pos,omitempty"`
	NewPos    int64     `json:"new_pos,omitempty"`
	NewIn     int64     `json:"new_in,omitempty"`
	NewOut    int64     `json:"new_out,omitempty"`
	InTicks   int64     `json:"in_ticks,omitempty"`
	OutTicks  int64     `json:"out_ticks,omitempty"`
	Duration  int64     `json:"duration,omitempty"`
	Track     int       `json:"track,omitempty"`
	NewTrack  int       `json:"new_track,omitempty"`
	BaseTrack int       `json:"base_track,omitempty"`
}

// Apply runs every operation against tl in order, then implicitly
// consolidates the result. A failing operation stops the batch and
// returns the error together with the timeline as it stood at that
// point (already-applied operations are not rolled back).
func Apply(tl *Timeline, ops []Operation) (*Timeline, error) {
	var err error
	for _, op := range ops {
		tl, err = applyOne(tl, op)
		if err != nil {
			return tl, fmt.Errorf("timeline: %s: %w", op.Kind, err)
		}
	}
	return ConsolidateTimeline(tl), nil
}

func applyOne(tl *Timeline, op Operation) (*Timeline, error) {
	switch op.Kind {
	case domain.OpSplitClip:
		return SplitClip(tl, op.Clip, op.Pos)
	case domain.OpTrimClip:
		return TrimClip(tl, op.Clip, op.NewIn, op.NewOut)
	case domain.OpDeleteClip:
		return DeleteClip(tl, op.Clip)
	case domain.OpInsertClip:
		tl, _, err := InsertClip(tl, op.Asset, op.Pos, op.Track, op.InTicks, op.OutTicks)
		return tl, err
	case domain.OpMoveClip:
		return MoveClip(tl, op.Clip, op.NewPos)
	case domain.OpReorderClip:
		return ReorderClip(tl, op.Clip, op.NewPos)
	case domain.OpMoveClipToTrack:
		return MoveClipToTrack(tl, op.Clip, op.NewTrack)
	case domain.OpRippleInsertClip:
		tl, _, err := RippleInsertClip(tl, op.Asset, op.Pos, op.InTicks, op.OutTicks)
		return tl, err
	case domain.OpOverwriteClip:
		tl, _, err := OverwriteClip(tl, op.Asset, op.Pos, op.InTicks, op.OutTicks)
		return tl, err
	case domain.OpInsertLayeredClip:
		tl, _, err := InsertLayeredClip(tl, op.Asset, op.Pos, op.InTicks, op.OutTicks, op.BaseTrack)
		return tl, err
	case domain.OpConvertPrimaryToOverlay:
		return ConvertPrimaryToOverlay(tl, op.Clip, op.Pos)
	case domain.OpConvertOverlayToPrimary:
		return ConvertOverlayToPrimary(tl, op.Clip, op.Pos)
	case domain.OpConsolidateTimeline:
		return ConsolidateTimeline(tl), nil
	case domain.OpClearTimeline:
		return ClearTimeline(tl), nil
	default:
		return tl, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

// Marshal serializes a timeline for persistence as a store blob.
func Marshal(tl *Timeline) ([]byte, error) {
	return json.Marshal(tl)
}

// Unmarshal parses a persisted blob back into a Timeline.
func Unmarshal(blob []byte) (*Timeline, error) {
	var tl Timeline
	if err := json.Unmarshal(blob, &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

// New returns an empty timeline with the given settings and a single
// empty primary track.
func New(settings Settings) *Timeline {
	return &Timeline{
		Settings: settings,
		Tracks:   []Track{{ID: PrimaryTrackID, Kind: TrackVideo}},
	}
}

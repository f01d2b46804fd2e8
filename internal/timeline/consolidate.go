package timeline

import "sort"

// repackPrimary sorts the primary track by TimelineStartTicks, anchors
// the first clip at 0, and removes every gap so each clip's start
// equals the previous clip's end.
func repackPrimary(p *Track) {
	sort.Slice(p.Clips, func(i, j int) bool {
		return p.Clips[i].TimelineStartTicks < p.Clips[j].TimelineStartTicks
	})
	var cursor int64
	for i := range p.Clips {
		p.Clips[i].TimelineStartTicks = cursor
		cursor += p.Clips[i].Duration()
	}
}

// ConsolidateTimeline re-sorts the primary track, repacks it gapless
// from zero, and drops any non-primary video track left with no
// clips. Caption, music, and marker lists are untouched. It is
// idempotent: consolidating an already-consolidated timeline is a
// no-op.
func ConsolidateTimeline(tl *Timeline) *Timeline {
	repackPrimary(tl.primary())

	kept := tl.Tracks[:0:0]
	for _, t := range tl.Tracks {
		if t.IsOverlay() && len(t.Clips) == 0 {
			continue
		}
		kept = append(kept, t)
	}
	tl.Tracks = kept
	return tl
}

// ClearTimeline empties every track, caption, music cue, and marker,
// leaving only an empty primary track and the original settings.
func ClearTimeline(tl *Timeline) *Timeline {
	tl.Tracks = []Track{{ID: PrimaryTrackID, Kind: TrackVideo}}
	tl.Captions = nil
	tl.Music = nil
	tl.Markers = nil
	return tl
}

package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

// SplitClip splits the clip containing pos into two: the left clip
// keeps its identity and source bounds up to pos, the right clip is a
// freshly identified clip starting at pos running to the original
// clip's end. pos must fall strictly inside the clip's timeline span.
func SplitClip(tl *Timeline, clipID uuid.UUID, pos int64) (*Timeline, error) {
	ti, ci, ok := findClip(tl.Tracks, clipID)
	if !ok {
		return tl, fmt.Errorf("timeline: clip %s not found", clipID)
	}
	c := tl.Tracks[ti].Clips[ci]
	if pos <= c.TimelineStartTicks || pos >= c.TimelineEnd() {
		return tl, fmt.Errorf("timeline: split position %d outside clip %s span [%d,%d)", pos, clipID, c.TimelineStartTicks, c.TimelineEnd())
	}
	delta := pos - c.TimelineStartTicks

	left := c
	left.OutTicks = c.InTicks + delta

	right := c
	right.ID = uuid.New()
	right.InTicks = c.InTicks + delta
	right.TimelineStartTicks = pos

	clips := tl.Tracks[ti].Clips
	clips[ci] = left
	clips = append(clips[:ci+1], append([]ClipInstance{right}, clips[ci+1:]...)...)
	tl.Tracks[ti].Clips = clips

	if tl.Tracks[ti].IsPrimary() {
		repackPrimary(&tl.Tracks[ti])
	}
	return tl, nil
}

// TrimClip sets a clip's source bounds directly. Moving the left edge
// (new_in != in) shifts the clip's timeline position by the same
// delta so the clip's on-timeline duration tracks its new source
// span: trimming in later moves the clip later, extending in earlier
// (negative delta) moves it earlier.
func TrimClip(tl *Timeline, clipID uuid.UUID, newIn, newOut int64) (*Timeline, error) {
	ti, ci, ok := findClip(tl.Tracks, clipID)
	if !ok {
		return tl, fmt.Errorf("timeline: clip %s not found", clipID)
	}
	c := &tl.Tracks[ti].Clips[ci]
	delta := newIn - c.InTicks
	c.InTicks = newIn
	c.OutTicks = newOut
	c.TimelineStartTicks += delta

	if tl.Tracks[ti].IsPrimary() {
		repackPrimary(&tl.Tracks[ti])
	}
	return tl, nil
}

// DeleteClip removes a clip. On the primary track this ripples: every
// later clip shifts left by the deleted clip's duration, then the
// track is repacked gapless from zero.
func DeleteClip(tl *Timeline, clipID uuid.UUID) (*Timeline, error) {
	ti, ci, ok := findClip(tl.Tracks, clipID)
	if !ok {
		return tl, fmt.Errorf("timeline: clip %s not found", clipID)
	}
	removed := tl.Tracks[ti].Clips[ci]
	tl.Tracks[ti].Clips = append(tl.Tracks[ti].Clips[:ci], tl.Tracks[ti].Clips[ci+1:]...)

	if tl.Tracks[ti].IsPrimary() {
		for i := range tl.Tracks[ti].Clips {
			if tl.Tracks[ti].Clips[i].TimelineStartTicks > removed.TimelineStartTicks {
				tl.Tracks[ti].Clips[i].TimelineStartTicks -= removed.Duration()
			}
		}
		repackPrimary(&tl.Tracks[ti])
	}
	return tl, nil
}

// InsertClip inserts a new clip of the given source duration at pos.
// A non-positive or 1 track id is coerced to the primary track; any
// other value is treated as an overlay lane (created if it does not
// exist yet). The primary track is repacked afterward; overlay
// insertion is a plain append, since overlays are not magnetic.
func InsertClip(tl *Timeline, assetID uuid.UUID, pos int64, track int, inTicks, outTicks int64) (*Timeline, ClipInstance, error) {
	if track <= 1 {
		track = PrimaryTrackID
	}
	clip := ClipInstance{
		ID:                 uuid.New(),
		AssetID:            assetID,
		InTicks:            inTicks,
		OutTicks:           outTicks,
		TimelineStartTicks: pos,
		Speed:              1.0,
		TrackID:            track,
	}

	t := tl.track(track)
	if t == nil {
		kind := TrackVideo
		tl.Tracks = append(tl.Tracks, Track{ID: track, Kind: kind})
		t = tl.track(track)
	}
	t.Clips = append(t.Clips, clip)

	if t.IsPrimary() {
		repackPrimary(t)
	}
	return tl, clip, nil
}

// MoveClip repositions a clip. On the primary track this is magnetic:
// the clip is removed (closing the gap it left), new_pos is clamped
// to [0, primary_end], every clip at or past new_pos shifts right by
// the moved clip's duration, then the clip is reinserted and the track
// repacked. On overlay tracks it is a simple reposition with no ripple.
func MoveClip(tl *Timeline, clipID uuid.UUID, newPos int64) (*Timeline, error) {
	ti, ci, ok := findClip(tl.Tracks, clipID)
	if !ok {
		return tl, fmt.Errorf("timeline: clip %s not found", clipID)
	}
	track := &tl.Tracks[ti]
	clip := track.Clips[ci]

	if !track.IsPrimary() {
		track.Clips[ci].TimelineStartTicks = newPos
		return tl, nil
	}

	track.Clips = append(track.Clips[:ci], track.Clips[ci+1:]...)
	repackPrimary(track)

	primaryEnd := int64(0)
	for _, c := range track.Clips {
		if c.TimelineEnd() > primaryEnd {
			primaryEnd = c.TimelineEnd()
		}
	}
	if newPos < 0 {
		newPos = 0
	}
	if newPos > primaryEnd {
		newPos = primaryEnd
	}

	for i := range track.Clips {
		if track.Clips[i].TimelineStartTicks >= newPos {
			track.Clips[i].TimelineStartTicks += clip.Duration()
		}
	}
	clip.TimelineStartTicks = newPos
	track.Clips = append(track.Clips, clip)
	repackPrimary(track)
	return tl, nil
}

// ReorderClip is the primary-only variant of MoveClip; the semantics
// are identical.
func ReorderClip(tl *Timeline, clipID uuid.UUID, newPos int64) (*Timeline, error) {
	if ti, _, ok := findClip(tl.Tracks, clipID); ok && !tl.Tracks[ti].IsPrimary() {
		return tl, fmt.Errorf("timeline: clip %s is not on the primary track", clipID)
	}
	return MoveClip(tl, clipID, newPos)
}

// MoveClipToTrack relocates a clip to a different track id without
// applying any magnetic effect at the destination, even if the
// destination is the primary track — the caller is expected to follow
// up with ConsolidateTimeline if a gapless primary is required.
func MoveClipToTrack(tl *Timeline, clipID uuid.UUID, newTrack int) (*Timeline, error) {
	ti, ci, ok := findClip(tl.Tracks, clipID)
	if !ok {
		return tl, fmt.Errorf("timeline: clip %s not found", clipID)
	}
	clip := tl.Tracks[ti].Clips[ci]
	tl.Tracks[ti].Clips = append(tl.Tracks[ti].Clips[:ci], tl.Tracks[ti].Clips[ci+1:]...)

	clip.TrackID = newTrack
	dest := tl.track(newTrack)
	if dest == nil {
		tl.Tracks = append(tl.Tracks, Track{ID: newTrack, Kind: TrackVideo})
		dest = tl.track(newTrack)
	}
	dest.Clips = append(dest.Clips, clip)
	return tl, nil
}

// RippleInsertClip inserts a new primary clip at pos, shifting every
// clip already at or past pos to the right by the new clip's
// duration, then repacks.
func RippleInsertClip(tl *Timeline, assetID uuid.UUID, pos int64, inTicks, outTicks int64) (*Timeline, ClipInstance, error) {
	p := tl.primary()
	duration := outTicks - inTicks
	for i := range p.Clips {
		if p.Clips[i].TimelineStartTicks >= pos {
			p.Clips[i].TimelineStartTicks += duration
		}
	}
	clip := ClipInstance{
		ID:                 uuid.New(),
		AssetID:            assetID,
		InTicks:            inTicks,
		OutTicks:           outTicks,
		TimelineStartTicks: pos,
		Speed:              1.0,
		TrackID:            PrimaryTrackID,
	}
	p.Clips = append(p.Clips, clip)
	repackPrimary(p)
	return tl, clip, nil
}

// OverwriteClip inserts a new primary clip spanning [pos, pos+duration)
// after resolving every clip it overlaps: clips fully covered are
// removed, clips partially covered at an outer edge are trimmed back
// to the surviving portion, and a clip straddling both edges is split
// into two remnants (one ending at pos, one starting at pos+duration)
// so no footage is silently dropped.
func OverwriteClip(tl *Timeline, assetID uuid.UUID, pos int64, inTicks, outTicks int64) (*Timeline, ClipInstance, error) {
	p := tl.primary()
	duration := outTicks - inTicks
	end := pos + duration

	var kept []ClipInstance
	for _, c := range p.Clips {
		cs, ce := c.TimelineStartTicks, c.TimelineEnd()
		if !overlaps(cs, ce, pos, end) {
			kept = append(kept, c)
			continue
		}
		switch {
		case cs >= pos && ce <= end:
			// fully covered: drop
		case cs < pos && ce > end:
			// straddles both edges: split into two remnants
			left := c
			left.OutTicks = c.InTicks + (pos - cs)
			right := c
			right.ID = uuid.New()
			right.InTicks = c.InTicks + (end - cs)
			right.TimelineStartTicks = end
			kept = append(kept, left, right)
		case cs < pos:
			// overlaps the left edge only: trim tail back to pos
			trimmed := c
			trimmed.OutTicks = c.InTicks + (pos - cs)
			kept = append(kept, trimmed)
		default:
			// overlaps the right edge only: trim head forward to end
			trimmed := c
			delta := end - cs
			trimmed.InTicks = c.InTicks + delta
			trimmed.TimelineStartTicks = end
			kept = append(kept, trimmed)
		}
	}
	p.Clips = kept

	clip := ClipInstance{
		ID:                 uuid.New(),
		AssetID:            assetID,
		InTicks:            inTicks,
		OutTicks:           outTicks,
		TimelineStartTicks: pos,
		Speed:              1.0,
		TrackID:            PrimaryTrackID,
	}
	p.Clips = append(p.Clips, clip)
	repackPrimary(p)
	return tl, clip, nil
}

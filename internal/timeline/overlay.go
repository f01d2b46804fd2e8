package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

// FindAvailableOverlayLane returns the smallest video track id greater
// than base whose clips do not overlap [pos, pos+duration). If every
// existing lane above base conflicts (or none exist yet), it returns
// one past the highest track id present, leaving lane creation to the
// caller.
func FindAvailableOverlayLane(tl *Timeline, base int, pos, duration int64) int {
	end := pos + duration

	candidateIDs := map[int]bool{}
	for _, t := range tl.Tracks {
		if t.Kind == TrackVideo && t.ID > base {
			candidateIDs[t.ID] = true
		}
	}

	smallest := 0
	for id := range candidateIDs {
		if smallest != 0 && id >= smallest {
			continue
		}
		conflict := false
		track := tl.track(id)
		for _, c := range track.Clips {
			if overlaps(c.TimelineStartTicks, c.TimelineEnd(), pos, end) {
				conflict = true
				break
			}
		}
		if !conflict {
			smallest = id
		}
	}
	if smallest != 0 {
		return smallest
	}
	return tl.maxTrackID() + 1
}

// InsertLayeredClip places a new overlay clip onto the lowest-numbered
// lane above baseTrack that has room for it, creating the lane first
// if none exists yet.
func InsertLayeredClip(tl *Timeline, assetID uuid.UUID, pos int64, inTicks, outTicks int64, baseTrack int) (*Timeline, ClipInstance, error) {
	lane := FindAvailableOverlayLane(tl, baseTrack, pos, outTicks-inTicks)
	if tl.track(lane) == nil {
		tl.Tracks = append(tl.Tracks, Track{ID: lane, Kind: TrackVideo})
	}
	clip := ClipInstance{
		ID:                 uuid.New(),
		AssetID:            assetID,
		InTicks:            inTicks,
		OutTicks:           outTicks,
		TimelineStartTicks: pos,
		Speed:              1.0,
		TrackID:            lane,
	}
	t := tl.track(lane)
	t.Clips = append(t.Clips, clip)
	return tl, clip, nil
}

// ConvertPrimaryToOverlay removes a clip from the primary track
// (rippling the gap closed and repacking) and places it at pos on the
// first overlay lane with room, auto-creating a lane if needed.
func ConvertPrimaryToOverlay(tl *Timeline, clipID uuid.UUID, pos int64) (*Timeline, error) {
	ti, ci, ok := findClip(tl.Tracks, clipID)
	if !ok {
		return tl, fmt.Errorf("timeline: clip %s not found", clipID)
	}
	if !tl.Tracks[ti].IsPrimary() {
		return tl, fmt.Errorf("timeline: clip %s is not on the primary track", clipID)
	}
	clip := tl.Tracks[ti].Clips[ci]

	if _, err := DeleteClip(tl, clipID); err != nil {
		return tl, err
	}

	lane := FindAvailableOverlayLane(tl, PrimaryTrackID, pos, clip.Duration())
	if tl.track(lane) == nil {
		tl.Tracks = append(tl.Tracks, Track{ID: lane, Kind: TrackVideo})
	}
	clip.TrackID = lane
	clip.TimelineStartTicks = pos
	t := tl.track(lane)
	t.Clips = append(t.Clips, clip)
	return tl, nil
}

// ConvertOverlayToPrimary removes a clip from its overlay lane and
// ripple-inserts it onto the primary track at pos (clamped to
// [0, primary_end]), dropping the source lane if it is left empty.
func ConvertOverlayToPrimary(tl *Timeline, clipID uuid.UUID, pos int64) (*Timeline, error) {
	ti, ci, ok := findClip(tl.Tracks, clipID)
	if !ok {
		return tl, fmt.Errorf("timeline: clip %s not found", clipID)
	}
	sourceTrackID := tl.Tracks[ti].ID
	clip := tl.Tracks[ti].Clips[ci]
	tl.Tracks[ti].Clips = append(tl.Tracks[ti].Clips[:ci], tl.Tracks[ti].Clips[ci+1:]...)

	p := tl.primary()
	primaryEnd := int64(0)
	for _, c := range p.Clips {
		if c.TimelineEnd() > primaryEnd {
			primaryEnd = c.TimelineEnd()
		}
	}
	if pos < 0 {
		pos = 0
	}
	if pos > primaryEnd {
		pos = primaryEnd
	}

	for i := range p.Clips {
		if p.Clips[i].TimelineStartTicks >= pos {
			p.Clips[i].TimelineStartTicks += clip.Duration()
		}
	}
	clip.TrackID = PrimaryTrackID
	clip.TimelineStartTicks = pos
	p.Clips = append(p.Clips, clip)
	repackPrimary(p)

	if src := tl.track(sourceTrackID); src != nil && src.IsOverlay() && len(src.Clips) == 0 {
		kept := tl.Tracks[:0:0]
		for _, t := range tl.Tracks {
			if t.ID == sourceTrackID {
				continue
			}
			kept = append(kept, t)
		}
		tl.Tracks = kept
	}
	return tl, nil
}

// Package timeline implements the magnetic timeline: a primary video
// track that stays sorted, gapless, and anchored at zero after every
// operation, plus non-magnetic overlay lanes, caption/music tracks,
// and markers. Every operation is a pure function of the timeline it
// is applied to; callers serialize the result and persist it through
// the store.
package timeline

import (
	"github.com/google/uuid"
)

// PrimaryTrackID is the reserved id of the magnetic video track. Video
// tracks with a higher id are overlay lanes.
const PrimaryTrackID = 1

type Settings struct {
	FPS            float64 `json:"fps"`
	Resolution     string  `json:"resolution"`
	SampleRate     int     `json:"sample_rate"`
	TicksPerSecond int64   `json:"ticks_per_second"`
}

type ClipInstance struct {
	ID                 uuid.UUID `json:"id"`
	AssetID            uuid.UUID `json:"asset_id"`
	InTicks            int64     `json:"in_ticks"`
	OutTicks           int64     `json:"out_ticks"`
	TimelineStartTicks int64     `json:"timeline_start_ticks"`
	Speed              float64   `json:"speed"`
	TrackID            int       `json:"track_id"`
}

// Duration is the clip's source duration in ticks, unaffected by its
// playback speed.
func (c ClipInstance) Duration() int64 { return c.OutTicks - c.InTicks }

// TimelineEnd is the tick this clip ends at on the timeline.
func (c ClipInstance) TimelineEnd() int64 { return c.TimelineStartTicks + c.Duration() }

type TrackKind string

const (
	TrackVideo   TrackKind = "Video"
	TrackAudio   TrackKind = "Audio"
	TrackCaption TrackKind = "Caption"
)

type Track struct {
	ID    int            `json:"id"`
	Kind  TrackKind      `json:"kind"`
	Clips []ClipInstance `json:"clips"`
}

// IsPrimary reports whether this track is the magnetic storyline.
func (t Track) IsPrimary() bool { return t.Kind == TrackVideo && t.ID == PrimaryTrackID }

// IsOverlay reports whether this track is a non-magnetic video lane.
func (t Track) IsOverlay() bool { return t.Kind == TrackVideo && t.ID > PrimaryTrackID }

type Caption struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	StartTicks int64     `json:"start_ticks"`
	EndTicks   int64     `json:"end_ticks"`
}

type MusicCue struct {
	ID         uuid.UUID `json:"id"`
	AssetID    uuid.UUID `json:"asset_id"`
	StartTicks int64     `json:"start_ticks"`
	EndTicks   int64     `json:"end_ticks"`
}

type Marker struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Ticks int64     `json:"ticks"`
}

type Timeline struct {
	Settings Settings   `json:"settings"`
	Tracks   []Track    `json:"tracks"`
	Captions []Caption  `json:"captions"`
	Music    []MusicCue `json:"music"`
	Markers  []Marker   `json:"markers"`
}

// track returns a pointer to the track with the given id, or nil.
func (tl *Timeline) track(id int) *Track {
	for i := range tl.Tracks {
		if tl.Tracks[i].ID == id {
			return &tl.Tracks[i]
		}
	}
	return nil
}

// primary returns the magnetic track, creating it if the timeline has
// none yet (an empty timeline still has a primary track by contract).
func (tl *Timeline) primary() *Track {
	if p := tl.track(PrimaryTrackID); p != nil {
		return p
	}
	tl.Tracks = append(tl.Tracks, Track{ID: PrimaryTrackID, Kind: TrackVideo})
	return tl.track(PrimaryTrackID)
}

// maxTrackID returns the highest track id present, or 0 if there are
// no tracks yet.
func (tl *Timeline) maxTrackID() int {
	max := 0
	for _, t := range tl.Tracks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

func overlaps(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart < bEnd && bStart < aEnd
}

func findClip(tracks []Track, id uuid.UUID) (trackIdx, clipIdx int, ok bool) {
	for ti := range tracks {
		for ci := range tracks[ti].Clips {
			if tracks[ti].Clips[ci].ID == id {
				return ti, ci, true
			}
		}
	}
	return 0, 0, false
}

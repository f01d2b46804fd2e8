// Package render turns a finished timeline into the render commands
// that would drive an external encoder. No encoding happens here: the
// synthesizer is deterministic given a timeline, same as the rest of
// the operation engine, and stops at describing the ffmpeg invocation
// rather than running it.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/timeline"
)

// RenderCommand is one synthesized encode job: the ffmpeg argument
// list plus the output path it writes to. AssetPaths must be resolved
// by the caller before the command can actually run.
type RenderCommand struct {
	FFmpegArgs []string  `json:"ffmpeg_args"`
	OutputPath string    `json:"output_path"`
	AssetOrder []uuid.UUID `json:"asset_order"`
}

// Synthesizer builds render commands from a timeline. The one
// implementation here is a hard-cut concat: one input per primary
// track clip, trimmed to its in/out points and concatenated in
// timeline order, mirroring how the source engine's V1 renderer
// worked before any transition support existed.
type Synthesizer interface {
	Synthesize(tl *timeline.Timeline, assetPaths map[uuid.UUID]string, outputPath string) (RenderCommand, error)
}

// ConcatSynthesizer implements Synthesizer with a single filter_complex
// trim+concat graph over the primary track, audio included. It ignores
// overlay tracks, captions, and music cues: they are left out of the
// command, and the export job skips overlay assets when resolving
// paths (see export.go).
type ConcatSynthesizer struct{}

func (ConcatSynthesizer) Synthesize(tl *timeline.Timeline, assetPaths map[uuid.UUID]string, outputPath string) (RenderCommand, error) {
	clips := primaryClips(tl)
	if len(clips) == 0 {
		return RenderCommand{
			FFmpegArgs: []string{"-f", "lavfi", "-i", "color=black:size=1920x1080:d=1", "-y", outputPath},
			OutputPath: outputPath,
		}, nil
	}

	ticksPerSecond := tl.Settings.TicksPerSecond
	if ticksPerSecond <= 0 {
		return RenderCommand{}, fmt.Errorf("render: timeline has no tick rate")
	}

	args := make([]string, 0, len(clips)*2+12)
	order := make([]uuid.UUID, 0, len(clips))
	for _, clip := range clips {
		path, ok := assetPaths[clip.AssetID]
		if !ok {
			return RenderCommand{}, fmt.Errorf("render: no resolved path for asset %s", clip.AssetID)
		}
		args = append(args, "-i", path)
		order = append(order, clip.AssetID)
	}

	var filters []string
	var concatInputs []string
	for i, clip := range clips {
		startSec := float64(clip.InTicks) / float64(ticksPerSecond)
		durationSec := float64(clip.Duration()) / float64(ticksPerSecond)
		filters = append(filters, fmt.Sprintf("[%d:v]trim=start=%g:duration=%g,setpts=PTS-STARTPTS[v%d]", i, startSec, durationSec, i))
		filters = append(filters, fmt.Sprintf("[%d:a]atrim=start=%g:duration=%g,asetpts=PTS-STARTPTS[a%d]", i, startSec, durationSec, i))
		concatInputs = append(concatInputs, fmt.Sprintf("[v%d]", i), fmt.Sprintf("[a%d]", i))
	}
	filters = append(filters, fmt.Sprintf("%sconcat=n=%d:v=1:a=1[outv][outa]", strings.Join(concatInputs, ""), len(clips)))

	args = append(args,
		"-filter_complex", strings.Join(filters, ";"),
		"-map", "[outv]", "-map", "[outa]",
		"-c:v", "libx264", "-preset", "medium", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k",
		"-y", outputPath,
	)

	return RenderCommand{FFmpegArgs: args, OutputPath: outputPath, AssetOrder: order}, nil
}

// primaryClips returns the magnetic track's clips sorted by their
// timeline position. A well-formed timeline is already sorted and
// gapless, but the renderer doesn't lean on that invariant holding.
func primaryClips(tl *timeline.Timeline) []timeline.ClipInstance {
	for _, t := range tl.Tracks {
		if !t.IsPrimary() {
			continue
		}
		clips := make([]timeline.ClipInstance, len(t.Clips))
		copy(clips, t.Clips)
		sort.Slice(clips, func(i, j int) bool { return clips[i].TimelineStartTicks < clips[j].TimelineStartTicks })
		return clips
	}
	return nil
}

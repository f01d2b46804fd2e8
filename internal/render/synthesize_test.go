package render

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vibecut/daemon/internal/timeline"
)

func TestConcatSynthesizer_EmptyTimelineProducesColorFill(t *testing.T) {
	tl := timeline.New(timeline.Settings{TicksPerSecond: 48000})

	cmd, err := ConcatSynthesizer{}.Synthesize(tl, nil, "/tmp/out.mp4")
	require.NoError(t, err)
	require.Contains(t, cmd.FFmpegArgs, "lavfi")
	require.Empty(t, cmd.AssetOrder)
	require.Equal(t, "/tmp/out.mp4", cmd.OutputPath)
}

func TestConcatSynthesizer_OneInputPerClipInTimelineOrder(t *testing.T) {
	tl := timeline.New(timeline.Settings{TicksPerSecond: 48000})
	assetA, assetB := uuid.New(), uuid.New()

	tl, _, err := timeline.RippleInsertClip(tl, assetA, 0, 0, 5*48000)
	require.NoError(t, err)
	tl, _, err = timeline.RippleInsertClip(tl, assetB, 5*48000, 0, 3*48000)
	require.NoError(t, err)

	paths := map[uuid.UUID]string{assetA: "/media/a.mov", assetB: "/media/b.mov"}
	cmd, err := ConcatSynthesizer{}.Synthesize(tl, paths, "/tmp/out.mp4")
	require.NoError(t, err)

	require.Equal(t, []uuid.UUID{assetA, assetB}, cmd.AssetOrder)
	require.Contains(t, cmd.FFmpegArgs, "/media/a.mov")
	require.Contains(t, cmd.FFmpegArgs, "/media/b.mov")

	filterIdx := -1
	for i, a := range cmd.FFmpegArgs {
		if a == "-filter_complex" {
			filterIdx = i + 1
		}
	}
	require.GreaterOrEqual(t, filterIdx, 0)
	require.Contains(t, cmd.FFmpegArgs[filterIdx], "concat=n=2:v=1:a=1[outv][outa]")
}

func TestConcatSynthesizer_MissingAssetPathErrors(t *testing.T) {
	tl := timeline.New(timeline.Settings{TicksPerSecond: 48000})
	asset := uuid.New()
	tl, _, err := timeline.RippleInsertClip(tl, asset, 0, 0, 2*48000)
	require.NoError(t, err)

	_, err = ConcatSynthesizer{}.Synthesize(tl, map[uuid.UUID]string{}, "/tmp/out.mp4")
	require.Error(t, err)
}

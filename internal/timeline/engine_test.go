package timeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vibecut/daemon/internal/domain"
)

func newTestTimeline() *Timeline {
	return New(Settings{FPS: 30, Resolution: "1920x1080", SampleRate: 48000, TicksPerSecond: 48000})
}

func TestRippleInsertClip_AppendsGaplessAtRunningEnd(t *testing.T) {
	tl := newTestTimeline()
	assetA, assetB := uuid.New(), uuid.New()

	tl, first, err := RippleInsertClip(tl, assetA, 0, 0, 5*48000)
	require.NoError(t, err)
	require.Equal(t, int64(0), first.TimelineStartTicks)

	tl, second, err := RippleInsertClip(tl, assetB, first.TimelineEnd(), 0, 3*48000)
	require.NoError(t, err)
	require.Equal(t, first.TimelineEnd(), second.TimelineStartTicks, "second clip must start exactly where the first ends")

	primary := tl.track(PrimaryTrackID)
	require.Len(t, primary.Clips, 2)
}

func TestOverwriteClip_MiddleOverlap_SplitsIntoTwoRemnants(t *testing.T) {
	tl := newTestTimeline()
	asset := uuid.New()

	tl, _, err := RippleInsertClip(tl, asset, 0, 0, 10*48000)
	require.NoError(t, err)

	tl, _, err = OverwriteClip(tl, uuid.New(), 3*48000, 0, 1*48000)
	require.NoError(t, err)

	primary := tl.track(PrimaryTrackID)
	require.Len(t, primary.Clips, 3, "overwriting the middle of one clip must leave a left remnant, the new clip, and a right remnant")

	require.Equal(t, int64(0), primary.Clips[0].TimelineStartTicks)
	require.Equal(t, int64(3*48000), primary.Clips[0].TimelineEnd())
	require.Equal(t, int64(3*48000), primary.Clips[1].TimelineStartTicks)
	require.Equal(t, int64(4*48000), primary.Clips[1].TimelineEnd())
	require.Equal(t, int64(4*48000), primary.Clips[2].TimelineStartTicks)
	require.Equal(t, int64(10*48000), primary.Clips[2].TimelineEnd())
}

func TestConsolidateTimeline_IsIdempotent(t *testing.T) {
	tl := newTestTimeline()
	asset := uuid.New()
	tl, _, err := RippleInsertClip(tl, asset, 0, 0, 2*48000)
	require.NoError(t, err)
	tl, _, err = RippleInsertClip(tl, asset, 0, 2*48000, 5*48000)
	require.NoError(t, err)

	once := ConsolidateTimeline(tl)
	raw1, err := Marshal(once)
	require.NoError(t, err)

	twice := ConsolidateTimeline(once)
	raw2, err := Marshal(twice)
	require.NoError(t, err)

	require.JSONEq(t, string(raw1), string(raw2))
}

func TestApply_StopsOnFirstError_ReturnsPartialResult(t *testing.T) {
	tl := newTestTimeline()
	asset := uuid.New()
	missingClip := uuid.New()

	ops := []Operation{
		{Kind: domain.OpRippleInsertClip, Asset: asset, InTicks: 0, OutTicks: 2 * 48000},
		{Kind: domain.OpSplitClip, Clip: missingClip, Pos: 1},
	}

	result, err := Apply(tl, ops)
	require.Error(t, err)
	require.Len(t, result.track(PrimaryTrackID).Clips, 1, "the clip inserted before the failing op must still be present")
}

func TestApply_ConsolidatesImplicitlyAtEnd(t *testing.T) {
	tl := newTestTimeline()
	assetA, assetB := uuid.New(), uuid.New()

	ops := []Operation{
		{Kind: domain.OpRippleInsertClip, Asset: assetA, InTicks: 0, OutTicks: 2 * 48000},
		{Kind: domain.OpRippleInsertClip, Asset: assetB, InTicks: 0, OutTicks: 2 * 48000},
	}
	result, err := Apply(tl, ops)
	require.NoError(t, err)

	primary := result.track(PrimaryTrackID)
	require.Len(t, primary.Clips, 2)
	require.Equal(t, int64(0), primary.Clips[0].TimelineStartTicks)
	require.Equal(t, primary.Clips[0].TimelineEnd(), primary.Clips[1].TimelineStartTicks)
}

func TestMarshalUnmarshal_RoundTrips(t *testing.T) {
	tl := newTestTimeline()
	asset := uuid.New()
	tl, _, err := RippleInsertClip(tl, asset, 0, 0, 5*48000)
	require.NoError(t, err)

	blob, err := Marshal(tl)
	require.NoError(t, err)

	restored, err := Unmarshal(blob)
	require.NoError(t, err)
	require.Equal(t, tl.Tracks, restored.Tracks)
}

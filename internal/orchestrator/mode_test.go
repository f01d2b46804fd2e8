package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecideMode_DestructiveWithoutConfirmTokenAlwaysWinsFirst(t *testing.T) {
	p := Preconditions{MediaAssetsCount: 0, SegmentsCount: 0}
	mode := decideMode(p, Request{Destructive: true, ConfirmToken: ""})
	require.Equal(t, modeTalkConfirm, mode)
}

func TestDecideMode_DestructiveWithConfirmTokenFallsThrough(t *testing.T) {
	p := Preconditions{MediaAssetsCount: 0}
	mode := decideMode(p, Request{Destructive: true, ConfirmToken: "tok"})
	require.Equal(t, modeTalkImport, mode)
}

func TestDecideMode_NoAssetsMeansTalkImport(t *testing.T) {
	mode := decideMode(Preconditions{MediaAssetsCount: 0}, Request{})
	require.Equal(t, modeTalkImport, mode)
}

func TestDecideMode_NoSegmentsMeansTalkAnalyze(t *testing.T) {
	mode := decideMode(Preconditions{MediaAssetsCount: 3, SegmentsCount: 0}, Request{})
	require.Equal(t, modeTalkAnalyze, mode)
}

func TestDecideMode_RunningJobsMeansBusy(t *testing.T) {
	p := Preconditions{MediaAssetsCount: 3, SegmentsCount: 10, EmbeddingCoverage: 1.0, JobsRunningCount: 1}
	require.Equal(t, modeBusy, decideMode(p, Request{}))
}

func TestDecideMode_LowEmbeddingCoverageMeansBusy(t *testing.T) {
	p := Preconditions{MediaAssetsCount: 3, SegmentsCount: 10, EmbeddingCoverage: 0.5}
	require.Equal(t, modeBusy, decideMode(p, Request{}))
}

func TestDecideMode_VagueIntentMeansTalkClarify(t *testing.T) {
	p := Preconditions{MediaAssetsCount: 3, SegmentsCount: 10, EmbeddingCoverage: 1.0}
	mode := decideMode(p, Request{Intent: "please just make this good"})
	require.Equal(t, modeTalkClarify, mode)
}

func TestDecideMode_ReadyAndSpecificMeansAct(t *testing.T) {
	p := Preconditions{MediaAssetsCount: 3, SegmentsCount: 10, EmbeddingCoverage: 1.0}
	mode := decideMode(p, Request{Intent: "cut a 30 second highlight reel from the lake footage"})
	require.Equal(t, modeAct, mode)
}

func TestMode_EnvelopeKindMapping(t *testing.T) {
	require.Equal(t, "busy", string(modeBusy.envelopeKind()))
	require.Equal(t, "act", string(modeAct.envelopeKind()))
	require.Equal(t, "talk", string(modeTalkClarify.envelopeKind()))
}

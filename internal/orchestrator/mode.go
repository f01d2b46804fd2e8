package orchestrator

import (
	"strings"

	"github.com/vibecut/daemon/internal/domain"
)

// Mode is one of the six named decision outcomes. Each maps onto the
// three-valued envelope kind the HTTP response actually carries.
type Mode string

const (
	modeTalkConfirm Mode = "TalkConfirm"
	modeTalkImport  Mode = "TalkImport"
	modeTalkAnalyze Mode = "TalkAnalyze"
	modeBusy        Mode = "Busy"
	modeTalkClarify Mode = "TalkClarify"
	modeAct         Mode = "Act"
)

// envelopeKind maps a decision mode onto the three-valued wire kind.
func (m Mode) envelopeKind() domain.EnvelopeKind {
	switch m {
	case modeBusy:
		return domain.EnvelopeBusy
	case modeAct:
		return domain.EnvelopeAct
	default:
		return domain.EnvelopeTalk
	}
}

// embeddingCoverageFloor is the minimum fraction of segments carrying
// a text embedding before the system is considered ready to act
// instead of reporting itself busy.
const embeddingCoverageFloor = 0.80

var vaguePhrases = []string{
	"make this good",
	"do your thing",
	"edit my vlog",
	"fix this",
	"improve this",
}

// Request carries the request-scoped inputs the mode decision needs
// beyond the project-wide preconditions snapshot.
type Request struct {
	Intent      string
	Destructive bool
	ConfirmToken string
}

// decideMode evaluates the six modes in fixed priority order and
// returns the first one that applies.
func decideMode(p Preconditions, req Request) Mode {
	switch {
	case req.Destructive && req.ConfirmToken == "":
		return modeTalkConfirm
	case p.MediaAssetsCount == 0:
		return modeTalkImport
	case p.SegmentsCount == 0:
		return modeTalkAnalyze
	case p.JobsRunningCount > 0 || p.EmbeddingCoverage < embeddingCoverageFloor:
		return modeBusy
	case containsVaguePhrase(req.Intent):
		return modeTalkClarify
	default:
		return modeAct
	}
}

func containsVaguePhrase(intent string) bool {
	lower := strings.ToLower(intent)
	for _, phrase := range vaguePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

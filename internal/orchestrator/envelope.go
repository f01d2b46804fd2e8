package orchestrator

import (
	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/mlclient"
)

// allowedActions is the fixed suggestion vocabulary; anything outside
// this set is a bug in the LLM message generator, not a client error,
// and is silently dropped before the envelope is returned.
var allowedActions = map[string]bool{
	"import_clips":       true,
	"analyze_clips":      true,
	"generate_plan":      true,
	"apply_plan":         true,
	"overwrite_timeline": true,
	"create_new_version": true,
	"broaden_search":     true,
	"show_all_moments":   true,
	"show_progress":      true,
	"cancel":             true,
}

var allowedConfirmTokens = map[string]bool{
	"overwrite":   true,
	"new_version": true,
}

// Suggestion mirrors mlclient.Suggestion with validation applied.
type Suggestion = mlclient.Suggestion

// Envelope is the uniform shape returned by every orchestrator entry
// point.
type Envelope struct {
	Mode        domain.EnvelopeKind `json:"mode"`
	Message     string              `json:"message"`
	Suggestions []Suggestion        `json:"suggestions"`
	Questions   []string            `json:"questions,omitempty"`
	Data        any                 `json:"data,omitempty"`
	Debug       any                 `json:"debug,omitempty"`
}

// sanitizeSuggestions drops any suggestion whose action or
// confirm_token falls outside the fixed vocabulary.
func sanitizeSuggestions(in []Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		if !allowedActions[s.Action] {
			continue
		}
		if s.ConfirmToken != nil && !allowedConfirmTokens[*s.ConfirmToken] {
			continue
		}
		out = append(out, s)
	}
	return out
}

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vibecut/daemon/internal/domain"
	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/orchestrator"
	"github.com/vibecut/daemon/internal/retrieval"
)

type generateRequest struct {
	TargetLength float64 `json:"target_length,omitempty"`
	Vibe         string  `json:"vibe,omitempty"`
	CaptionsOn   bool    `json:"captions_on,omitempty"`
	MusicOn      bool    `json:"music_on,omitempty"`
	ConfirmToken string  `json:"confirm_token,omitempty"`
}

// generate is the synchronous V1 shortcut: propose, plan, and apply in
// one call instead of three orchestrator round-trips. Any envelope
// that comes back in talk/busy mode along the way (TalkConfirm,
// TalkAnalyze, Busy, TalkClarify all collapse to the same wire Mode)
// is returned immediately instead of proceeding to planning.
func (h *handlers) generate(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	intent := req.Vibe
	if intent == "" {
		intent = "generate a timeline from the available footage"
	}
	oreq := orchestrator.Request{Intent: intent, ConfirmToken: req.ConfirmToken}

	proposed, err := h.d.Orchestrator.Propose(c.Request.Context(), projectID, oreq)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	if proposed.Mode != domain.EnvelopeAct {
		respondOK(c, proposed)
		return
	}

	data, _ := proposed.Data.(map[string]any)
	candidates, _ := data["candidates"].([]retrieval.Candidate)
	beats := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		beats = append(beats, cand.SummaryText)
	}

	constraints := map[string]any{
		"target_length": req.TargetLength,
		"vibe":          req.Vibe,
		"captions_on":   req.CaptionsOn,
		"music_on":      req.MusicOn,
	}
	planned, err := h.d.Orchestrator.Plan(c.Request.Context(), projectID, beats, constraints, data["narrative_structure"], nil)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	if planned.Mode != domain.EnvelopeAct {
		respondOK(c, planned)
		return
	}
	planData, _ := planned.Data.(map[string]any)
	plan, _ := planData["plan"].(*mlclient.GeneratePlanResponse)
	if plan == nil {
		respondError(c, http.StatusUnprocessableEntity, "no_plan", fmt.Errorf("plan generation returned no primary segments"))
		return
	}

	applied, err := h.d.Orchestrator.Apply(c.Request.Context(), projectID, plan, oreq)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, applied)
}

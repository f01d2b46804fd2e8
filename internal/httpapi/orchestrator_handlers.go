package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vibecut/daemon/internal/mlclient"
	"github.com/vibecut/daemon/internal/orchestrator"
)

type proposeRequest struct {
	Intent       string `json:"intent" binding:"required"`
	Destructive  bool   `json:"destructive,omitempty"`
	ConfirmToken string `json:"confirm_token,omitempty"`
}

func (h *handlers) orchestratorPropose(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req proposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	env, err := h.d.Orchestrator.Propose(c.Request.Context(), projectID, orchestrator.Request{
		Intent:       req.Intent,
		Destructive:  req.Destructive,
		ConfirmToken: req.ConfirmToken,
	})
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, env)
}

type planRequest struct {
	Beats          []string `json:"beats"`
	Constraints    any      `json:"constraints,omitempty"`
	Narrative      any      `json:"narrative,omitempty"`
	StyleProfileID *string  `json:"style_profile_id,omitempty"`
}

func (h *handlers) orchestratorPlan(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	env, err := h.d.Orchestrator.Plan(c.Request.Context(), projectID, req.Beats, req.Constraints, req.Narrative, req.StyleProfileID)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, env)
}

type applyRequest struct {
	Plan         *mlclient.GeneratePlanResponse `json:"plan" binding:"required"`
	ConfirmToken string                         `json:"confirm_token,omitempty"`
}

func (h *handlers) orchestratorApply(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	env, err := h.d.Orchestrator.Apply(c.Request.Context(), projectID, req.Plan, orchestrator.Request{ConfirmToken: req.ConfirmToken})
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, env)
}

func (h *handlers) orchestratorMessages(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.d.Store.ListMessages(c.Request.Context(), projectID, 200)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, gin.H{"messages": out})
}

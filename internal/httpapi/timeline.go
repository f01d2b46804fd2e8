package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vibecut/daemon/internal/store"
	"github.com/vibecut/daemon/internal/timeline"
)

func (h *handlers) getTimeline(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	v, err := h.d.Store.GetCurrentTimeline(c.Request.Context(), projectID)
	if errors.Is(err, store.ErrNotFound) {
		respondOK(c, timeline.New(timeline.Settings{TicksPerSecond: 48000}))
		return
	}
	if err != nil {
		respondFromErr(c, err)
		return
	}
	tl, err := timeline.Unmarshal(v.Blob)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, tl)
}

type applyTimelineRequest struct {
	Operations []timeline.Operation `json:"operations" binding:"required"`
}

func (h *handlers) applyTimeline(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req applyTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	tl, ok := h.currentOrNewTimeline(c, projectID)
	if !ok {
		return
	}
	tl, err := timeline.Apply(tl, req.Operations)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "invalid_operation", err)
		return
	}
	h.saveAndRespond(c, projectID, tl)
}

func (h *handlers) consolidateTimeline(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	tl, ok := h.currentOrNewTimeline(c, projectID)
	if !ok {
		return
	}
	h.saveAndRespond(c, projectID, timeline.ConsolidateTimeline(tl))
}

// diffTimeline applies the given operations to the current timeline
// without persisting, returning the would-be result so a client can
// preview an edit before committing it with /apply.
func (h *handlers) diffTimeline(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req applyTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	before, ok := h.currentOrNewTimeline(c, projectID)
	if !ok {
		return
	}
	// Apply mutates through shared clip slices via append, so diff
	// works off a JSON round-tripped copy to keep "before" honest.
	snapshot, err := timeline.Marshal(before)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	scratch, err := timeline.Unmarshal(snapshot)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	after, err := timeline.Apply(scratch, req.Operations)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "invalid_operation", err)
		return
	}
	respondOK(c, gin.H{"before": before, "after": after})
}

func (h *handlers) clearTimeline(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	tl, ok := h.currentOrNewTimeline(c, projectID)
	if !ok {
		return
	}
	h.saveAndRespond(c, projectID, timeline.ClearTimeline(tl))
}

// currentOrNewTimeline loads the project's current timeline, or a
// fresh empty one if none has been saved yet. ok=false means a
// response has already been written and the caller should return.
func (h *handlers) currentOrNewTimeline(c *gin.Context, projectID uuid.UUID) (*timeline.Timeline, bool) {
	v, err := h.d.Store.GetCurrentTimeline(c.Request.Context(), projectID)
	if errors.Is(err, store.ErrNotFound) {
		return timeline.New(timeline.Settings{TicksPerSecond: 48000}), true
	}
	if err != nil {
		respondFromErr(c, err)
		return nil, false
	}
	tl, err := timeline.Unmarshal(v.Blob)
	if err != nil {
		respondFromErr(c, err)
		return nil, false
	}
	return tl, true
}

func (h *handlers) saveAndRespond(c *gin.Context, projectID uuid.UUID, tl *timeline.Timeline) {
	blob, err := timeline.Marshal(tl)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	if _, err := h.d.Store.SaveTimelineVersion(c.Request.Context(), projectID, datatypes.JSON(blob)); err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, tl)
}

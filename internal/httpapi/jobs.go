package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *handlers) getJob(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	job, err := h.d.Jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, job)
}

func (h *handlers) cancelJob(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.d.Jobs.Cancel(c.Request.Context(), id); err != nil {
		respondFromErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listJobs answers "GET /jobs?project=" by first resolving the
// project's asset ids and then asking the store for every job bound
// to one of them; the job table itself carries no project column.
func (h *handlers) listJobs(c *gin.Context) {
	projectID, err := uuid.Parse(c.Query("project"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_project", err)
		return
	}
	assets, err := h.d.Store.ListAssets(c.Request.Context(), projectID, false)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	assetIDs := make([]uuid.UUID, 0, len(assets))
	for _, a := range assets {
		assetIDs = append(assetIDs, a.ID)
	}
	out, err := h.d.Store.ListJobsByAssetIDs(c.Request.Context(), assetIDs)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, gin.H{"jobs": out})
}

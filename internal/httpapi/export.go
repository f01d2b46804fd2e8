package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/vibecut/daemon/internal/domain"
)

// exportProject enqueues a JobExport run against the project's
// current timeline. The job is synchronous to no one: callers poll
// job status or the event feed the same way any other pipeline stage
// is observed.
func (h *handlers) exportProject(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if _, err := h.d.Store.GetProject(c.Request.Context(), projectID); err != nil {
		respondFromErr(c, err)
		return
	}
	if _, err := h.d.Store.GetCurrentTimeline(c.Request.Context(), projectID); err != nil {
		respondFromErr(c, err)
		return
	}

	payload, err := json.Marshal(map[string]any{"project_id": projectID.String()})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	job, _, err := h.d.Jobs.Create(c.Request.Context(), domain.JobExport, datatypes.JSON(payload), "", nil)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondCreated(c, gin.H{"job": job})
}

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vibecut/daemon/internal/domain"
)

type createProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	CacheDir string `json:"cache_dir" binding:"required"`
}

func (h *handlers) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p := &domain.Project{Name: req.Name, CacheDir: req.CacheDir}
	if err := h.d.Store.CreateProject(c.Request.Context(), p); err != nil {
		respondFromErr(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *handlers) listProjects(c *gin.Context) {
	out, err := h.d.Store.ListProjects(c.Request.Context())
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, gin.H{"projects": out})
}

func (h *handlers) getProject(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.d.Store.GetProject(c.Request.Context(), id)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, p)
}

func (h *handlers) deleteProject(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.d.Store.DeleteProject(c.Request.Context(), id); err != nil {
		respondFromErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

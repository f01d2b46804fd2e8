// Package httpapi exposes the daemon's local HTTP surface: project
// and media management, byte-range media streaming, the timeline
// engine, the orchestrator, and a job-status/event feed. There is no
// auth layer — this is a loopback daemon serving one local editor
// process, not a multi-tenant service.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vibecut/daemon/internal/jobs"
	"github.com/vibecut/daemon/internal/media"
	"github.com/vibecut/daemon/internal/orchestrator"
	"github.com/vibecut/daemon/internal/platform/logger"
	"github.com/vibecut/daemon/internal/store"
)

// Deps is everything a handler needs, assembled once at startup and
// threaded through the router rather than pulled from globals.
type Deps struct {
	Store        *store.Store
	Jobs         *jobs.Manager
	Orchestrator *orchestrator.Orchestrator
	Prober       media.Prober
	Log          *logger.Logger
}

// NewRouter builds the gin engine with every route this daemon
// serves. CORS is wide open on purpose: the only client is a local
// editor UI running on a different dev-server port.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestTrace())
	r.Use(accessLog(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	h := &handlers{d: d}

	api := r.Group("/api")
	{
		api.POST("/projects", h.createProject)
		api.GET("/projects", h.listProjects)
		api.GET("/projects/:id", h.getProject)
		api.DELETE("/projects/:id", h.deleteProject)

		api.POST("/projects/:id/import_raw", h.importRaw)
		api.GET("/projects/:id/media", h.listMedia)
		api.GET("/projects/:id/references", h.listReferences)
		api.DELETE("/projects/:id/media/:asset", h.deleteMedia)
		api.GET("/projects/:id/media/:asset/proxy", h.streamProxy)
		api.GET("/projects/:id/media/:asset/thumbnail/:sec", h.thumbnail)

		api.GET("/projects/:id/timeline", h.getTimeline)
		api.POST("/projects/:id/timeline/apply", h.applyTimeline)
		api.POST("/projects/:id/timeline/consolidate", h.consolidateTimeline)
		api.POST("/projects/:id/timeline/clear", h.clearTimeline)
		api.POST("/projects/:id/timeline/diff", h.diffTimeline)
		api.POST("/projects/:id/generate", h.generate)
		api.POST("/projects/:id/export", h.exportProject)

		api.POST("/projects/:id/orchestrator/propose", h.orchestratorPropose)
		api.POST("/projects/:id/orchestrator/plan", h.orchestratorPlan)
		api.POST("/projects/:id/orchestrator/apply", h.orchestratorApply)
		api.GET("/projects/:id/orchestrator/messages", h.orchestratorMessages)
		api.GET("/projects/:id/events", h.events)

		api.GET("/jobs", h.listJobs)
		api.GET("/jobs/:id", h.getJob)
		api.POST("/jobs/:id/cancel", h.cancelJob)
	}

	return r
}

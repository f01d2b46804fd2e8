package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vibecut/daemon/internal/platform/ctxutil"
	"github.com/vibecut/daemon/internal/platform/logger"
)

// requestTrace stamps every request with a trace id (reusing one
// supplied by the client in X-Request-Id, minting one otherwise) and
// stores it on the request context the way ctxutil.TraceData is meant
// to be threaded through a call chain.
func requestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if id == "" {
			id = uuid.NewString()
		}
		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{RequestID: id})
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// accessLog logs one line per request, tagging it with the trace id
// requestTrace stamped onto the context.
func accessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		td := ctxutil.GetTraceData(c.Request.Context())
		requestID := ""
		if td != nil {
			requestID = td.RequestID
		}
		log.With(
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		).Info("http request")
	}
}

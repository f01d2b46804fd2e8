package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vibecut/daemon/internal/platform/apierr"
	"github.com/vibecut/daemon/internal/store"
)

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func respondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

// respondFromErr inspects err and picks the right status/code: a
// *apierr.Error carries its own, a store.ErrNotFound maps to 404, and
// anything else is an unexpected 500.
func respondFromErr(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		respondError(c, ae.Status, ae.Code, ae)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	respondError(c, http.StatusInternalServerError, "internal_error", err)
}

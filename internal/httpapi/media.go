package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/vibecut/daemon/internal/domain"
)

type importRawRequest struct {
	FilePaths   []string `json:"file_paths"`
	FolderPath  string   `json:"folder_path"`
	IsReference bool     `json:"is_reference"`
}

// importRaw enqueues one ImportRaw job covering every path in the
// request; BuildSegments and GenerateProxy are fanned out per asset
// once import_raw.go discovers what it actually created.
func (h *handlers) importRaw(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req importRawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if len(req.FilePaths) == 0 && req.FolderPath == "" {
		respondError(c, http.StatusBadRequest, "missing_paths", fmt.Errorf("file_paths or folder_path required"))
		return
	}
	if _, err := h.d.Store.GetProject(c.Request.Context(), projectID); err != nil {
		respondFromErr(c, err)
		return
	}

	payload := map[string]any{"project_id": projectID.String(), "is_reference": req.IsReference}
	if len(req.FilePaths) > 0 {
		paths := make([]any, len(req.FilePaths))
		for i, p := range req.FilePaths {
			paths[i] = p
		}
		payload["file_paths"] = paths
	} else {
		payload["folder_path"] = req.FolderPath
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	job, _, err := h.d.Jobs.Create(c.Request.Context(), domain.JobImportRaw, datatypes.JSON(raw), "", nil)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondCreated(c, gin.H{"job": job})
}

func (h *handlers) listMedia(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.d.Store.ListAssets(c.Request.Context(), projectID, true)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, gin.H{"media": out})
}

func (h *handlers) listReferences(c *gin.Context) {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.d.Store.ListReferenceAssets(c.Request.Context(), projectID)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	respondOK(c, gin.H{"references": out})
}

func (h *handlers) deleteMedia(c *gin.Context) {
	assetID, ok := paramUUID(c, "asset")
	if !ok {
		return
	}
	if err := h.d.Store.DeleteAsset(c.Request.Context(), assetID); err != nil {
		respondFromErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// streamProxy serves the source file directly with byte-range
// support. There is no separate transcoded proxy file in this build —
// no real encoding pipeline exists — so the original is what streams;
// generate_proxy.go only ever produces a thumbnail directory.
func (h *handlers) streamProxy(c *gin.Context) {
	assetID, ok := paramUUID(c, "asset")
	if !ok {
		return
	}
	asset, err := h.d.Store.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		respondFromErr(c, err)
		return
	}

	f, err := os.Open(asset.Path)
	if err != nil {
		respondError(c, http.StatusNotFound, "media_unreadable", err)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}
	size := info.Size()

	c.Header("Accept-Ranges", "bytes")
	rangeHeader := c.GetHeader("Range")
	if rangeHeader == "" {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Status(http.StatusOK)
		_, _ = io.CopyN(c.Writer, f, size)
		return
	}

	r, ok := parseRange(rangeHeader, size)
	if !ok {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Status(http.StatusOK)
		_, _ = io.CopyN(c.Writer, f, size)
		return
	}
	length := r.End - r.Start + 1
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size))
	c.Header("Content-Length", strconv.FormatInt(length, 10))
	c.Status(http.StatusPartialContent)
	if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
		return
	}
	_, _ = io.CopyN(c.Writer, f, length)
}

// thumbnail serves a per-second JPEG out of the asset's thumbnail
// directory, named "<sec>.jpg" by convention of whatever populated it.
func (h *handlers) thumbnail(c *gin.Context) {
	assetID, ok := paramUUID(c, "asset")
	if !ok {
		return
	}
	asset, err := h.d.Store.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		respondFromErr(c, err)
		return
	}
	if asset.ThumbnailDir == nil {
		respondError(c, http.StatusNotFound, "no_thumbnails", fmt.Errorf("asset has no thumbnail directory"))
		return
	}
	sec := c.Param("sec")
	path := fmt.Sprintf("%s/%s.jpg", *asset.ThumbnailDir, sec)
	if _, err := os.Stat(path); err != nil {
		respondError(c, http.StatusNotFound, "thumbnail_not_found", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

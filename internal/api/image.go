package api

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/reelbase/reelbase/internal/storage"
	"go.uber.org/zap"
)

// maxImageSize caps uploads at 10 MiB. Posters, not masters.
const maxImageSize = 10 << 20

// ImageHandler fronts the blob store. Unlike the catalog handlers it
// talks to storage directly — images have no business rules beyond
// "authenticated callers may upload".
type ImageHandler struct {
	blobs  storage.BlobStore
	logger *zap.Logger
}

func NewImageHandler(blobs storage.BlobStore, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{blobs: blobs, logger: logger}
}

// Upload handles POST /v1/images (multipart, field "file").
// Returns the opaque storage id plus a resolved URL; the client puts
// both on the movie it's creating.
func (h *ImageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'file' upload"})
		return
	}
	if header.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	defer file.Close()

	storageID, err := h.blobs.Save(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.logger.Error("failed to store image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"storage_id": storageID,
		"url":        h.blobs.URL(storageID),
	})
}

// Serve handles GET /v1/images/:id
func (h *ImageHandler) Serve(c *gin.Context) {
	storageID := c.Param("id")

	blob, err := h.blobs.Open(c.Request.Context(), storageID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	defer blob.Close()

	contentType := mime.TypeByExtension(filepath.Ext(storageID))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, blob); err != nil {
		h.logger.Warn("failed to stream image", zap.Error(err))
	}
}

// Delete handles DELETE /v1/images/:id
func (h *ImageHandler) Delete(c *gin.Context) {
	storageID := c.Param("id")

	if err := h.blobs.Delete(c.Request.Context(), storageID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": storageID})
}

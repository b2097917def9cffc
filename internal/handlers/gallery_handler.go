package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
	"github.com/sanctuary/backend/internal/storage"
)

// multipartOverhead is the room left for form fields and part headers on
// top of the image itself.
const multipartOverhead = 1 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type GalleryHandler struct {
	galleryRepo GalleryStore
	store       storage.Storage
	maxBytes    int64
}

func NewGalleryHandler(galleryRepo GalleryStore, store storage.Storage, maxBytes int64) *GalleryHandler {
	return &GalleryHandler{galleryRepo: galleryRepo, store: store, maxBytes: maxBytes}
}

func (h *GalleryHandler) ListGallery(c *gin.Context) {
	items, err := h.galleryRepo.List(queryInt(c, "limit", 60, 200))
	if err != nil {
		storeError(c, err, "Image not found", "Failed to list gallery")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UploadImage accepts a multipart form with an "image" file, a "title" and
// an optional "caption". The image type is sniffed from its content.
func (h *GalleryHandler) UploadImage(c *gin.Context) {
	if h.maxBytes > 0 {
		limit := h.maxBytes + multipartOverhead
		if c.Request.ContentLength > limit {
			ErrorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", h.maxBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", h.maxBytes))
			return
		}
		ErrorResponse(c, http.StatusBadRequest, "image file is required")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		ErrorResponse(c, http.StatusBadRequest, "title is required")
		return
	}

	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		ErrorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", h.maxBytes))
		return
	}

	f, err := fh.Open()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	defer f.Close()

	contentType, ext, ok := sniffImage(f)
	if !ok {
		ErrorResponse(c, http.StatusUnsupportedMediaType, "unsupported image type")
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "failed to read upload")
		return
	}

	id := uuid.New()
	key := path.Join("gallery", id.String()+ext)
	ctx := c.Request.Context()
	logger := applog.Ctx(ctx)

	if err := h.store.Write(ctx, key, f, fh.Size, contentType); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("gallery upload failed")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to store image")
		return
	}

	item := &models.GalleryItem{
		ID:          id,
		Title:       title,
		StorageKey:  key,
		URL:         h.store.URL(key),
		ContentType: contentType,
		SizeBytes:   fh.Size,
	}
	if caption := strings.TrimSpace(c.PostForm("caption")); caption != "" {
		item.Caption = &caption
	}

	if err := h.galleryRepo.Create(item); err != nil {
		// Don't leave an orphaned blob behind
		if derr := h.store.Delete(ctx, key); derr != nil {
			logger.Warn().Err(derr).Str("key", key).Msg("failed to remove orphaned upload")
		}
		storeError(c, err, "Image not found", "Failed to save image")
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *GalleryHandler) DeleteImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	item, err := h.galleryRepo.GetByID(id)
	if err != nil {
		storeError(c, err, "Image not found", "Failed to load image")
		return
	}
	if err := h.galleryRepo.Delete(id); err != nil {
		storeError(c, err, "Image not found", "Failed to delete image")
		return
	}

	if err := h.store.Delete(c.Request.Context(), item.StorageKey); err != nil {
		logger := applog.Ctx(c.Request.Context())
		logger.Warn().Err(err).Str("key", item.StorageKey).Msg("failed to delete stored image")
	}

	c.Status(http.StatusNoContent)
}

// sniffImage detects the upload's type from its leading bytes, ignoring
// whatever the client declared.
func sniffImage(r io.Reader) (contentType, ext string, ok bool) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", "", false
	}
	for ct, ext := range imageExtensions {
		if mtype.Is(ct) {
			return ct, ext, true
		}
	}
	return "", "", false
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

// LiveHandler serves the watch-live overlay and the live-video back-office.
// Every mutation calls LiveService.Changed so caches and overlay clients
// follow.
type LiveHandler struct {
	liveRepo LiveVideoStore
	liveSvc  LiveService
}

func NewLiveHandler(liveRepo LiveVideoStore, liveSvc LiveService) *LiveHandler {
	return &LiveHandler{liveRepo: liveRepo, liveSvc: liveSvc}
}

// ListLiveVideos returns the raw records in collection order
func (h *LiveHandler) ListLiveVideos(c *gin.Context) {
	videos, err := h.liveSvc.Records(c.Request.Context())
	if err != nil {
		storeError(c, err, "Live video not found", "Failed to list live videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

// Current returns the overlay embed, or 204 when nothing is live
func (h *LiveHandler) Current(c *gin.Context) {
	embed, err := h.liveSvc.Current(c.Request.Context())
	if err != nil {
		storeError(c, err, "Live video not found", "Failed to resolve live video")
		return
	}
	if embed == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, embed)
}

// Admin

func (h *LiveHandler) CreateLiveVideo(c *gin.Context) {
	var req models.CreateLiveVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	v := &models.LiveVideo{
		ID:        uuid.New(),
		Title:     req.Title,
		SourceURL: req.SourceURL,
		IsActive:  req.IsActive,
	}
	if err := h.liveRepo.Create(v); err != nil {
		storeError(c, err, "Live video not found", "Failed to create live video")
		return
	}
	h.changed(c)

	c.JSON(http.StatusCreated, v)
}

func (h *LiveHandler) UpdateLiveVideo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.UpdateLiveVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.liveRepo.GetByID(id)
	if err != nil {
		storeError(c, err, "Live video not found", "Failed to load live video")
		return
	}

	req.Apply(v)
	if err := h.liveRepo.Update(v); err != nil {
		storeError(c, err, "Live video not found", "Failed to update live video")
		return
	}
	h.changed(c)

	c.JSON(http.StatusOK, v)
}

func (h *LiveHandler) DeleteLiveVideo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.liveRepo.Delete(id); err != nil {
		storeError(c, err, "Live video not found", "Failed to delete live video")
		return
	}
	h.changed(c)

	c.Status(http.StatusNoContent)
}

// changed never fails the mutation: the write already happened.
func (h *LiveHandler) changed(c *gin.Context) {
	if err := h.liveSvc.Changed(c.Request.Context()); err != nil {
		logger := applog.Ctx(c.Request.Context())
		logger.Error().Err(err).Msg("failed to propagate live video change")
	}
}

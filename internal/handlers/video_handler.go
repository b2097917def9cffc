package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/live"
	"github.com/sanctuary/backend/internal/models"
)

type VideoHandler struct {
	videoRepo VideoStore
}

func NewVideoHandler(videoRepo VideoStore) *VideoHandler {
	return &VideoHandler{videoRepo: videoRepo}
}

// ListVideos returns the sermon library, newest first
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.videoRepo.List(queryInt(c, "limit", 24, 100))
	if err != nil {
		storeError(c, err, "Video not found", "Failed to list videos")
		return
	}
	for i := range videos {
		withEmbed(&videos[i])
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req models.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	youtubeID, err := live.ExtractVideoID(req.SourceURL)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "source_url is not a YouTube link")
		return
	}

	v := &models.Video{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		SourceURL:   req.SourceURL,
		YouTubeID:   youtubeID,
	}
	if req.PublishedAt != nil {
		v.PublishedAt = *req.PublishedAt
	} else {
		v.PublishedAt = time.Now()
	}

	if err := h.videoRepo.Create(v); err != nil {
		storeError(c, err, "Video not found", "Failed to create video")
		return
	}

	c.JSON(http.StatusCreated, withEmbed(v))
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.videoRepo.GetByID(id)
	if err != nil {
		storeError(c, err, "Video not found", "Failed to load video")
		return
	}

	if req.SourceURL != nil {
		youtubeID, err := live.ExtractVideoID(*req.SourceURL)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "source_url is not a YouTube link")
			return
		}
		v.SourceURL = *req.SourceURL
		v.YouTubeID = youtubeID
	}
	if req.Title != nil {
		v.Title = *req.Title
	}
	if req.Description != nil {
		v.Description = req.Description
	}
	if req.PublishedAt != nil {
		v.PublishedAt = *req.PublishedAt
	}

	if err := h.videoRepo.Update(v); err != nil {
		storeError(c, err, "Video not found", "Failed to update video")
		return
	}

	c.JSON(http.StatusOK, withEmbed(v))
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.videoRepo.Delete(id); err != nil {
		storeError(c, err, "Video not found", "Failed to delete video")
		return
	}

	c.Status(http.StatusNoContent)
}

func withEmbed(v *models.Video) *models.Video {
	if v.YouTubeID != "" {
		v.EmbedURL = live.EmbedURL(v.YouTubeID)
	}
	return v
}

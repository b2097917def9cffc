package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanctuary/backend/internal/models"
)

const (
	homeEventsLimit = 3
	homeVideosLimit = 3
)

// HomeHandler aggregates the landing page.
type HomeHandler struct {
	eventRepo EventStore
	videoRepo VideoStore
	liveSvc   LiveService
}

func NewHomeHandler(eventRepo EventStore, videoRepo VideoStore, liveSvc LiveService) *HomeHandler {
	return &HomeHandler{eventRepo: eventRepo, videoRepo: videoRepo, liveSvc: liveSvc}
}

func (h *HomeHandler) Home(c *gin.Context) {
	events, err := h.eventRepo.ListUpcoming(time.Now(), homeEventsLimit)
	if err != nil {
		storeError(c, err, "Event not found", "Failed to load events")
		return
	}

	videos, err := h.videoRepo.List(homeVideosLimit)
	if err != nil {
		storeError(c, err, "Video not found", "Failed to load videos")
		return
	}
	for i := range videos {
		withEmbed(&videos[i])
	}

	var embed *models.LiveEmbed
	if h.liveSvc != nil {
		embed, err = h.liveSvc.Current(c.Request.Context())
		if err != nil {
			storeError(c, err, "Live video not found", "Failed to resolve live video")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"videos": videos,
		"live":   embed,
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
)

const upcomingEventsLimit = 50

type EventHandler struct {
	eventRepo EventStore
	now       func() time.Time
}

func NewEventHandler(eventRepo EventStore) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, now: time.Now}
}

// ListEvents returns published events that have not ended yet
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit := queryInt(c, "limit", 20, upcomingEventsLimit)
	events, err := h.eventRepo.ListUpcoming(h.now(), limit)
	if err != nil {
		storeError(c, err, "Event not found", "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent returns a single published event
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	e, err := h.eventRepo.GetByID(id)
	if err != nil {
		storeError(c, err, "Event not found", "Failed to load event")
		return
	}
	if !e.Published {
		ErrorResponse(c, http.StatusNotFound, "Event not found")
		return
	}

	c.JSON(http.StatusOK, e)
}

// Admin

func (h *EventHandler) AdminListEvents(c *gin.Context) {
	events, err := h.eventRepo.ListAll()
	if err != nil {
		storeError(c, err, "Event not found", "Failed to list events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	e := &models.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
	}
	if err := e.Validate(); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventRepo.Create(e); err != nil {
		storeError(c, err, "Event not found", "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, e)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.eventRepo.GetByID(id)
	if err != nil {
		storeError(c, err, "Event not found", "Failed to load event")
		return
	}

	req.Apply(e)
	if err := e.Validate(); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventRepo.Update(e); err != nil {
		storeError(c, err, "Event not found", "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.eventRepo.Delete(id); err != nil {
		storeError(c, err, "Event not found", "Failed to delete event")
		return
	}

	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
)

type ContactHandler struct {
	contactRepo ContactStore
}

func NewContactHandler(contactRepo ContactStore) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

func (h *ContactHandler) CreateMessage(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	m := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := h.contactRepo.Create(m); err != nil {
		storeError(c, err, "Message not found", "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": m.ID})
}

// ListMessages returns the inbox; ?unhandled=true hides answered messages
func (h *ContactHandler) ListMessages(c *gin.Context) {
	unhandled := c.Query("unhandled") == "true"
	limit := queryInt(c, "limit", 50, 200)

	messages, err := h.contactRepo.List(unhandled, limit)
	if err != nil {
		storeError(c, err, "Message not found", "Failed to list messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ContactHandler) MarkHandled(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.contactRepo.MarkHandled(id); err != nil {
		storeError(c, err, "Message not found", "Failed to update message")
		return
	}

	c.Status(http.StatusNoContent)
}

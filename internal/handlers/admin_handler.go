package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sanctuary/backend/internal/middleware"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

type AdminHandler struct {
	userRepo UserStore
}

func NewAdminHandler(userRepo UserStore) *AdminHandler {
	return &AdminHandler{userRepo: userRepo}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.List()
	if err != nil {
		storeError(c, err, "User not found", "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SetRole grants or revokes admin. An admin cannot demote themself.
func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if caller, _ := middleware.GetUserID(c); caller == id && req.Role != models.RoleAdmin {
		ErrorResponse(c, http.StatusBadRequest, "cannot remove your own admin role")
		return
	}

	if err := h.userRepo.SetRole(id, req.Role); err != nil {
		storeError(c, err, "User not found", "Failed to update role")
		return
	}

	logger := applog.Ctx(c.Request.Context())
	logger.Info().Str("target_user_id", id.String()).Str(applog.FieldRole, req.Role).Msg("user role changed")

	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

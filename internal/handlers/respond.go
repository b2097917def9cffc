package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	applog "github.com/sanctuary/backend/internal/platform/log"
	"github.com/sanctuary/backend/internal/repository"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// storeError maps repository errors onto HTTP statuses. Anything other than
// not-found or conflict is logged and reported as failMsg.
func storeError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrConflict):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logger := applog.Ctx(c.Request.Context())
		logger.Error().Err(err).Msg(failMsg)
		ErrorResponse(c, http.StatusInternalServerError, failMsg)
	}
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads a positive integer query parameter, clamped to max.
func queryInt(c *gin.Context, name string, def, max int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

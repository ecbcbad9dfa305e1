package handler

import (
	"errors"
	"net/http"
	"squadup/backend/internal/engine"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError translates an engine error kind into an HTTP response.
// The mapping lives here and nowhere else.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound),
		errors.Is(err, engine.ErrNotQueued),
		errors.Is(err, engine.ErrNotParticipating):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrAlreadyQueued),
		errors.Is(err, engine.ErrAlreadyRostered),
		errors.Is(err, engine.ErrRoleFull),
		errors.Is(err, engine.ErrSessionNotJoinable),
		errors.Is(err, engine.ErrSessionCancelled),
		errors.Is(err, engine.ErrIneligibleAccount),
		errors.Is(err, engine.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidGameMode),
		errors.Is(err, engine.ErrInvalidRole),
		errors.Is(err, engine.ErrInvalidRank),
		errors.Is(err, engine.ErrInvalidStatus),
		errors.Is(err, engine.ErrInvalidSchedule):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

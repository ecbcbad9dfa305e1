package handler

import (
	"net/http"
	"squadup/backend/internal/database"
	"squadup/backend/internal/engine"
	"squadup/backend/internal/models"
	"strconv"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type PromoteInput struct {
	UserID    uint   `json:"user_id" binding:"required"`
	Role      string `json:"role" example:"Tank"`
	AccountID uint   `json:"account_id" binding:"required"`
}

// endregion

// PromoteToRoster godoc
// @Summary      Promote a queued user to the roster (creator only)
// @Description  Moves a queue entry into a roster slot for a role and account. The entry removal and slot insertion commit together; of two racing promotions into the last slot exactly one succeeds.
// @Tags         roster
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int          true "Session ID"
// @Param        input body PromoteInput true "Promotion choice"
// @Success      201  {object}  RosterSlotResponse
// @Failure      403  {object}  ErrorResponse "Only the creator may promote"
// @Failure      404  {object}  ErrorResponse "User is not in the queue"
// @Failure      409  {object}  ErrorResponse "Role full, already rostered, or account not eligible"
// @Router       /sessions/{id}/roster [post]
func PromoteToRoster(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var input PromoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := engine.Promote(database.DB, sessionID, userID.(uint), input.UserID, input.Role, input.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	var loaded models.RosterSlot
	if err := database.DB.Preload("User").Preload("Account.Ratings").
		First(&loaded, slot.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roster slot"})
		return
	}

	c.JSON(http.StatusCreated, RosterSlotResponse{
		User:        buildPublicUserResponse(loaded.User),
		Role:        loaded.Role,
		Account:     newAccountResponse(loaded.Account),
		IsStreaming: loaded.IsStreaming,
		AssignedAt:  loaded.AssignedAt,
	})
}

// DemoteFromRoster godoc
// @Summary      Remove a user from the roster
// @Description  Frees the user's roster slot. Allowed for the session creator or the rostered user themself. The user is not re-queued; a full session reopens.
// @Tags         roster
// @Produce      json
// @Security     BearerAuth
// @Param        id     path int true "Session ID"
// @Param        userID path int true "Rostered user ID"
// @Success      200  {object}  map[string]string "{"message": "Removed from roster"}"
// @Failure      403  {object}  ErrorResponse "Not the creator or the rostered user"
// @Failure      404  {object}  ErrorResponse "User is not on the roster"
// @Router       /sessions/{id}/roster/{userID} [delete]
func DemoteFromRoster(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := engine.Demote(database.DB, sessionID, userID.(uint), uint(targetID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from roster"})
}

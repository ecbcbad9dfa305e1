package handler

import (
	"net/http"
	"squadup/backend/internal/database"
	"squadup/backend/internal/engine"
	"squadup/backend/internal/gamemode"
	"squadup/backend/internal/models"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type JoinQueueInput struct {
	AccountIDs []uint   `json:"account_ids" binding:"required"`
	Roles      []string `json:"roles"`
	Streaming  bool     `json:"streaming"`
	Note       string   `json:"note"`
}

type StreamingInput struct {
	Streaming *bool `json:"streaming" binding:"required"`
}

// QueueDraftInput carries the partial picks of an in-progress join wizard.
// Every field is optional; a PATCH only overwrites what it sends.
type QueueDraftInput struct {
	AccountIDs []uint   `json:"account_ids"`
	Roles      []string `json:"roles"`
	Streaming  *bool    `json:"streaming"`
	Note       *string  `json:"note"`
}

type QueueDraftResponse struct {
	AccountIDs []uint   `json:"account_ids"`
	Roles      []string `json:"roles"`
	Streaming  bool     `json:"streaming"`
	Note       string   `json:"note"`
}

type QueueEntryResponse struct {
	User        PublicUserResponse `json:"user"`
	AccountIDs  []uint             `json:"account_ids"`
	Roles       []string           `json:"roles"`
	IsStreaming bool               `json:"is_streaming"`
	Note        string             `json:"note,omitempty"`
	QueuedAt    time.Time          `json:"queued_at"`
}

func newQueueEntryResponse(entry models.QueueEntry) QueueEntryResponse {
	return QueueEntryResponse{
		User:        buildPublicUserResponse(entry.User),
		AccountIDs:  entry.CandidateAccountIDs,
		Roles:       entry.Roles,
		IsStreaming: entry.IsStreaming,
		Note:        entry.Note,
		QueuedAt:    entry.CreatedAt,
	}
}

func newQueueDraftResponse(sel engine.PendingSelection) QueueDraftResponse {
	return QueueDraftResponse{
		AccountIDs: sel.AccountIDs,
		Roles:      sel.Roles,
		Streaming:  sel.Streaming,
		Note:       sel.Note,
	}
}

// endregion

func sessionIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return 0, false
	}
	return uint(id), true
}

// JoinQueue godoc
// @Summary      Join a session's queue
// @Description  Enters the waiting queue, offering candidate accounts and roles. Role-capacitated modes require at least one offered role with open slots.
// @Tags         queue
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int            true "Session ID"
// @Param        input body JoinQueueInput true "Queue offer"
// @Success      201  {object}  QueueEntryResponse
// @Failure      409  {object}  ErrorResponse "Already queued, already rostered, or no offered role has room"
// @Router       /sessions/{id}/queue [post]
func JoinQueue(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var input JoinQueueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := engine.JoinQueue(database.DB, sessionID, userID.(uint), engine.JoinQueueInput{
		AccountIDs: input.AccountIDs,
		Roles:      input.Roles,
		Streaming:  input.Streaming,
		Note:       input.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	database.DB.First(&entry.User, userID.(uint))
	c.JSON(http.StatusCreated, newQueueEntryResponse(*entry))
}

// LeaveQueue godoc
// @Summary      Leave a session's queue
// @Description  Removes the authenticated user's own queue entry.
// @Tags         queue
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200  {object}  map[string]string "{"message": "Left the queue"}"
// @Failure      404  {object}  ErrorResponse "Not in the queue"
// @Router       /sessions/{id}/queue [delete]
func LeaveQueue(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if _, err := engine.LeaveQueue(database.DB, sessionID, userID.(uint)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left the queue"})
}

// SetStreaming godoc
// @Summary      Toggle the streaming flag
// @Description  Sets the user's streaming flag on their queue entry or roster slot, whichever they hold.
// @Tags         queue
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int            true "Session ID"
// @Param        input body StreamingInput true "Streaming flag"
// @Success      200  {object}  map[string]string "{"message": "Streaming flag updated"}"
// @Failure      404  {object}  ErrorResponse "Not participating in this session"
// @Router       /sessions/{id}/streaming [put]
func SetStreaming(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var input StreamingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := engine.SetStreaming(database.DB, sessionID, userID.(uint), *input.Streaming); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Streaming flag updated"})
}

// GetQueue godoc
// @Summary      List a session's queue (creator only)
// @Description  Returns the waiting queue in insertion order for the creator's review.
// @Tags         queue
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200  {array}   QueueEntryResponse
// @Failure      403  {object}  ErrorResponse "Only the creator may view the queue"
// @Router       /sessions/{id}/queue [get]
func GetQueue(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var session models.Session
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if session.CreatorID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator may view the queue"})
		return
	}

	entries, err := engine.ListQueue(database.DB, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]QueueEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, newQueueEntryResponse(entry))
	}
	c.JSON(http.StatusOK, response)
}

// GetEligibleAccounts godoc
// @Summary      List a queued user's eligible accounts for a role (creator only)
// @Description  Filters the queue entry's candidate accounts to those holding a rating for the role, primary first. Ratings are read live.
// @Tags         queue
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  int    true "Session ID"
// @Param        userID path  int    true "Queued user ID"
// @Param        role   query string true "Target role"
// @Success      200  {array}   AccountResponse
// @Failure      403  {object}  ErrorResponse "Only the creator may inspect eligibility"
// @Failure      404  {object}  ErrorResponse "User is not in the queue"
// @Router       /sessions/{id}/queue/{userID}/eligible-accounts [get]
func GetEligibleAccounts(c *gin.Context) {
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

	var session models.Session
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if session.CreatorID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator may inspect eligibility"})
		return
	}

	mode, ok := gamemode.Lookup(session.GameModeID)
	if !ok {
		respondError(c, engine.ErrInvalidGameMode)
		return
	}
	role := c.Query("role")
	if !mode.AnyOnly() && !mode.HasRole(role) {
		respondError(c, engine.ErrInvalidRole)
		return
	}

	var entry models.QueueEntry
	if err := database.DB.Where("session_id = ? AND user_id = ?", sessionID, uint(targetID)).
		First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not in the queue"})
		return
	}

	accounts, err := engine.EligibleAccounts(database.DB, &entry, mode, role)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, newAccountResponse(account))
	}
	c.JSON(http.StatusOK, response)
}

// region --- Join wizard drafts ---

// StartQueueDraft godoc
// @Summary      Start or replace a join draft
// @Description  Begins a multi-step join: picks are accumulated in a short-lived draft that expires after inactivity. Starting again replaces the previous draft. Omitted roles default to the user's preferred roles.
// @Tags         queue
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int             true "Session ID"
// @Param        input body QueueDraftInput true "Initial picks"
// @Success      201  {object}  QueueDraftResponse
// @Router       /sessions/{id}/queue/draft [post]
func StartQueueDraft(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var session models.Session
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	switch session.Status {
	case models.StatusCancelled:
		respondError(c, engine.ErrSessionCancelled)
		return
	case models.StatusClosed:
		respondError(c, engine.ErrSessionNotJoinable)
		return
	}

	var input QueueDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sel := engine.PendingSelection{
		AccountIDs: input.AccountIDs,
		Roles:      input.Roles,
	}
	if sel.Roles == nil {
		// Pre-fill from the profile; the wizard can still override.
		var user models.User
		if err := database.DB.First(&user, userID.(uint)).Error; err == nil {
			sel.Roles = user.PreferredRoles
		}
	}
	if input.Streaming != nil {
		sel.Streaming = *input.Streaming
	}
	if input.Note != nil {
		sel.Note = *input.Note
	}
	engine.Pending.Put(userID.(uint), sessionID, engine.WizardJoin, sel)

	c.JSON(http.StatusCreated, newQueueDraftResponse(sel))
}

// UpdateQueueDraft godoc
// @Summary      Update a join draft
// @Description  Merges new picks into the draft. Touching the draft resets its expiry.
// @Tags         queue
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int             true "Session ID"
// @Param        input body QueueDraftInput true "Updated picks"
// @Success      200  {object}  QueueDraftResponse
// @Failure      404  {object}  ErrorResponse "No draft in progress (it may have expired)"
// @Router       /sessions/{id}/queue/draft [patch]
func UpdateQueueDraft(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	sel, found := engine.Pending.Get(userID.(uint), sessionID, engine.WizardJoin)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No draft in progress"})
		return
	}

	var input QueueDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.AccountIDs != nil {
		sel.AccountIDs = input.AccountIDs
	}
	if input.Roles != nil {
		sel.Roles = input.Roles
	}
	if input.Streaming != nil {
		sel.Streaming = *input.Streaming
	}
	if input.Note != nil {
		sel.Note = *input.Note
	}
	engine.Pending.Put(userID.(uint), sessionID, engine.WizardJoin, sel)

	c.JSON(http.StatusOK, newQueueDraftResponse(sel))
}

// CancelQueueDraft godoc
// @Summary      Discard a join draft
// @Tags         queue
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200  {object}  map[string]string "{"message": "Draft discarded"}"
// @Router       /sessions/{id}/queue/draft [delete]
func CancelQueueDraft(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	engine.Pending.Delete(userID.(uint), sessionID, engine.WizardJoin)
	c.JSON(http.StatusOK, gin.H{"message": "Draft discarded"})
}

// CompleteQueueDraft godoc
// @Summary      Complete a join draft
// @Description  Submits the accumulated picks as a queue join. The draft is consumed on success and kept on failure so the user can fix it.
// @Tags         queue
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      201  {object}  QueueEntryResponse
// @Failure      404  {object}  ErrorResponse "No draft in progress (it may have expired)"
// @Failure      409  {object}  ErrorResponse "Join rejected; the draft is preserved"
// @Router       /sessions/{id}/queue/draft/complete [post]
func CompleteQueueDraft(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	sel, found := engine.Pending.Get(userID.(uint), sessionID, engine.WizardJoin)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No draft in progress"})
		return
	}

	entry, err := engine.JoinQueue(database.DB, sessionID, userID.(uint), engine.JoinQueueInput{
		AccountIDs: sel.AccountIDs,
		Roles:      sel.Roles,
		Streaming:  sel.Streaming,
		Note:       sel.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	engine.Pending.Delete(userID.(uint), sessionID, engine.WizardJoin)

	database.DB.First(&entry.User, userID.(uint))
	c.JSON(http.StatusCreated, newQueueEntryResponse(*entry))
}

// endregion

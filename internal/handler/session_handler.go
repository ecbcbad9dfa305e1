package handler

import (
	"io"
	"net/http"
	"squadup/backend/internal/database"
	"squadup/backend/internal/engine"
	"squadup/backend/internal/gamemode"
	"squadup/backend/internal/hub"
	"squadup/backend/internal/models"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type SessionInput struct {
	GameModeID  string    `json:"game_mode_id" binding:"required" example:"5v5"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Description string    `json:"description"`
	// MaxRankDiff in rank-value points; omit or use -1 for no filter.
	MaxRankDiff *int   `json:"max_rank_diff"`
	MessageRef  string `json:"message_ref"`
}

type StatusInput struct {
	Status string `json:"status" binding:"required" example:"closed"`
}

type RescheduleInput struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type RosterSlotResponse struct {
	User        PublicUserResponse `json:"user"`
	Role        string             `json:"role" example:"Tank"`
	Account     AccountResponse    `json:"account"`
	IsStreaming bool               `json:"is_streaming"`
	AssignedAt  time.Time          `json:"assigned_at"`
}

type SessionResponse struct {
	ID          uint                 `json:"id"`
	Status      models.SessionStatus `json:"status" example:"open"`
	GameMode    gamemode.Mode        `json:"game_mode"`
	ScheduledAt time.Time            `json:"scheduled_at"`
	Timezone    string               `json:"timezone" example:"America/New_York"`
	Description string               `json:"description"`
	MaxRankDiff int                  `json:"max_rank_diff"`
	MessageRef  string               `json:"message_ref,omitempty"`
	Creator     PublicUserResponse   `json:"creator"`
	QueueCount  int                  `json:"queue_count"`
	Roster      []RosterSlotResponse `json:"roster"`

	// ViewerState is "queued" or "rostered" when the authenticated viewer
	// participates in this session, empty otherwise.
	ViewerState string `json:"viewer_state,omitempty"`
}

func newSessionResponse(session models.Session, queueCount int) SessionResponse {
	mode, _ := gamemode.Lookup(session.GameModeID)

	roster := make([]RosterSlotResponse, 0, len(session.RosterSlots))
	for _, slot := range session.RosterSlots {
		roster = append(roster, RosterSlotResponse{
			User:        buildPublicUserResponse(slot.User),
			Role:        slot.Role,
			Account:     newAccountResponse(slot.Account),
			IsStreaming: slot.IsStreaming,
			AssignedAt:  slot.AssignedAt,
		})
	}

	return SessionResponse{
		ID:          session.ID,
		Status:      session.Status,
		GameMode:    mode,
		ScheduledAt: session.ScheduledAt,
		Timezone:    session.Timezone,
		Description: session.Description,
		MaxRankDiff: session.MaxRankDiff,
		MessageRef:  session.MessageRef,
		Creator:     buildPublicUserResponse(session.Creator),
		QueueCount:  queueCount,
		Roster:      roster,
	}
}

func loadSessionResponse(sessionID, viewerID uint) (SessionResponse, error) {
	var session models.Session
	err := database.DB.
		Preload("Creator").
		Preload("RosterSlots.User").
		Preload("RosterSlots.Account.Ratings").
		First(&session, sessionID).Error
	if err != nil {
		return SessionResponse{}, err
	}

	var queueCount int64
	database.DB.Model(&models.QueueEntry{}).Where("session_id = ?", sessionID).Count(&queueCount)

	response := newSessionResponse(session, int(queueCount))
	response.ViewerState = viewerState(sessionID, viewerID)
	return response, nil
}

// viewerState reports how viewerID participates in a session, if at all.
// A zero viewerID means the request was anonymous.
func viewerState(sessionID, viewerID uint) string {
	if viewerID == 0 {
		return ""
	}
	var n int64
	database.DB.Model(&models.QueueEntry{}).
		Where("session_id = ? AND user_id = ?", sessionID, viewerID).Count(&n)
	if n > 0 {
		return "queued"
	}
	database.DB.Model(&models.RosterSlot{}).
		Where("session_id = ? AND user_id = ?", sessionID, viewerID).Count(&n)
	if n > 0 {
		return "rostered"
	}
	return ""
}

// optionalViewerID reads the userID set by the optional auth middleware.
func optionalViewerID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		return v.(uint)
	}
	return 0
}

// endregion

// CreateSession godoc
// @Summary      Create a session
// @Description  Schedules a new session for a game mode, making the creator its owner.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SessionInput true "Session Info"
// @Success      201  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse "Unknown game mode or bad schedule"
// @Router       /sessions [post]
func CreateSession(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxDiff := models.NoRankDiffLimit
	if input.MaxRankDiff != nil {
		maxDiff = *input.MaxRankDiff
	}

	session, err := engine.CreateSession(database.DB, userID.(uint), engine.CreateSessionInput{
		GameModeID:  input.GameModeID,
		ScheduledAt: input.ScheduledAt,
		Description: input.Description,
		MaxRankDiff: maxDiff,
		MessageRef:  input.MessageRef,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := loadSessionResponse(session.ID, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	c.JSON(http.StatusCreated, response)
}

// ListSessions godoc
// @Summary      List open sessions
// @Description  Lists non-cancelled sessions ordered by scheduled time, with queue counts.
// @Tags         sessions
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {array} SessionResponse
// @Router       /sessions [get]
func ListSessions(c *gin.Context) {
	viewerID := optionalViewerID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	var sessions []models.Session
	database.DB.
		Preload("Creator").
		Preload("RosterSlots.User").
		Preload("RosterSlots.Account.Ratings").
		Where("status <> ?", models.StatusCancelled).
		Order("scheduled_at ASC").
		Offset(offset).Limit(limit).
		Find(&sessions)

	response := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		var queueCount int64
		database.DB.Model(&models.QueueEntry{}).Where("session_id = ?", session.ID).Count(&queueCount)
		item := newSessionResponse(session, int(queueCount))
		item.ViewerState = viewerState(session.ID, viewerID)
		response = append(response, item)
	}

	c.JSON(http.StatusOK, response)
}

// GetSessionByID godoc
// @Summary      Get a session by ID
// @Description  Gets full details for a single session, including its roster.
// @Tags         sessions
// @Produce      json
// @Param        id path int true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id} [get]
func GetSessionByID(c *gin.Context) {
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	response, err := loadSessionResponse(uint(sessionID), optionalViewerID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// SetSessionStatus godoc
// @Summary      Open, close or cancel a session (creator only)
// @Description  Toggles between open and closed, or cancels permanently. Fullness is derived and cannot be set.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Session ID"
// @Param        input body StatusInput true "Target status: open, closed or cancelled"
// @Success      200  {object}  SessionResponse
// @Failure      400  {object}  ErrorResponse "Invalid target status"
// @Failure      403  {object}  ErrorResponse "Only the creator may change status"
// @Failure      409  {object}  ErrorResponse "Session is cancelled"
// @Router       /sessions/{id}/status [patch]
func SetSessionStatus(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err = engine.SetStatus(database.DB, uint(sessionID), userID.(uint), models.SessionStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := loadSessionResponse(uint(sessionID), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// RescheduleSession godoc
// @Summary      Reschedule a session (creator only)
// @Description  Moves the session to a new time. Queue and roster are untouched.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int             true "Session ID"
// @Param        input body RescheduleInput true "New time"
// @Success      200  {object}  SessionResponse
// @Failure      403  {object}  ErrorResponse "Only the creator may reschedule"
// @Failure      409  {object}  ErrorResponse "Session is cancelled"
// @Router       /sessions/{id}/schedule [patch]
func RescheduleSession(c *gin.Context) {
	userID, _ := c.Get("userID")
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var input RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err = engine.Reschedule(database.DB, uint(sessionID), userID.(uint), input.ScheduledAt)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := loadSessionResponse(uint(sessionID), userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// SessionEvents godoc
// @Summary      Subscribe to a session's change events
// @Description  Server-sent event stream; a session_changed event fires after every committed mutation. Clients re-fetch the session on each event.
// @Tags         sessions
// @Produce      text/event-stream
// @Param        id path int true "Session ID"
// @Failure      404 {object} ErrorResponse "Session not found"
// @Router       /sessions/{id}/events [get]
func SessionEvents(c *gin.Context) {
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var session models.Session
	if err := database.DB.First(&session, uint(sessionID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	client := make(hub.Client, 8)
	hub.GlobalHub.Subscribe(uint(sessionID), client)
	defer hub.GlobalHub.Unsubscribe(uint(sessionID), client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

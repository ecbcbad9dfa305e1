package handler

import (
	"net/http"
	"squadup/backend/internal/database"
	"squadup/backend/internal/engine"
	"squadup/backend/internal/gamemode"
	"squadup/backend/internal/models"
	"strconv"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type AccountInput struct {
	Name      string `json:"name" binding:"required" example:"Main"`
	IsPrimary bool   `json:"is_primary"`
}

type RatingInput struct {
	Role     string `json:"role" binding:"required" example:"Tank"`
	Rank     string `json:"rank" example:"Gold"`
	Division int    `json:"division" example:"3"`
}

type RatingResponse struct {
	Role     string `json:"role" example:"Tank"`
	Rank     string `json:"rank" example:"Gold"`
	Division int    `json:"division" example:"3"`
	Display  string `json:"display" example:"Gold 3"`
}

type AccountResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name" example:"Main"`
	IsPrimary bool             `json:"is_primary"`
	Ratings   []RatingResponse `json:"ratings"`
}

func newAccountResponse(account models.Account) AccountResponse {
	ratings := make([]RatingResponse, 0, len(account.Ratings))
	for _, r := range account.Ratings {
		ratings = append(ratings, RatingResponse{
			Role:     r.Role,
			Rank:     r.Rank,
			Division: r.Division,
			Display:  gamemode.FormatRank(r.Rank, r.Division),
		})
	}
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		IsPrimary: account.IsPrimary,
		Ratings:   ratings,
	}
}

// endregion

// ListAccounts godoc
// @Summary      List my accounts
// @Description  Lists the authenticated user's accounts, primary first.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   AccountResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /accounts [get]
func ListAccounts(c *gin.Context) {
	userID, _ := c.Get("userID")

	accounts, err := engine.ListAccounts(database.DB, userID.(uint))
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

// CreateAccount godoc
// @Summary      Add an account
// @Description  Creates a named account for the authenticated user. Names are unique per user.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AccountInput true "Account Info"
// @Success      201  {object}  AccountResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Account name already in use"
// @Router       /accounts [post]
func CreateAccount(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input AccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := engine.CreateAccount(database.DB, userID.(uint), input.Name, input.IsPrimary)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAccountResponse(*account))
}

// SetAccountRating godoc
// @Summary      Set an account's rank for a role
// @Description  Sets or clears (empty rank) the account's rank and division for one role.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Account ID"
// @Param        input body RatingInput true "Rating Info"
// @Success      200  {object}  AccountResponse
// @Failure      400  {object}  ErrorResponse "Unknown role, rank or division"
// @Failure      404  {object}  ErrorResponse "Account not found"
// @Router       /accounts/{id}/rating [put]
func SetAccountRating(c *gin.Context) {
	userID, _ := c.Get("userID")
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := engine.SetRating(database.DB, userID.(uint), uint(accountID), input.Role, input.Rank, input.Division)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAccountResponse(*account))
}

// SetPrimaryAccount godoc
// @Summary      Make an account primary
// @Description  Marks the account as primary; the previous primary is unset atomically.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Account ID"
// @Success      200  {object}  AccountResponse
// @Failure      404  {object}  ErrorResponse "Account not found"
// @Router       /accounts/{id}/primary [post]
func SetPrimaryAccount(c *gin.Context) {
	userID, _ := c.Get("userID")
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	account, err := engine.SetPrimary(database.DB, userID.(uint), uint(accountID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAccountResponse(*account))
}

// DeleteAccount godoc
// @Summary      Delete an account
// @Description  Removes an account and its ratings. Existing queue/roster references tolerate the removal.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Account ID"
// @Success      200  {object}  map[string]string "{"message": "Account deleted"}"
// @Failure      404  {object}  ErrorResponse "Account not found"
// @Router       /accounts/{id} [delete]
func DeleteAccount(c *gin.Context) {
	userID, _ := c.Get("userID")
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	if err := engine.DeleteAccount(database.DB, userID.(uint), uint(accountID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

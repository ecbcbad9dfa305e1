package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"squadup/backend/internal/auth"
	"squadup/backend/internal/config"
	"squadup/backend/internal/database"
)

// setupRouter points the global database at a fresh in-memory instance and
// wires the same route table the server uses.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", RegisterUser)
			authRoutes.POST("/login", LoginUser)
		}

		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", GetMe)
			userRoutes.PUT("/me", UpdateMe)
		}

		accountRoutes := apiV1.Group("/accounts")
		accountRoutes.Use(auth.AuthMiddleware())
		{
			accountRoutes.GET("", ListAccounts)
			accountRoutes.POST("", CreateAccount)
			accountRoutes.PUT("/:id/rating", SetAccountRating)
			accountRoutes.POST("/:id/primary", SetPrimaryAccount)
			accountRoutes.DELETE("/:id", DeleteAccount)
		}

		apiV1.GET("/modes", GetModes)

		sessionRoutes := apiV1.Group("/sessions")
		{
			sessionRoutes.GET("", auth.OptionalAuthMiddleware(), ListSessions)
			sessionRoutes.GET("/:id", auth.OptionalAuthMiddleware(), GetSessionByID)

			protected := sessionRoutes.Group("")
			protected.Use(auth.AuthMiddleware())
			{
				protected.POST("", CreateSession)
				protected.PATCH("/:id/status", SetSessionStatus)
				protected.PATCH("/:id/schedule", RescheduleSession)

				protected.POST("/:id/queue", JoinQueue)
				protected.DELETE("/:id/queue", LeaveQueue)
				protected.GET("/:id/queue", GetQueue)
				protected.GET("/:id/queue/:userID/eligible-accounts", GetEligibleAccounts)
				protected.PUT("/:id/streaming", SetStreaming)

				protected.POST("/:id/queue/draft", StartQueueDraft)
				protected.PATCH("/:id/queue/draft", UpdateQueueDraft)
				protected.DELETE("/:id/queue/draft", CancelQueueDraft)
				protected.POST("/:id/queue/draft/complete", CompleteQueueDraft)

				protected.POST("/:id/roster", PromoteToRoster)
				protected.DELETE("/:id/roster/:userID", DemoteFromRoster)
			}
		}
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// registerUser registers a user through the API and returns their token.
func registerUser(t *testing.T, router *gin.Engine, nickname string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"nickname": nickname,
		"email":    nickname + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

// addRatedAccount creates an account with one Tank rating and returns its id.
func addRatedAccount(t *testing.T, router *gin.Engine, token, name, role string) uint {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/accounts", token, gin.H{
		"name":       name,
		"is_primary": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var account AccountResponse
	decodeBody(t, w, &account)

	w = doJSON(t, router, http.MethodPut, accountPath(account.ID)+"/rating", token, gin.H{
		"role":     role,
		"rank":     "Gold",
		"division": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return account.ID
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func accountPath(id uint) string {
	return "/api/v1/accounts/" + idString(id)
}

func sessionPath(id uint) string {
	return "/api/v1/sessions/" + idString(id)
}

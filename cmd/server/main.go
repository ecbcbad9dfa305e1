package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"squadup/backend/internal/auth"
	"squadup/backend/internal/config"
	"squadup/backend/internal/database"
	"squadup/backend/internal/engine"
	"squadup/backend/internal/handler"
	"squadup/backend/internal/hub"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "squadup/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           SquadUp API
// @version         1.0
// @description     This is the API for the SquadUp session roster service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Fan committed mutations out to SSE subscribers.
	engine.Notify = func(sessionID uint) {
		hub.GlobalHub.Broadcast(sessionID, hub.SessionChanged(sessionID))
	}
	engine.Pending = engine.NewPendingStore(config.AppConfig.DraftTTL)
	stopSweeper := engine.Pending.StartSweeper(time.Minute)
	defer stopSweeper()

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
		}

		// Account routes (protected)
		accountRoutes := apiV1.Group("/accounts")
		accountRoutes.Use(auth.AuthMiddleware())
		{
			accountRoutes.GET("", handler.ListAccounts)
			accountRoutes.POST("", handler.CreateAccount)
			accountRoutes.PUT("/:id/rating", handler.SetAccountRating)
			accountRoutes.POST("/:id/primary", handler.SetPrimaryAccount)
			accountRoutes.DELETE("/:id", handler.DeleteAccount)
		}

		// Game mode catalog (public)
		apiV1.GET("/modes", handler.GetModes)

		// Session routes
		sessionRoutes := apiV1.Group("/sessions")
		{
			sessionRoutes.GET("", auth.OptionalAuthMiddleware(), handler.ListSessions)
			sessionRoutes.GET("/:id", auth.OptionalAuthMiddleware(), handler.GetSessionByID)
			sessionRoutes.GET("/:id/events", handler.SessionEvents)

			protected := sessionRoutes.Group("")
			protected.Use(auth.AuthMiddleware())
			{
				protected.POST("", handler.CreateSession)
				protected.PATCH("/:id/status", handler.SetSessionStatus)
				protected.PATCH("/:id/schedule", handler.RescheduleSession)

				// Queue
				protected.POST("/:id/queue", handler.JoinQueue)
				protected.DELETE("/:id/queue", handler.LeaveQueue)
				protected.GET("/:id/queue", handler.GetQueue)
				protected.GET("/:id/queue/:userID/eligible-accounts", handler.GetEligibleAccounts)
				protected.PUT("/:id/streaming", handler.SetStreaming)

				// Join wizard drafts
				protected.POST("/:id/queue/draft", handler.StartQueueDraft)
				protected.PATCH("/:id/queue/draft", handler.UpdateQueueDraft)
				protected.DELETE("/:id/queue/draft", handler.CancelQueueDraft)
				protected.POST("/:id/queue/draft/complete", handler.CompleteQueueDraft)

				// Roster
				protected.POST("/:id/roster", handler.PromoteToRoster)
				protected.DELETE("/:id/roster/:userID", handler.DemoteFromRoster)
			}
		}
	}

	addr := config.AppConfig.ServerAddr
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(addr))
}

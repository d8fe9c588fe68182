package routes

import (
	"net/http"

	"unjumble/handlers"
	"unjumble/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	playHandler *handlers.PlayHandler,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", middleware.AuthMiddleware(jwtSecret), authHandler.GetProfile)
		}

		unjumble := api.Group("/games/unjumble")
		{
			// Player area (public)
			unjumble.GET("/puzzle", playHandler.GetPuzzle)
			unjumble.POST("/check-answer", playHandler.CheckAnswer)
			unjumble.POST("/play-count", middleware.OptionalAuth(jwtSecret), playHandler.PlayCount)
			unjumble.GET("/:game_id", playHandler.GetPlay)
			unjumble.GET("/:game_id/play/public", playHandler.GetPlay)

			// Admin area
			admin := unjumble.Group("", middleware.AuthMiddleware(jwtSecret))
			{
				admin.POST("", gameHandler.CreateGame)
				admin.PUT("/:game_id", gameHandler.UpdateGame)
				admin.PATCH("/:game_id", gameHandler.UpdatePublishStatus)
				admin.DELETE("/:game_id", gameHandler.DeleteGame)
				admin.GET("/:game_id/edit", gameHandler.GetGameForEdit)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

package routes

import (
	"swiftride/internal/handlers"
	"swiftride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up routes for account registration and tokens
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthRequired(jwtSecret))
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", authHandler.Profile)
		protected.POST("/me/avatar", authHandler.UploadAvatar)
	}
}

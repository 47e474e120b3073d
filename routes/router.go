package routes

import (
	"net/http"

	"swiftride/internal/config"
	"swiftride/internal/handlers"
	"swiftride/internal/middleware"
	"swiftride/internal/utils"
	"swiftride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Booking *handlers.BookingHandler
	Driver  *handlers.DriverHandler
	WS      *handlers.WSHandler
}

// SetupRouter assembles the full HTTP surface: middleware stack, REST API
// under /api/v1, the websocket endpoint, and the health probe.
func SetupRouter(cfg *config.Config, h *Handlers, log *logger.Logger) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": utils.AppName,
			"version": utils.AppVersion,
		})
	})

	api := router.Group("/api/v1")
	SetupAuthRoutes(api, h.Auth, cfg.Security.JWTSecret)
	SetupBookingRoutes(api, h.Booking, cfg.Security.JWTSecret)
	SetupDriverRoutes(api, h.Driver, cfg.Security.JWTSecret)

	router.GET(cfg.WebSocket.Path, h.WS.Connect)

	return router
}

package routes

import (
	"swiftride/internal/handlers"
	"swiftride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDriverRoutes sets up driver onboarding and runtime state routes
func SetupDriverRoutes(r *gin.RouterGroup, driverHandler *handlers.DriverHandler, jwtSecret string) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		drivers.GET("/me", driverHandler.GetMe)
		drivers.PUT("/me", driverHandler.UpdateMe)
		drivers.POST("/me/documents", driverHandler.UploadDocument)
		drivers.PUT("/me/availability", driverHandler.SetAvailability)
		drivers.PUT("/me/location", driverHandler.UpdateLocation)
	}

	// Riders rate drivers after completed trips
	ratings := r.Group("/drivers")
	ratings.Use(middleware.AuthRequired(jwtSecret), middleware.RiderRequired())
	{
		ratings.POST("/:id/rate", driverHandler.RateDriver)
	}
}

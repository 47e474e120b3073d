package routes

import (
	"swiftride/internal/handlers"
	"swiftride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes sets up the booking lifecycle routes
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	// Rider-facing booking operations
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.GET("/:id", bookingHandler.GetBooking)
	}

	riders := r.Group("/bookings")
	riders.Use(middleware.AuthRequired(jwtSecret), middleware.RiderRequired())
	{
		riders.POST("/", bookingHandler.CreateBooking)
		riders.GET("/", bookingHandler.ListMyBookings)
		riders.PUT("/:id/cancel", bookingHandler.CancelBooking)
		riders.GET("/nearby-drivers", bookingHandler.NearbyDrivers)
	}

	// Driver-facing lifecycle transitions
	drivers := r.Group("/bookings")
	drivers.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		drivers.GET("/pending", bookingHandler.PendingBookings)
		drivers.PUT("/:id/accept", bookingHandler.AcceptBooking)
		drivers.PUT("/:id/start", bookingHandler.StartRide)
		drivers.PUT("/:id/complete", bookingHandler.CompleteRide)
	}
}

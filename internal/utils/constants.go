package utils

import "time"

// Application constants
const (
	AppName    = "SwiftRide"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Dispatch
	DefaultSearchRadiusKm = 10.0
	MaxSearchRadiusKm     = 50.0
	RouteEstimateTimeout  = 10 * time.Second

	// Pricing defaults
	DefaultBaseFare  = 20.0
	DefaultPerKmRate = 5.0

	// Rating bounds
	MinRating = 1.0
	MaxRating = 5.0

	// File upload
	MaxAvatarSize   = 5 * 1024 * 1024  // 5MB
	MaxDocumentSize = 10 * 1024 * 1024 // 10MB
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Websocket event names shared between the dispatch core and clients.
const (
	EventNewBooking       = "new_booking"
	EventDriverAssigned   = "driver_assigned"
	EventRideStarted      = "ride_started"
	EventRideCompleted    = "ride_completed"
	EventBookingCancelled = "booking_cancelled"
	EventLocationUpdate   = "location_update"
	EventWelcome          = "welcome"
)

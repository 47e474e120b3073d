package handlers

import (
	"errors"
	"net/http"

	"swiftride/internal/services"
	"swiftride/internal/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is an internal error; the details stay in the logs.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidLocation),
		errors.Is(err, services.ErrInvalidRadius),
		errors.Is(err, services.ErrInvalidDistance),
		errors.Is(err, services.ErrInvalidRating):
		utils.BadRequestResponse(c, err.Error())

	case errors.Is(err, services.ErrRoutingUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "ROUTING_UNAVAILABLE", "Route estimation is temporarily unavailable, please retry")

	case errors.Is(err, services.ErrBookingNotFound):
		utils.NotFoundResponse(c, "Booking")

	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "User")

	case errors.Is(err, services.ErrDriverNotFound):
		utils.NotFoundResponse(c, "Driver")

	case errors.Is(err, services.ErrBookingUnavailable):
		utils.ConflictResponse(c, "Booking is no longer available")

	case errors.Is(err, services.ErrInvalidTransition):
		utils.ConflictResponse(c, "Booking is not in a state that allows this action")

	case errors.Is(err, services.ErrUserAlreadyExists):
		utils.ConflictResponse(c, "An account with this email or username already exists")

	case errors.Is(err, services.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")

	case errors.Is(err, services.ErrInvalidToken):
		utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")

	default:
		utils.InternalServerErrorResponse(c)
	}
}

package handlers

import (
	"strconv"

	"swiftride/internal/middleware"
	"swiftride/internal/services"
	"swiftride/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingHandler struct {
	dispatchService *services.DispatchService
	driverService   *services.DriverService
}

func NewBookingHandler(dispatchService *services.DispatchService, driverService *services.DriverService) *BookingHandler {
	return &BookingHandler{
		dispatchService: dispatchService,
		driverService:   driverService,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	riderID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithDetails(c, 400, "VALIDATION_ERROR", "Validation failed", utils.ValidationErrors(err))
		return
	}

	booking, err := h.dispatchService.CreateBooking(c.Request.Context(), riderID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created", booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking id")
		return
	}

	booking, err := h.dispatchService.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking", booking)
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	riderID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.dispatchService.GetRiderBookings(c.Request.Context(), riderID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookings", gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     params.Page,
	})
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	riderID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking id")
		return
	}

	booking, err := h.dispatchService.CancelBooking(c.Request.Context(), bookingID, riderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled", booking)
}

// AcceptBooking claims a pending booking for the calling driver.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	driver, ok := h.currentDriver(c)
	if !ok {
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking id")
		return
	}

	booking, err := h.dispatchService.AcceptBooking(c.Request.Context(), bookingID, driver.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking accepted", booking)
}

func (h *BookingHandler) StartRide(c *gin.Context) {
	driver, ok := h.currentDriver(c)
	if !ok {
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking id")
		return
	}

	booking, err := h.dispatchService.StartRide(c.Request.Context(), bookingID, driver.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride started", booking)
}

func (h *BookingHandler) CompleteRide(c *gin.Context) {
	driver, ok := h.currentDriver(c)
	if !ok {
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking id")
		return
	}

	booking, err := h.dispatchService.CompleteRide(c.Request.Context(), bookingID, driver.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride completed", booking)
}

// NearbyDrivers lists available drivers around a point, nearest first.
func (h *BookingHandler) NearbyDrivers(c *gin.Context) {
	lat, lng, ok := parseLatLng(c)
	if !ok {
		return
	}
	radius := parseRadius(c)

	drivers, err := h.dispatchService.GetNearbyDrivers(c.Request.Context(), lat, lng, radius)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Nearby drivers", gin.H{"drivers": drivers, "count": len(drivers)})
}

// PendingBookings lists open bookings around the calling driver's position.
func (h *BookingHandler) PendingBookings(c *gin.Context) {
	lat, lng, ok := parseLatLng(c)
	if !ok {
		return
	}
	radius := parseRadius(c)

	bookings, err := h.dispatchService.GetPendingBookingsNear(c.Request.Context(), lat, lng, radius)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Pending bookings", gin.H{"bookings": bookings, "count": len(bookings)})
}

// currentDriver resolves the calling user's driver record. A missing record
// means the account is not onboarded as a driver.
func (h *BookingHandler) currentDriver(c *gin.Context) (driver *driverIdentity, ok bool) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		utils.UnauthorizedResponse(c)
		return nil, false
	}

	record, err := h.driverService.GetDriverByUserID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return nil, false
	}

	return &driverIdentity{ID: record.ID, UserID: userID}, true
}

type driverIdentity struct {
	ID     primitive.ObjectID
	UserID primitive.ObjectID
}

func parseLatLng(c *gin.Context) (lat, lng float64, ok bool) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.BadRequestResponse(c, "lat and lng query parameters are required")
		return 0, 0, false
	}
	return lat, lng, true
}

func parseRadius(c *gin.Context) float64 {
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius_km", strconv.FormatFloat(utils.DefaultSearchRadiusKm, 'f', -1, 64)), 64)
	if err != nil {
		return utils.DefaultSearchRadiusKm
	}
	return radius
}

package handlers

import (
	"io"

	"swiftride/internal/middleware"
	"swiftride/internal/models"
	"swiftride/internal/services"
	"swiftride/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverHandler struct {
	driverService *services.DriverService
}

func NewDriverHandler(driverService *services.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

func (h *DriverHandler) GetMe(c *gin.Context) {
	driver, ok := h.me(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, "Driver profile", driver)
}

func (h *DriverHandler) UpdateMe(c *gin.Context) {
	driver, ok := h.me(c)
	if !ok {
		return
	}

	var req services.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if req.VehicleDetails != nil {
		if err := utils.ValidateStruct(req.VehicleDetails); err != nil {
			utils.ErrorResponseWithDetails(c, 400, "VALIDATION_ERROR", "Validation failed", utils.ValidationErrors(err))
			return
		}
	}

	updated, err := h.driverService.UpdateDriver(c.Request.Context(), driver.ID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver updated", updated)
}

// UploadDocument accepts a multipart verification document upload.
func (h *DriverHandler) UploadDocument(c *gin.Context) {
	driver, ok := h.me(c)
	if !ok {
		return
	}

	docType := models.DocumentType(c.PostForm("type"))
	switch docType {
	case models.DocumentTypeLicense, models.DocumentTypeRegistration, models.DocumentTypeInsurance:
	default:
		utils.BadRequestResponse(c, "type must be License, Registration or Insurance")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "file is required")
		return
	}
	if fileHeader.Size > utils.MaxDocumentSize {
		utils.BadRequestResponse(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	updated, err := h.driverService.UploadDocument(c.Request.Context(), driver.ID, docType,
		fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Document uploaded", updated)
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	driver, ok := h.me(c)
	if !ok {
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "available is required")
		return
	}

	if err := h.driverService.SetAvailability(c.Request.Context(), driver.ID, *req.Available); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability updated", gin.H{"available": *req.Available})
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	driver, ok := h.me(c)
	if !ok {
		return
	}

	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.driverService.UpdateLocation(c.Request.Context(), driver.ID, req.Latitude, req.Longitude); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Location updated", nil)
}

// RateDriver records a rider's rating for a driver.
func (h *DriverHandler) RateDriver(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid driver id")
		return
	}

	var req struct {
		Rating float64 `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "rating is required")
		return
	}

	driver, err := h.driverService.RateDriver(c.Request.Context(), driverID, req.Rating)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Rating recorded", driver.Rating)
}

func (h *DriverHandler) me(c *gin.Context) (*models.Driver, bool) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		utils.UnauthorizedResponse(c)
		return nil, false
	}

	driver, err := h.driverService.GetDriverByUserID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return nil, false
	}

	return driver, true
}

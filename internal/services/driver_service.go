package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"swiftride/internal/models"
	"swiftride/internal/repositories/interfaces"
	"swiftride/internal/utils"
	"swiftride/pkg/logger"
	"swiftride/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverService covers driver onboarding and runtime state: vehicle details,
// verification documents, availability, live location, and ratings.
type DriverService struct {
	driverRepo interfaces.DriverRepository
	storage    storage.Provider
	logger     *logger.Logger
}

func NewDriverService(
	driverRepo interfaces.DriverRepository,
	store storage.Provider,
	log *logger.Logger,
) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		storage:    store,
		logger:     log,
	}
}

type UpdateDriverRequest struct {
	LicenseNumber  string                 `json:"license_number,omitempty"`
	VehicleDetails *models.VehicleDetails `json:"vehicle_details,omitempty"`
	Capacity       int                    `json:"capacity,omitempty"`
}

func (s *DriverService) GetDriver(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	return s.driverRepo.GetByID(ctx, id)
}

func (s *DriverService) GetDriverByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	return s.driverRepo.GetByUserID(ctx, userID)
}

func (s *DriverService) UpdateDriver(ctx context.Context, id primitive.ObjectID, req *UpdateDriverRequest) (*models.Driver, error) {
	updates := map[string]interface{}{}
	if req.LicenseNumber != "" {
		updates["license_number"] = req.LicenseNumber
	}
	if req.VehicleDetails != nil {
		updates["vehicle_details"] = req.VehicleDetails
	}
	if req.Capacity > 0 {
		updates["capacity"] = req.Capacity
	}

	if len(updates) > 0 {
		if err := s.driverRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.driverRepo.GetByID(ctx, id)
}

// UploadDocument stores a verification document and records its URL on the
// driver. New uploads reset the verified flag.
func (s *DriverService) UploadDocument(ctx context.Context, id primitive.ObjectID, docType models.DocumentType, filename string, data []byte, contentType string) (*models.Driver, error) {
	key := fmt.Sprintf("documents/%s/%s%s", id.Hex(), docType, filepath.Ext(filename))

	uploaded, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	document := &models.DriverDocument{
		Type:       docType,
		FileURL:    uploaded.URL,
		IsVerified: false,
	}

	if err := s.driverRepo.Update(ctx, id, map[string]interface{}{"document": document}); err != nil {
		return nil, err
	}

	s.logger.WithField("driver_id", id.Hex()).WithField("document_type", docType).Info("Driver document uploaded")

	return s.driverRepo.GetByID(ctx, id)
}

func (s *DriverService) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return s.driverRepo.UpdateAvailability(ctx, id, available)
}

// UpdateLocation records the driver's latest position for the geo index.
func (s *DriverService) UpdateLocation(ctx context.Context, id primitive.ObjectID, lat, lng float64) error {
	if !utils.IsValidCoordinates(lat, lng) {
		return ErrInvalidLocation
	}

	location := models.NewLocation(lng, lat, "")
	return s.driverRepo.UpdateLocation(ctx, id, &location)
}

// RateDriver folds one rider rating into the driver's aggregate.
func (s *DriverService) RateDriver(ctx context.Context, id primitive.ObjectID, value float64) (*models.Driver, error) {
	if value < utils.MinRating || value > utils.MaxRating {
		return nil, ErrInvalidRating
	}

	return s.driverRepo.AddRating(ctx, id, value)
}

// LastSeen reports how stale the driver's location is, if one was ever
// recorded.
func (s *DriverService) LastSeen(driver *models.Driver) (time.Duration, bool) {
	if driver.LastLocationUpdate == nil {
		return 0, false
	}
	return time.Since(*driver.LastLocationUpdate), true
}

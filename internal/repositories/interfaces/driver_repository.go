package interfaces

import (
	"context"

	"swiftride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Location operations
	UpdateLocation(ctx context.Context, id primitive.ObjectID, location *models.Location) error
	GetNearbyAvailable(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*models.Driver, error)

	// Status operations
	UpdateAvailability(ctx context.Context, id primitive.ObjectID, available bool) error

	// Earnings and rating
	AddEarnings(ctx context.Context, id primitive.ObjectID, amount float64) error
	AddRating(ctx context.Context, id primitive.ObjectID, value float64) (*models.Driver, error)
}

package interfaces

import (
	"context"

	"swiftride/internal/models"
	"swiftride/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)

	// Lifecycle transitions. Each is a conditional update guarded by the
	// expected pre-transition status so concurrent writers cannot race past
	// each other; AcceptPending additionally assigns the driver in the same
	// atomic write.
	AcceptPending(ctx context.Context, id, driverID primitive.ObjectID) (*models.Booking, error)
	UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error)
	CompletePayment(ctx context.Context, id primitive.ObjectID) error

	// Queries
	GetByRider(ctx context.Context, riderID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetPendingNear(ctx context.Context, lat, lng, radiusKm float64) ([]*models.Booking, error)
}

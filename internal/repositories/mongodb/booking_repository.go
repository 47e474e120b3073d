package mongodb

import (
	"context"
	"fmt"
	"time"

	"swiftride/internal/models"
	"swiftride/internal/repositories/interfaces"
	"swiftride/internal/services"
	"swiftride/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewBookingRepository(db *mongo.Database, cache services.CacheService) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	// Cache active bookings for quick access
	if booking.Status == models.BookingStatusPending || booking.Status == models.BookingStatusAccepted {
		r.cacheBooking(ctx, booking)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if booking := r.getBookingFromCache(ctx, id.Hex()); booking != nil {
		return booking, nil
	}

	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if !booking.Status.IsTerminal() {
		r.cacheBooking(ctx, &booking)
	}

	return &booking, nil
}

// AcceptPending assigns the driver and moves the booking to Accepted in a
// single conditional write guarded by "status is still Pending". When many
// drivers race, the storage layer admits exactly one; everyone else sees the
// condition fail and gets ErrBookingUnavailable.
func (r *bookingRepository) AcceptPending(ctx context.Context, id, driverID primitive.ObjectID) (*models.Booking, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.BookingStatusPending,
	}
	update := bson.M{"$set": bson.M{
		"driver_id":  driverID,
		"status":     models.BookingStatusAccepted,
		"updated_at": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		r.invalidateBookingCache(ctx, id.Hex())
		return &booking, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to accept booking: %w", err)
	}

	return nil, r.conflictReason(ctx, id, services.ErrBookingUnavailable)
}

// UpdateStatusIf applies a guarded status transition: the write only lands
// when the current status is one of the expected pre-transition states.
// Cancellation releases the driver assignment in the same write, so only
// Accepted/Ongoing/Completed bookings ever carry one.
func (r *bookingRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}}
	if to == models.BookingStatusCancelled {
		update["$unset"] = bson.M{"driver_id": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		r.invalidateBookingCache(ctx, id.Hex())
		return &booking, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return nil, r.conflictReason(ctx, id, services.ErrInvalidTransition)
}

func (r *bookingRepository) CompletePayment(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":            id,
		"payment_status": models.PaymentStatusPending,
	}
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentStatusCompleted,
		"updated_at":     time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete payment: %w", err)
	}

	if result.MatchedCount == 0 {
		// Either the booking is missing or payment already completed; the
		// latter is an idempotent success.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to check booking existence: %w", err)
		}
		if count == 0 {
			return services.ErrBookingNotFound
		}
		return nil
	}

	r.invalidateBookingCache(ctx, id.Hex())
	return nil
}

// Queries
func (r *bookingRepository) GetByRider(ctx context.Context, riderID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	filter := bson.M{"rider_id": riderID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	for cursor.Next(ctx) {
		var booking models.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, 0, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, total, nil
}

func (r *bookingRepository) GetPendingNear(ctx context.Context, lat, lng, radiusKm float64) ([]*models.Booking, error) {
	radiusMeters := radiusKm * 1000

	filter := bson.M{
		"status": models.BookingStatusPending,
		"pickup_location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": radiusMeters,
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	for cursor.Next(ctx) {
		var booking models.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

// conflictReason maps a failed conditional write to the precise conflict:
// the booking is either missing entirely or in a state the transition
// does not allow.
func (r *bookingRepository) conflictReason(ctx context.Context, id primitive.ObjectID, stateErr error) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check booking existence: %w", err)
	}
	if count == 0 {
		return services.ErrBookingNotFound
	}
	return stateErr
}

// Cache operations
func (r *bookingRepository) cacheBooking(ctx context.Context, booking *models.Booking) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("booking:%s", booking.ID.Hex())
		r.cache.Set(ctx, cacheKey, booking, 15*time.Minute)
	}
}

func (r *bookingRepository) getBookingFromCache(ctx context.Context, bookingID string) *models.Booking {
	if r.cache == nil {
		return nil
	}

	cacheKey := fmt.Sprintf("booking:%s", bookingID)
	var booking models.Booking
	if err := r.cache.Get(ctx, cacheKey, &booking); err != nil {
		return nil
	}

	return &booking
}

func (r *bookingRepository) invalidateBookingCache(ctx context.Context, bookingID string) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("booking:%s", bookingID)
		r.cache.Delete(ctx, cacheKey)
	}
}

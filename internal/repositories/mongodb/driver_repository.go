package mongodb

import (
	"context"
	"fmt"
	"time"

	"swiftride/internal/models"
	"swiftride/internal/repositories/interfaces"
	"swiftride/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type driverRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewDriverRepository(db *mongo.Database, cache services.CacheService) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection("drivers"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt

	_, err := r.collection.InsertOne(ctx, driver)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	if driver := r.getDriverFromCache(ctx, id.Hex()); driver != nil {
		return driver, nil
	}

	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	r.cacheDriver(ctx, &driver)
	return &driver, nil
}

func (r *driverRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to get driver by user: %w", err)
	}

	return &driver, nil
}

func (r *driverRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrDriverNotFound
	}

	r.invalidateDriverCache(ctx, id.Hex())
	return nil
}

// Location operations
func (r *driverRepository) UpdateLocation(ctx context.Context, id primitive.ObjectID, location *models.Location) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"location":             location,
		"last_location_update": now,
		"updated_at":           now,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update driver location: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrDriverNotFound
	}

	r.invalidateDriverCache(ctx, id.Hex())
	return nil
}

// GetNearbyAvailable returns available drivers within radiusKm of the point,
// ordered nearest first by the 2dsphere index.
func (r *driverRepository) GetNearbyAvailable(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*models.Driver, error) {
	radiusMeters := radiusKm * 1000

	filter := bson.M{
		"availability_status": true,
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": radiusMeters,
			},
		},
	}

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	for cursor.Next(ctx) {
		var driver models.Driver
		if err := cursor.Decode(&driver); err != nil {
			return nil, fmt.Errorf("failed to decode driver: %w", err)
		}
		drivers = append(drivers, &driver)
	}

	return drivers, nil
}

// Status operations
func (r *driverRepository) UpdateAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	update := bson.M{"$set": bson.M{
		"availability_status": available,
		"updated_at":          time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update driver availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrDriverNotFound
	}

	r.invalidateDriverCache(ctx, id.Hex())
	return nil
}

// AddEarnings credits amount to the driver's running total.
func (r *driverRepository) AddEarnings(ctx context.Context, id primitive.ObjectID, amount float64) error {
	update := bson.M{
		"$inc": bson.M{"total_earnings": amount},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to add driver earnings: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrDriverNotFound
	}

	r.invalidateDriverCache(ctx, id.Hex())
	return nil
}

// AddRating folds one rating into the running sum/count pair and recomputes
// the average in a single pipeline update, so concurrent ratings never lose
// increments.
func (r *driverRepository) AddRating(ctx context.Context, id primitive.ObjectID, value float64) (*models.Driver, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"rating.rating_sum":    bson.M{"$add": bson.A{"$rating.rating_sum", value}},
			"rating.total_ratings": bson.M{"$add": bson.A{"$rating.total_ratings", 1}},
			"updated_at":           time.Now(),
		}}},
		{{Key: "$set", Value: bson.M{
			"rating.average": bson.M{"$divide": bson.A{"$rating.rating_sum", "$rating.total_ratings"}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var driver models.Driver
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to add driver rating: %w", err)
	}

	r.invalidateDriverCache(ctx, id.Hex())
	return &driver, nil
}

// Cache operations
func (r *driverRepository) cacheDriver(ctx context.Context, driver *models.Driver) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("driver:%s", driver.ID.Hex())
		r.cache.Set(ctx, cacheKey, driver, 10*time.Minute)
	}
}

func (r *driverRepository) getDriverFromCache(ctx context.Context, driverID string) *models.Driver {
	if r.cache == nil {
		return nil
	}

	cacheKey := fmt.Sprintf("driver:%s", driverID)
	var driver models.Driver
	if err := r.cache.Get(ctx, cacheKey, &driver); err != nil {
		return nil
	}

	return &driver
}

func (r *driverRepository) invalidateDriverCache(ctx context.Context, driverID string) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("driver:%s", driverID)
		r.cache.Delete(ctx, cacheKey)
	}
}

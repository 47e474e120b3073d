package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleType string
type DocumentType string

const (
	VehicleTypeCar  VehicleType = "Car"
	VehicleTypeBike VehicleType = "Bike"
	VehicleTypeAuto VehicleType = "Auto"

	DocumentTypeLicense      DocumentType = "License"
	DocumentTypeRegistration DocumentType = "Registration"
	DocumentTypeInsurance    DocumentType = "Insurance"
)

// Driver is the driver-role extension of a User, geo-indexed on location.
type Driver struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	LicenseNumber      string             `json:"license_number" bson:"license_number"`
	VehicleDetails     *VehicleDetails    `json:"vehicle_details,omitempty" bson:"vehicle_details,omitempty"`
	Capacity           int                `json:"capacity" bson:"capacity"`
	AvailabilityStatus bool               `json:"availability_status" bson:"availability_status"`
	TotalEarnings      float64            `json:"total_earnings" bson:"total_earnings"`
	Rating             Rating             `json:"rating" bson:"rating"`
	Document           *DriverDocument    `json:"document,omitempty" bson:"document,omitempty"`
	Location           *Location          `json:"location,omitempty" bson:"location,omitempty"`
	LastLocationUpdate *time.Time         `json:"last_location_update,omitempty" bson:"last_location_update,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

type VehicleDetails struct {
	VehicleType        VehicleType `json:"vehicle_type" bson:"vehicle_type" validate:"required,oneof=Car Bike Auto"`
	Model              string      `json:"model" bson:"model" validate:"required"`
	RegistrationNumber string      `json:"registration_number" bson:"registration_number" validate:"required"`
	Color              string      `json:"color" bson:"color" validate:"required"`
}

type DriverDocument struct {
	Type       DocumentType `json:"type" bson:"type"`
	FileURL    string       `json:"file_url" bson:"file_url"`
	IsVerified bool         `json:"is_verified" bson:"is_verified"`
}

// Rating keeps the running sum/count pair so the average is maintained
// incrementally, never recomputed from ride history.
type Rating struct {
	Average      float64 `json:"average" bson:"average"`
	TotalRatings int64   `json:"total_ratings" bson:"total_ratings"`
	RatingSum    float64 `json:"rating_sum" bson:"rating_sum"`
}

// Add folds one new rating into the aggregate.
func (r *Rating) Add(value float64) {
	r.RatingSum += value
	r.TotalRatings++
	r.Average = r.RatingSum / float64(r.TotalRatings)
}

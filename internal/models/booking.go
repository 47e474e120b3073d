package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusAccepted  BookingStatus = "Accepted"
	BookingStatusOngoing   BookingStatus = "Ongoing"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"

	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
)

// bookingTransitions is the forward-only lifecycle table. Cancelled is
// reachable from Pending and Accepted; nothing leaves a terminal state.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusAccepted, BookingStatusCancelled},
	BookingStatusAccepted: {BookingStatusOngoing, BookingStatusCancelled},
	BookingStatusOngoing:  {BookingStatusCompleted},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type Booking struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RiderID         primitive.ObjectID  `json:"rider_id" bson:"rider_id" validate:"required"`
	DriverID        *primitive.ObjectID `json:"driver_id,omitempty" bson:"driver_id,omitempty"`
	PickupLocation  Location            `json:"pickup_location" bson:"pickup_location" validate:"required"`
	DropLocation    Location            `json:"drop_location" bson:"drop_location" validate:"required"`
	Distance        float64             `json:"distance" bson:"distance"` // kilometers
	Fare            float64             `json:"fare" bson:"fare"`
	ETA             string              `json:"eta" bson:"eta"`
	Status          BookingStatus       `json:"status" bson:"status"`
	PaymentStatus   PaymentStatus       `json:"payment_status" bson:"payment_status"`
	RidePreferences *RidePreferences    `json:"ride_preferences,omitempty" bson:"ride_preferences,omitempty"`
	PaymentMethod   string              `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

type RidePreferences struct {
	CarType    string `json:"car_type,omitempty" bson:"car_type,omitempty"`
	Passengers int    `json:"passengers,omitempty" bson:"passengers,omitempty"`
}

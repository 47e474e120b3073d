package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleRider  UserRole = "rider"
	UserRoleDriver UserRole = "driver"
	UserRoleAdmin  UserRole = "admin"
)

// User is the base account record shared by all roles. Role-specific data
// lives in an extension document (see Driver) joined by user id.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserName     string             `json:"user_name" bson:"user_name" validate:"required,alphanum"`
	FullName     string             `json:"full_name" bson:"full_name" validate:"required"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Phone        string             `json:"phone" bson:"phone" validate:"required"`
	Password     string             `json:"-" bson:"password"`
	Avatar       string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Role         UserRole           `json:"role" bson:"role" validate:"required,oneof=rider driver admin"`
	RefreshToken string             `json:"-" bson:"refresh_token,omitempty"`
	IsActive     bool               `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

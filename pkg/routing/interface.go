package routing

import (
	"context"
	"errors"
)

// ErrNoRoute is returned when the upstream finds no viable route between
// the given points.
var ErrNoRoute = errors.New("no route found between locations")

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route is a raw upstream result: meters and seconds, unconverted.
type Route struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Provider resolves a driving route between two coordinates. Implementations
// must honor ctx cancellation and deadline.
type Provider interface {
	Route(ctx context.Context, origin, destination Coordinate) (*Route, error)
}

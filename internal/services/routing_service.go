package services

import (
	"context"
	"fmt"
	"math"

	"swiftride/internal/models"
	"swiftride/internal/utils"
	"swiftride/pkg/logger"
	"swiftride/pkg/routing"
)

// RouteEstimate is a routing result converted to the units the booking
// flow stores: kilometers and a human-readable ETA.
type RouteEstimate struct {
	DistanceKm float64 `json:"distance_km"`
	ETA        string  `json:"eta"`
}

// RouteEstimator resolves the driving distance and duration between two
// points.
type RouteEstimator interface {
	Estimate(ctx context.Context, pickup, drop models.Location) (*RouteEstimate, error)
}

// RoutingService adapts a routing provider to the booking flow. Every
// provider failure surfaces as ErrRoutingUnavailable; callers treat the
// operation as retryable.
type RoutingService struct {
	provider routing.Provider
	timeout  func(ctx context.Context) (context.Context, context.CancelFunc)
	logger   *logger.Logger
}

func NewRoutingService(provider routing.Provider, log *logger.Logger) *RoutingService {
	return &RoutingService{
		provider: provider,
		timeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, utils.RouteEstimateTimeout)
		},
		logger: log,
	}
}

func (s *RoutingService) Estimate(ctx context.Context, pickup, drop models.Location) (*RouteEstimate, error) {
	if !utils.IsValidCoordinates(pickup.Latitude(), pickup.Longitude()) ||
		!utils.IsValidCoordinates(drop.Latitude(), drop.Longitude()) {
		return nil, ErrInvalidLocation
	}

	ctx, cancel := s.timeout(ctx)
	defer cancel()

	route, err := s.provider.Route(ctx,
		routing.Coordinate{Latitude: pickup.Latitude(), Longitude: pickup.Longitude()},
		routing.Coordinate{Latitude: drop.Latitude(), Longitude: drop.Longitude()},
	)
	if err != nil {
		s.logger.WithError(err).Warn("Route estimation failed")
		return nil, fmt.Errorf("%w: %v", ErrRoutingUnavailable, err)
	}

	return &RouteEstimate{
		DistanceKm: math.Round(route.DistanceMeters/1000*100) / 100,
		ETA:        formatETA(route.DurationSeconds),
	}, nil
}

// formatETA renders a duration in seconds as whole rounded minutes.
func formatETA(seconds float64) string {
	return fmt.Sprintf("%d mins", int(math.Round(seconds/60)))
}

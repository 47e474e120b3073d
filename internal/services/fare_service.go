package services

import (
	"math"

	"swiftride/internal/config"
)

// FareService computes ride fares from trip distance.
//
// fare = base fare + per-km rate * distance, rounded to two decimals.
type FareService struct {
	baseFare  float64
	perKmRate float64
}

func NewFareService(cfg *config.PricingConfig) *FareService {
	return &FareService{
		baseFare:  cfg.BaseFare,
		perKmRate: cfg.PerKmRate,
	}
}

// Calculate returns the fare for a trip of distanceKm kilometers. A zero
// distance trip still pays the base fare.
func (s *FareService) Calculate(distanceKm float64) (float64, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, ErrInvalidDistance
	}

	fare := s.baseFare + s.perKmRate*distanceKm
	return math.Round(fare*100) / 100, nil
}

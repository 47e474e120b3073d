package config

import (
	"time"
)

type RoutingConfig struct {
	Provider   string            `yaml:"provider"`
	Timeout    time.Duration     `yaml:"timeout"`
	OSRM       *OSRMConfig       `yaml:"osrm"`
	GoogleMaps *GoogleMapsConfig `yaml:"google_maps"`
}

type OSRMConfig struct {
	BaseURL string `yaml:"base_url"`
	Profile string `yaml:"profile"`
}

type GoogleMapsConfig struct {
	APIKey string `yaml:"api_key"`
}

// PricingConfig holds the fare formula constants.
type PricingConfig struct {
	BaseFare  float64 `yaml:"base_fare"`
	PerKmRate float64 `yaml:"per_km_rate"`
}

func loadRoutingConfig() *RoutingConfig {
	return &RoutingConfig{
		Provider: getEnv("ROUTING_PROVIDER", "osrm"),
		Timeout:  getEnvAsDuration("ROUTING_TIMEOUT", 10*time.Second),
		OSRM: &OSRMConfig{
			BaseURL: getEnv("OSRM_BASE_URL", "http://router.project-osrm.org"),
			Profile: getEnv("OSRM_PROFILE", "driving"),
		},
		GoogleMaps: &GoogleMapsConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
	}
}

func loadPricingConfig() *PricingConfig {
	return &PricingConfig{
		BaseFare:  getEnvAsFloat64("PRICING_BASE_FARE", 20.0),
		PerKmRate: getEnvAsFloat64("PRICING_PER_KM_RATE", 5.0),
	}
}

package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OSRMProvider queries an OSRM HTTP server's /route endpoint.
type OSRMProvider struct {
	baseURL string
	profile string
	client  *http.Client
}

func NewOSRMProvider(baseURL, profile string, timeout time.Duration) *OSRMProvider {
	if profile == "" {
		profile = "driving"
	}
	return &OSRMProvider{
		baseURL: baseURL,
		profile: profile,
		client:  &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

func (p *OSRMProvider) Route(ctx context.Context, origin, destination Coordinate) (*Route, error) {
	// OSRM route query: /route/v1/{profile}/{lon1},{lat1};{lon2},{lat2}?overview=false
	url := fmt.Sprintf("%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=false",
		p.baseURL, p.profile,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build OSRM request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OSRM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSRM returned status %d", resp.StatusCode)
	}

	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode OSRM response: %w", err)
	}

	if out.Code != "Ok" || len(out.Routes) == 0 {
		return nil, ErrNoRoute
	}

	return &Route{
		DistanceMeters:  out.Routes[0].Distance,
		DurationSeconds: out.Routes[0].Duration,
	}, nil
}

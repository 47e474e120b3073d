package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swiftride/internal/models"
	"swiftride/pkg/routing"
)

func newOSRMService(t *testing.T, handler http.HandlerFunc) (*RoutingService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := routing.NewOSRMProvider(server.URL, "driving", 5*time.Second)
	return NewRoutingService(provider, newTestLogger(t)), server
}

func osrmOK(distanceMeters, durationSeconds float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"code":"Ok","routes":[{"distance":%f,"duration":%f}]}`, distanceMeters, durationSeconds)
	}
}

func TestRoutingEstimateConvertsUnits(t *testing.T) {
	svc, _ := newOSRMService(t, osrmOK(6200, 900))

	pickup := models.NewLocation(77.5946, 12.9716, "")
	drop := models.NewLocation(77.6245, 12.9352, "")

	estimate, err := svc.Estimate(context.Background(), pickup, drop)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if estimate.DistanceKm != 6.2 {
		t.Errorf("DistanceKm = %v, want 6.2", estimate.DistanceKm)
	}
	if estimate.ETA != "15 mins" {
		t.Errorf("ETA = %q, want %q", estimate.ETA, "15 mins")
	}
}

func TestRoutingEstimateShortTripETA(t *testing.T) {
	svc, _ := newOSRMService(t, osrmOK(150, 20))

	pickup := models.NewLocation(77.5946, 12.9716, "")
	drop := models.NewLocation(77.5950, 12.9720, "")

	estimate, err := svc.Estimate(context.Background(), pickup, drop)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if estimate.ETA != "0 mins" {
		t.Errorf("ETA = %q, want %q", estimate.ETA, "0 mins")
	}
	if estimate.DistanceKm != 0.15 {
		t.Errorf("DistanceKm = %v, want 0.15", estimate.DistanceKm)
	}
}

func TestRoutingEstimateRejectsInvalidCoordinates(t *testing.T) {
	called := false
	svc, _ := newOSRMService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	bad := models.NewLocation(200.0, 12.9716, "")
	good := models.NewLocation(77.6245, 12.9352, "")

	if _, err := svc.Estimate(context.Background(), bad, good); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}
	if called {
		t.Errorf("no upstream request should be made for invalid input")
	}
}

func TestRoutingEstimateNoRoute(t *testing.T) {
	svc, _ := newOSRMService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoRoute","routes":[]}`)
	})

	pickup := models.NewLocation(77.5946, 12.9716, "")
	drop := models.NewLocation(77.6245, 12.9352, "")

	if _, err := svc.Estimate(context.Background(), pickup, drop); !errors.Is(err, ErrRoutingUnavailable) {
		t.Fatalf("err = %v, want ErrRoutingUnavailable", err)
	}
}

func TestRoutingEstimateUpstreamError(t *testing.T) {
	svc, _ := newOSRMService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	pickup := models.NewLocation(77.5946, 12.9716, "")
	drop := models.NewLocation(77.6245, 12.9352, "")

	if _, err := svc.Estimate(context.Background(), pickup, drop); !errors.Is(err, ErrRoutingUnavailable) {
		t.Fatalf("err = %v, want ErrRoutingUnavailable", err)
	}
}

func TestRoutingEstimateTimesOut(t *testing.T) {
	svc, _ := newOSRMService(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	svc.timeout = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(ctx, 50*time.Millisecond)
	}

	pickup := models.NewLocation(77.5946, 12.9716, "")
	drop := models.NewLocation(77.6245, 12.9352, "")

	start := time.Now()
	_, err := svc.Estimate(context.Background(), pickup, drop)
	if !errors.Is(err, ErrRoutingUnavailable) {
		t.Fatalf("err = %v, want ErrRoutingUnavailable", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("estimate did not honor the timeout")
	}
}

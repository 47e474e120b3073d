package services

import (
	"context"
	"errors"
	"testing"

	"swiftride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newDriverFixture(t *testing.T) (*DriverService, *fakeDriverRepo) {
	t.Helper()
	driverRepo := newFakeDriverRepo()
	return NewDriverService(driverRepo, fakeStorage{}, newTestLogger(t)), driverRepo
}

func TestRateDriverBounds(t *testing.T) {
	svc, repo := newDriverFixture(t)

	driver := &models.Driver{UserID: primitive.NewObjectID()}
	repo.add(driver)

	for _, bad := range []float64{0, 0.9, 5.1, -1} {
		if _, err := svc.RateDriver(context.Background(), driver.ID, bad); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("RateDriver(%v) err = %v, want ErrInvalidRating", bad, err)
		}
	}

	rated, err := svc.RateDriver(context.Background(), driver.ID, 4)
	if err != nil {
		t.Fatalf("RateDriver failed: %v", err)
	}
	if rated.Rating.TotalRatings != 1 || rated.Rating.Average != 4 {
		t.Errorf("rating = %+v, want one rating averaging 4", rated.Rating)
	}

	rated, err = svc.RateDriver(context.Background(), driver.ID, 5)
	if err != nil {
		t.Fatalf("RateDriver failed: %v", err)
	}
	if rated.Rating.TotalRatings != 2 || rated.Rating.Average != 4.5 {
		t.Errorf("rating = %+v, want average 4.5 over 2 ratings", rated.Rating)
	}
}

func TestUpdateLocationValidation(t *testing.T) {
	svc, repo := newDriverFixture(t)

	driver := &models.Driver{UserID: primitive.NewObjectID()}
	repo.add(driver)

	if err := svc.UpdateLocation(context.Background(), driver.ID, 95.0, 77.59); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}

	if err := svc.UpdateLocation(context.Background(), driver.ID, 12.9716, 77.5946); err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}

	updated, _ := repo.GetByID(context.Background(), driver.ID)
	if updated.Location == nil {
		t.Fatalf("location not recorded")
	}
	if updated.Location.Latitude() != 12.9716 || updated.Location.Longitude() != 77.5946 {
		t.Errorf("location = %+v, want lat 12.9716 lng 77.5946", updated.Location)
	}
}

func TestUploadDocumentResetsVerification(t *testing.T) {
	svc, repo := newDriverFixture(t)

	driver := &models.Driver{
		UserID:   primitive.NewObjectID(),
		Document: &models.DriverDocument{Type: models.DocumentTypeLicense, FileURL: "old", IsVerified: true},
	}
	repo.add(driver)

	updated, err := svc.UploadDocument(context.Background(), driver.ID, models.DocumentTypeLicense, "license.pdf", []byte("pdf"), "application/pdf")
	if err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	if updated.Document == nil || updated.Document.FileURL == "old" {
		t.Fatalf("document not replaced: %+v", updated.Document)
	}
	if updated.Document.IsVerified {
		t.Errorf("fresh upload must not be verified")
	}
}

package models

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusAccepted, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusOngoing, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusAccepted, BookingStatusOngoing, true},
		{BookingStatusAccepted, BookingStatusCancelled, true},
		{BookingStatusAccepted, BookingStatusCompleted, false},
		{BookingStatusAccepted, BookingStatusPending, false},
		{BookingStatusOngoing, BookingStatusCompleted, true},
		{BookingStatusOngoing, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusAccepted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	terminal := map[BookingStatus]bool{
		BookingStatusPending:   false,
		BookingStatusAccepted:  false,
		BookingStatusOngoing:   false,
		BookingStatusCompleted: true,
		BookingStatusCancelled: true,
	}

	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

func TestRatingAdd(t *testing.T) {
	var r Rating

	r.Add(5)
	r.Add(4)
	r.Add(3)

	if r.TotalRatings != 3 {
		t.Errorf("TotalRatings = %d, want 3", r.TotalRatings)
	}
	if r.RatingSum != 12 {
		t.Errorf("RatingSum = %v, want 12", r.RatingSum)
	}
	if r.Average != 4 {
		t.Errorf("Average = %v, want 4", r.Average)
	}
}

func TestLocationAccessors(t *testing.T) {
	loc := NewLocation(77.5946, 12.9716, "MG Road")

	if loc.Type != "Point" {
		t.Errorf("Type = %q, want Point", loc.Type)
	}
	if loc.Longitude() != 77.5946 {
		t.Errorf("Longitude = %v, want 77.5946", loc.Longitude())
	}
	if loc.Latitude() != 12.9716 {
		t.Errorf("Latitude = %v, want 12.9716", loc.Latitude())
	}

	var empty Location
	if empty.Latitude() != 0 || empty.Longitude() != 0 {
		t.Errorf("empty location should read as origin")
	}
}

package services

import (
	"context"
	"sort"

	"swiftride/internal/config"
	"swiftride/internal/models"
	"swiftride/internal/repositories/interfaces"
	"swiftride/internal/utils"
	"swiftride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DispatchService owns the booking lifecycle: it creates bookings from
// rider requests, offers them to nearby drivers, and drives the guarded
// status transitions from acceptance to completion.
type DispatchService struct {
	bookingRepo interfaces.BookingRepository
	driverRepo  interfaces.DriverRepository
	routing     RouteEstimator
	fares       *FareService
	presence    *PresenceService
	config      *config.DispatchConfig
	logger      *logger.Logger
}

func NewDispatchService(
	bookingRepo interfaces.BookingRepository,
	driverRepo interfaces.DriverRepository,
	routing RouteEstimator,
	fares *FareService,
	presence *PresenceService,
	cfg *config.DispatchConfig,
	log *logger.Logger,
) *DispatchService {
	return &DispatchService{
		bookingRepo: bookingRepo,
		driverRepo:  driverRepo,
		routing:     routing,
		fares:       fares,
		presence:    presence,
		config:      cfg,
		logger:      log,
	}
}

type LocationInput struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Address   string  `json:"address,omitempty"`
}

type CreateBookingRequest struct {
	Pickup          LocationInput           `json:"pickup" validate:"required"`
	Drop            LocationInput           `json:"drop" validate:"required"`
	PaymentMethod   string                  `json:"payment_method,omitempty"`
	RidePreferences *models.RidePreferences `json:"ride_preferences,omitempty"`
}

// CreateBooking estimates the route, prices the trip, persists the booking
// in Pending, and offers it to nearby online drivers.
//
// Persistence is the correctness boundary: once the booking is stored it is
// returned to the rider even if the driver search or push delivery fails.
// Routing failures happen before any write, so the rider can simply retry.
func (s *DispatchService) CreateBooking(ctx context.Context, riderID primitive.ObjectID, req *CreateBookingRequest) (*models.Booking, error) {
	if !utils.IsValidCoordinates(req.Pickup.Latitude, req.Pickup.Longitude) ||
		!utils.IsValidCoordinates(req.Drop.Latitude, req.Drop.Longitude) {
		return nil, ErrInvalidLocation
	}

	pickup := models.NewLocation(req.Pickup.Longitude, req.Pickup.Latitude, req.Pickup.Address)
	drop := models.NewLocation(req.Drop.Longitude, req.Drop.Latitude, req.Drop.Address)

	estimate, err := s.routing.Estimate(ctx, pickup, drop)
	if err != nil {
		return nil, err
	}

	fare, err := s.fares.Calculate(estimate.DistanceKm)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		RiderID:         riderID,
		PickupLocation:  pickup,
		DropLocation:    drop,
		Distance:        estimate.DistanceKm,
		Fare:            fare,
		ETA:             estimate.ETA,
		Status:          models.BookingStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		RidePreferences: req.RidePreferences,
		PaymentMethod:   req.PaymentMethod,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "booking_created", map[string]interface{}{
		"rider_id":    riderID.Hex(),
		"distance_km": booking.Distance,
		"fare":        booking.Fare,
	})

	s.offerToNearbyDrivers(ctx, booking)

	return booking, nil
}

// offerToNearbyDrivers pushes the new booking to every online driver within
// the search radius. Best effort: failures are logged and never surface to
// the rider.
func (s *DispatchService) offerToNearbyDrivers(ctx context.Context, booking *models.Booking) {
	drivers, err := s.driverRepo.GetNearbyAvailable(ctx,
		booking.PickupLocation.Latitude(), booking.PickupLocation.Longitude(),
		s.config.SearchRadiusKm, s.config.MaxCandidates)
	if err != nil {
		s.logger.WithBookingID(booking.ID).WithError(err).Warn("Nearby driver search failed")
		return
	}

	sortByDistanceFrom(drivers, booking.PickupLocation)

	notified := 0
	for _, driver := range drivers {
		if s.presence.Notify(driver.UserID.Hex(), utils.EventNewBooking, booking) {
			notified++
		}
	}

	s.logger.WithBookingID(booking.ID).WithFields(map[string]interface{}{
		"candidates": len(drivers),
		"notified":   notified,
	}).Info("Booking offered to nearby drivers")
}

// AcceptBooking claims a pending booking for the driver. The claim is a
// conditional write in storage, so of N concurrent acceptors exactly one
// wins; the rest get ErrBookingUnavailable.
func (s *DispatchService) AcceptBooking(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.AcceptPending(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "booking_accepted", map[string]interface{}{
		"driver_id": driverID.Hex(),
	})

	if err := s.driverRepo.UpdateAvailability(ctx, driverID, false); err != nil {
		s.logger.WithBookingID(booking.ID).WithError(err).Warn("Failed to mark driver busy")
	}

	s.presence.Notify(booking.RiderID.Hex(), utils.EventDriverAssigned, booking)

	return booking, nil
}

// StartRide moves an accepted booking to Ongoing. Only the assigned driver
// may start the ride.
func (s *DispatchService) StartRide(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error) {
	if err := s.verifyAssignedDriver(ctx, bookingID, driverID); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusAccepted}, models.BookingStatusOngoing)
	if err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "ride_started", nil)
	s.presence.Notify(booking.RiderID.Hex(), utils.EventRideStarted, booking)

	return booking, nil
}

// CompleteRide finishes an ongoing booking: status goes to Completed, the
// payment is settled, and the driver is credited and made available again.
func (s *DispatchService) CompleteRide(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.Booking, error) {
	if err := s.verifyAssignedDriver(ctx, bookingID, driverID); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusOngoing}, models.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.CompletePayment(ctx, bookingID); err != nil {
		s.logger.WithBookingID(bookingID).WithError(err).Error("Failed to settle payment")
	} else {
		booking.PaymentStatus = models.PaymentStatusCompleted
	}

	if err := s.driverRepo.AddEarnings(ctx, driverID, booking.Fare); err != nil {
		s.logger.WithBookingID(bookingID).WithError(err).Error("Failed to credit driver earnings")
	}
	if err := s.driverRepo.UpdateAvailability(ctx, driverID, true); err != nil {
		s.logger.WithBookingID(bookingID).WithError(err).Warn("Failed to mark driver available")
	}

	s.logger.LogBookingEvent(booking.ID, "ride_completed", map[string]interface{}{
		"fare": booking.Fare,
	})
	s.presence.Notify(booking.RiderID.Hex(), utils.EventRideCompleted, booking)

	return booking, nil
}

// CancelBooking cancels the rider's own booking while it is still Pending or
// Accepted. An assigned driver is released and told about the cancellation.
func (s *DispatchService) CancelBooking(ctx context.Context, bookingID, riderID primitive.ObjectID) (*models.Booking, error) {
	existing, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing.RiderID != riderID {
		return nil, ErrBookingNotFound
	}

	booking, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted},
		models.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "booking_cancelled", nil)

	// The cancel write clears the assignment, so the pre-cancel read is the
	// source for which driver to release and tell.
	if existing.DriverID != nil {
		if err := s.driverRepo.UpdateAvailability(ctx, *existing.DriverID, true); err != nil {
			s.logger.WithBookingID(bookingID).WithError(err).Warn("Failed to release driver")
		}
		if driver, err := s.driverRepo.GetByID(ctx, *existing.DriverID); err == nil {
			s.presence.Notify(driver.UserID.Hex(), utils.EventBookingCancelled, booking)
		}
	}

	return booking, nil
}

func (s *DispatchService) GetBooking(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}

func (s *DispatchService) GetRiderBookings(ctx context.Context, riderID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByRider(ctx, riderID, params)
}

// GetNearbyDrivers returns available drivers within radiusKm of the point,
// nearest first.
func (s *DispatchService) GetNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]*models.Driver, error) {
	if !utils.IsValidCoordinates(lat, lng) {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 || radiusKm > utils.MaxSearchRadiusKm {
		return nil, ErrInvalidRadius
	}

	drivers, err := s.driverRepo.GetNearbyAvailable(ctx, lat, lng, radiusKm, s.config.MaxCandidates)
	if err != nil {
		return nil, err
	}

	sortByDistanceFrom(drivers, models.NewLocation(lng, lat, ""))
	return drivers, nil
}

// GetPendingBookingsNear lists open bookings around a driver's position.
func (s *DispatchService) GetPendingBookingsNear(ctx context.Context, lat, lng, radiusKm float64) ([]*models.Booking, error) {
	if !utils.IsValidCoordinates(lat, lng) {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 || radiusKm > utils.MaxSearchRadiusKm {
		return nil, ErrInvalidRadius
	}

	return s.bookingRepo.GetPendingNear(ctx, lat, lng, radiusKm)
}

// verifyAssignedDriver confirms the booking exists and driverID is the
// driver it was claimed by.
func (s *DispatchService) verifyAssignedDriver(ctx context.Context, bookingID, driverID primitive.ObjectID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.DriverID == nil || *booking.DriverID != driverID {
		return ErrBookingUnavailable
	}
	return nil
}

// sortByDistanceFrom orders drivers nearest first from the reference point.
// Equal distances fall back to driver id so the ordering is deterministic
// regardless of what the index returned.
func sortByDistanceFrom(drivers []*models.Driver, from models.Location) {
	distance := func(d *models.Driver) float64 {
		if d.Location == nil {
			return utils.MaxSearchRadiusKm + 1
		}
		return utils.HaversineKm(from.Latitude(), from.Longitude(),
			d.Location.Latitude(), d.Location.Longitude())
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		di, dj := distance(drivers[i]), distance(drivers[j])
		if di != dj {
			return di < dj
		}
		return drivers[i].ID.Hex() < drivers[j].ID.Hex()
	})
}

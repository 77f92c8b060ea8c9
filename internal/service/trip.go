package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fleet/internal/domain"
	internalRedis "fleet/internal/redis"
	"fleet/internal/repository"
)

// TripService handles the trip lifecycle and keeps truck and trailer
// availability in step with it.
type TripService struct {
	tx                  repository.Transactor
	repos               repository.Repositories
	lockStore           internalRedis.LockStoreInterface
	truckCache          internalRedis.TruckCacheInterface
	notificationService *NotificationService
	now                 func() time.Time
}

// NewTripService creates a new TripService.
func NewTripService(
	tx repository.Transactor,
	repos repository.Repositories,
	lockStore internalRedis.LockStoreInterface,
	truckCache internalRedis.TruckCacheInterface,
	notificationService *NotificationService,
) *TripService {
	return &TripService{
		tx:                  tx,
		repos:               repos,
		lockStore:           lockStore,
		truckCache:          truckCache,
		notificationService: notificationService,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// CreateTripRequest contains the parameters for planning a trip.
type CreateTripRequest struct {
	DriverID    string
	TruckID     string
	TrailerID   string
	Origin      string
	Destination string
	StartDate   time.Time
	Notes       string

	// Status may be IN_PROGRESS for a trip that is already under way; empty means PLANNED.
	Status domain.TripStatus
}

// TripOutcome is the result of a lifecycle call. Alerts are only set when a
// trip is finished.
type TripOutcome struct {
	Trip   *domain.Trip
	Alerts []domain.MaintenanceAlert
}

// CreateTrip reserves the truck and trailer and persists a new trip.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	now := s.now()

	trip := &domain.Trip{
		ID:          uuid.New().String(),
		DriverID:    req.DriverID,
		TruckID:     req.TruckID,
		TrailerID:   req.TrailerID,
		Status:      req.Status,
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if trip.Status == "" {
		trip.Status = domain.TripStatusPlanned
	}
	if trip.StartDate.IsZero() {
		trip.StartDate = now
	}

	if trip.Status != domain.TripStatusPlanned && trip.Status != domain.TripStatusInProgress {
		return nil, domain.NewValidationError("status", "must be PLANNED or IN_PROGRESS on creation")
	}
	if err := domain.ValidateTrip(trip); err != nil {
		return nil, err
	}

	driver, err := s.repos.Users.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, notFoundAs(err, ErrDriverNotFound)
	}
	if driver.IsDeleted {
		return nil, ErrDriverNotFound
	}
	if driver.Role != domain.RoleDriver {
		return nil, ErrUserNotDriver
	}

	// Locks are taken in a fixed order: truck, then trailer.
	release, err := s.lockAssets(ctx, req.TruckID, req.TrailerID)
	if err != nil {
		return nil, err
	}
	defer release()

	truckStatus, trailerStatus := domain.TruckStatusOnMission, domain.TrailerStatusOnMission
	if trip.Status == domain.TripStatusInProgress {
		truckStatus, trailerStatus = domain.TruckStatusOnTrip, domain.TrailerStatusOnTrip
	}

	var truck *domain.Truck
	var trailer *domain.Trailer

	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		truck, err = repos.Trucks.GetByID(ctx, req.TruckID)
		if err != nil {
			return notFoundAs(err, ErrTruckNotFound)
		}
		if truck.Status != domain.TruckStatusAvailable {
			return ErrTruckUnavailable
		}

		if req.TrailerID != "" {
			trailer, err = repos.Trailers.GetByID(ctx, req.TrailerID)
			if err != nil {
				return notFoundAs(err, ErrTrailerNotFound)
			}
			if trailer.Status != domain.TrailerStatusAvailable {
				return ErrTrailerUnavailable
			}
		}

		trip.StartOdometer = truck.CurrentOdometer
		if err := repos.Trips.Create(ctx, trip); err != nil {
			return err
		}

		if err := repos.Trucks.UpdateStatus(ctx, truck.ID, truckStatus); err != nil {
			return err
		}
		if trailer != nil {
			if err := repos.Trailers.UpdateStatus(ctx, trailer.ID, trailerStatus); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	truck.Status = truckStatus
	trip.Driver = driver.Summary()
	trip.Truck = truck.Summary()
	if trailer != nil {
		trailer.Status = trailerStatus
		trip.Trailer = trailer.Summary()
	}

	s.invalidateTruck(ctx, trip.TruckID)

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"trip_id":  trip.ID,
		"truck_id": trip.TruckID,
		"driver":   trip.DriverID,
	}).Info("trip created")

	s.notificationService.NotifyTripCreated(ctx, trip)
	if trip.Status == domain.TripStatusInProgress {
		s.notificationService.NotifyTripStarted(ctx, trip)
	}

	return trip, nil
}

// lockAssets takes the Redis locks of the truck and, when given, the trailer.
// The returned func releases whatever was acquired.
func (s *TripService) lockAssets(ctx context.Context, truckID, trailerID string) (func(), error) {
	var held [][2]string
	release := func() {
		for _, lock := range held {
			if err := s.lockStore.ReleaseAssetLock(context.WithoutCancel(ctx), lock[0], lock[1]); err != nil {
				logrus.WithError(err).WithField("asset", lock[1]).Warn("failed to release asset lock")
			}
		}
	}

	acquire := func(kind, id string, unavailable *Error) error {
		ok, err := s.lockStore.AcquireAssetLock(ctx, kind, id, internalRedis.AssetLockTTL)
		if err != nil {
			logrus.WithError(err).WithField("asset", id).Error("failed to acquire asset lock")
			return unavailable
		}
		if !ok {
			return unavailable
		}
		held = append(held, [2]string{kind, id})
		return nil
	}

	if err := acquire(internalRedis.AssetTruck, truckID, ErrTruckUnavailable); err != nil {
		return nil, err
	}
	if trailerID != "" {
		if err := acquire(internalRedis.AssetTrailer, trailerID, ErrTrailerUnavailable); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}

// UpdateStatusRequest carries a requested status change. EndOdometer and
// RemainingFuel are only read when moving to DONE.
type UpdateStatusRequest struct {
	Status        domain.TripStatus
	EndOdometer   *float64
	RemainingFuel *float64
}

// UpdateTripStatus moves a trip along its lifecycle. driverID restricts the
// call to the trip's own driver; an empty driverID skips the check.
func (s *TripService) UpdateTripStatus(ctx context.Context, id, driverID string, req UpdateStatusRequest) (*TripOutcome, error) {
	if req.Status == domain.TripStatusDone {
		return s.FinalizeTrip(ctx, id, driverID, FinalizeTripRequest{
			EndOdometer:   req.EndOdometer,
			RemainingFuel: req.RemainingFuel,
		})
	}

	trip, err := s.getOwnedTrip(ctx, id, driverID)
	if err != nil {
		return nil, err
	}
	if !trip.Status.CanTransition(req.Status) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	trip.Status = req.Status

	switch req.Status {
	case domain.TripStatusInProgress:
		trip.StartDate = now
		err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
			if err := repos.Trips.Update(ctx, trip); err != nil {
				return err
			}
			if err := repos.Trucks.UpdateStatus(ctx, trip.TruckID, domain.TruckStatusOnTrip); err != nil {
				return notFoundAs(err, ErrTruckNotFound)
			}
			if trip.TrailerID != "" {
				if err := repos.Trailers.UpdateStatus(ctx, trip.TrailerID, domain.TrailerStatusOnTrip); err != nil {
					return notFoundAs(err, ErrTrailerNotFound)
				}
			}
			return nil
		})
	case domain.TripStatusCancelled:
		trip.EndDate = now
		err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
			if err := repos.Trips.Update(ctx, trip); err != nil {
				return err
			}
			return releaseAssets(ctx, repos, trip)
		})
	default:
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}

	s.invalidateTruck(ctx, trip.TruckID)

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"status":  trip.Status,
	}).Info("trip status updated")

	if trip.Status == domain.TripStatusInProgress {
		s.notificationService.NotifyTripStarted(ctx, trip)
	} else {
		s.notificationService.NotifyTripCancelled(ctx, trip)
	}

	return &TripOutcome{Trip: trip}, nil
}

// FinalizeTripRequest contains the readings taken when a trip ends.
type FinalizeTripRequest struct {
	EndOdometer   *float64
	RemainingFuel *float64
}

// FinalizeTrip closes an in-progress trip, moves the truck odometer forward,
// releases the assets and evaluates maintenance alerts for the truck.
func (s *TripService) FinalizeTrip(ctx context.Context, id, driverID string, req FinalizeTripRequest) (*TripOutcome, error) {
	trip, err := s.getOwnedTrip(ctx, id, driverID)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripStatusInProgress {
		return nil, ErrInvalidTransition
	}

	trip.Status = domain.TripStatusDone
	trip.EndOdometer = req.EndOdometer
	trip.RemainingFuel = req.RemainingFuel
	trip.EndDate = s.now()
	if trip.EndDate.Before(trip.StartDate) {
		trip.EndDate = trip.StartDate
	}

	if err := domain.ValidateTrip(trip); err != nil {
		return nil, err
	}

	var truck *domain.Truck
	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Trips.Update(ctx, trip); err != nil {
			return err
		}

		truck, err = repos.Trucks.GetByID(ctx, trip.TruckID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			truck = nil
		case err != nil:
			return err
		default:
			truck.CurrentOdometer = *trip.EndOdometer
			truck.Status = domain.TruckStatusAvailable
			if err := repos.Trucks.Update(ctx, truck); err != nil {
				return err
			}
		}

		if trip.TrailerID != "" {
			if err := repos.Trailers.UpdateStatus(ctx, trip.TrailerID, domain.TrailerStatusAvailable); err != nil &&
				!errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := &TripOutcome{Trip: trip, Alerts: []domain.MaintenanceAlert{}}
	if truck != nil {
		outcome.Alerts = s.refreshAlerts(ctx, truck)
	}

	s.invalidateTruck(ctx, trip.TruckID)

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"trip_id":  trip.ID,
		"distance": trip.Distance(),
		"alerts":   len(outcome.Alerts),
	}).Info("trip finalized")

	s.notificationService.NotifyTripFinished(ctx, trip)
	if truck != nil {
		s.notificationService.NotifyMaintenanceAlerts(ctx, truck, outcome.Alerts)
	}

	return outcome, nil
}

// refreshAlerts recomputes and stores the alerts of a truck. Failures are
// logged and yield whatever could be computed.
func (s *TripService) refreshAlerts(ctx context.Context, truck *domain.Truck) []domain.MaintenanceAlert {
	log := logrus.WithContext(ctx).WithField("truck_id", truck.ID)

	lastService, err := s.repos.Maintenances.LastDoneOdometers(ctx, truck.ID)
	if err != nil {
		log.WithError(err).Warn("failed to load maintenance history")
		return []domain.MaintenanceAlert{}
	}

	planned, err := s.repos.Maintenances.GetAll(ctx, repository.MaintenanceFilter{
		Status:  string(domain.MaintenanceStatusPlanned),
		TruckID: truck.ID,
	})
	if err != nil {
		log.WithError(err).Warn("failed to load planned maintenances")
	}

	alerts := EvaluateAlerts(truck, lastService, planned)
	truck.MaintenanceAlerts = alerts
	if err := s.repos.Trucks.Update(ctx, truck); err != nil {
		log.WithError(err).Warn("failed to store maintenance alerts")
	}
	return alerts
}

// DeleteTrip removes a trip with its fuel logs and frees the assets it was holding.
func (s *TripService) DeleteTrip(ctx context.Context, id string) (*domain.Trip, error) {
	var trip *domain.Trip
	var removedLogs int64

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		trip, err = repos.Trips.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTripNotFound)
		}

		removedLogs, err = repos.FuelLogs.DeleteByTripID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Trips.Delete(ctx, id); err != nil {
			return notFoundAs(err, ErrTripNotFound)
		}

		if trip.Status.HoldsAssets() {
			return releaseAssets(ctx, repos, trip)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTruck(ctx, trip.TruckID)

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"trip_id":   trip.ID,
		"status":    trip.Status,
		"fuel_logs": removedLogs,
	}).Info("trip deleted")

	s.notificationService.NotifyTripDeleted(ctx, trip)
	return trip, nil
}

// UpdateTripRequest is an admin patch of the descriptive fields of a trip.
// Nil fields are left unchanged.
type UpdateTripRequest struct {
	Origin      *string
	Destination *string
	StartDate   *time.Time
	EndDate     *time.Time
	Notes       *string
}

// UpdateTrip applies a patch. Status changes go through UpdateTripStatus.
func (s *TripService) UpdateTrip(ctx context.Context, id string, req UpdateTripRequest) (*domain.Trip, error) {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Origin != nil {
		trip.Origin = *req.Origin
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.StartDate != nil {
		trip.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = *req.EndDate
	}
	if req.Notes != nil {
		trip.Notes = *req.Notes
	}

	if err := domain.ValidateTrip(trip); err != nil {
		return nil, err
	}
	if err := s.repos.Trips.Update(ctx, trip); err != nil {
		return nil, notFoundAs(err, ErrTripNotFound)
	}
	return trip, nil
}

// GetByID retrieves a trip with its driver, truck and trailer summaries.
func (s *TripService) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := s.repos.Trips.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTripNotFound)
	}
	return trip, nil
}

// GetAll lists trips matching the filter.
func (s *TripService) GetAll(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	return s.repos.Trips.GetAll(ctx, filter)
}

// GetByDriver lists the trips of one driver.
func (s *TripService) GetByDriver(ctx context.Context, driverID string, filter repository.TripFilter) ([]*domain.Trip, error) {
	filter.DriverID = driverID
	return s.repos.Trips.GetAll(ctx, filter)
}

// GetInProgress lists the trips currently under way.
func (s *TripService) GetInProgress(ctx context.Context) ([]*domain.Trip, error) {
	return s.repos.Trips.GetAll(ctx, repository.TripFilter{Status: string(domain.TripStatusInProgress)})
}

// TripSheet renders the printable sheet of a trip.
func (s *TripService) TripSheet(ctx context.Context, id, driverID string) (string, error) {
	trip, err := s.getOwnedTrip(ctx, id, driverID)
	if err != nil {
		return "", err
	}

	logs, err := s.repos.FuelLogs.GetByTripID(ctx, trip.ID)
	if err != nil {
		return "", err
	}

	return FormatTripSheet(trip, logs, s.now()), nil
}

func (s *TripService) getOwnedTrip(ctx context.Context, id, driverID string) (*domain.Trip, error) {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if driverID != "" && trip.DriverID != driverID {
		return nil, ErrTripNotAssignedToDriver
	}
	return trip, nil
}

func (s *TripService) invalidateTruck(ctx context.Context, truckID string) {
	if s.truckCache == nil {
		return
	}
	if err := s.truckCache.InvalidateTrucks(ctx, truckID); err != nil {
		logrus.WithError(err).WithField("truck_id", truckID).Warn("failed to invalidate truck cache")
	}
}

// releaseAssets puts the truck and trailer of a trip back to AVAILABLE.
// Assets deleted in the meantime are skipped.
func releaseAssets(ctx context.Context, repos repository.Repositories, trip *domain.Trip) error {
	if err := repos.Trucks.UpdateStatus(ctx, trip.TruckID, domain.TruckStatusAvailable); err != nil &&
		!errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if trip.TrailerID == "" {
		return nil
	}
	if err := repos.Trailers.UpdateStatus(ctx, trip.TrailerID, domain.TrailerStatusAvailable); err != nil &&
		!errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

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

// TruckService handles truck operations.
type TruckService struct {
	truckRepo  repository.TruckRepository
	truckCache internalRedis.TruckCacheInterface
}

// NewTruckService creates a new TruckService. truckCache may be nil.
func NewTruckService(truckRepo repository.TruckRepository, truckCache internalRedis.TruckCacheInterface) *TruckService {
	return &TruckService{
		truckRepo:  truckRepo,
		truckCache: truckCache,
	}
}

// TruckInput carries the writable fields of a truck. Nil fields are left
// unchanged on update.
type TruckInput struct {
	Plate           *string
	Make            *string
	Model           *string
	TankCapacity    *float64
	CurrentOdometer *float64
	Status          *domain.TruckStatus
}

// Create registers a new truck. New trucks start AVAILABLE unless a status is given.
func (s *TruckService) Create(ctx context.Context, in TruckInput) (*domain.Truck, error) {
	now := time.Now().UTC()
	truck := &domain.Truck{
		ID:                uuid.New().String(),
		Status:            domain.TruckStatusAvailable,
		MaintenanceAlerts: []domain.MaintenanceAlert{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	in.apply(truck)

	if err := domain.ValidateTruck(truck); err != nil {
		return nil, err
	}
	if err := s.truckRepo.Create(ctx, truck); err != nil {
		return nil, plateConflict(err)
	}

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"truck_id": truck.ID,
		"plate":    truck.Plate,
	}).Info("truck created")

	return truck, nil
}

// GetByID retrieves a truck, reading through the cache.
func (s *TruckService) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	if s.truckCache != nil {
		cached, err := s.truckCache.GetTruck(ctx, id)
		if err != nil {
			logrus.WithError(err).WithField("truck_id", id).Warn("truck cache read failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	truck, err := s.truckRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTruckNotFound)
	}

	if s.truckCache != nil {
		_ = s.truckCache.SetTruck(ctx, truck)
	}
	return truck, nil
}

// GetAll lists trucks, optionally restricted to one status, and warms the cache.
func (s *TruckService) GetAll(ctx context.Context, status domain.TruckStatus) ([]*domain.Truck, error) {
	trucks, err := s.truckRepo.GetAll(ctx, status)
	if err != nil {
		return nil, err
	}

	if s.truckCache != nil && len(trucks) > 0 {
		if err := s.truckCache.SetTrucksBatch(ctx, trucks); err != nil {
			logrus.WithError(err).Warn("truck cache batch write failed")
		}
	}
	return trucks, nil
}

// GetAvailable lists the trucks that can be assigned to a new trip.
func (s *TruckService) GetAvailable(ctx context.Context) ([]*domain.Truck, error) {
	return s.GetAll(ctx, domain.TruckStatusAvailable)
}

// Update applies a partial update to a truck.
func (s *TruckService) Update(ctx context.Context, id string, in TruckInput) (*domain.Truck, error) {
	truck, err := s.truckRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTruckNotFound)
	}

	in.apply(truck)
	truck.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateTruck(truck); err != nil {
		return nil, err
	}
	if err := s.truckRepo.Update(ctx, truck); err != nil {
		return nil, plateConflict(notFoundAs(err, ErrTruckNotFound))
	}

	s.invalidate(ctx, id)
	return truck, nil
}

func (s *TruckService) invalidate(ctx context.Context, id string) {
	if s.truckCache == nil {
		return
	}
	if err := s.truckCache.InvalidateTrucks(ctx, id); err != nil {
		logrus.WithError(err).WithField("truck_id", id).Warn("failed to invalidate truck cache")
	}
}

func (in TruckInput) apply(t *domain.Truck) {
	if in.Plate != nil {
		t.Plate = *in.Plate
	}
	if in.Make != nil {
		t.Make = *in.Make
	}
	if in.Model != nil {
		t.Model = *in.Model
	}
	if in.TankCapacity != nil {
		t.TankCapacity = *in.TankCapacity
	}
	if in.CurrentOdometer != nil {
		t.CurrentOdometer = *in.CurrentOdometer
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
}

// plateConflict maps a unique plate violation to ErrPlateTaken.
func plateConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrPlateTaken
	}
	return err
}

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

// MaintenanceService handles the maintenance workflow and its cost statistics.
type MaintenanceService struct {
	tx                  repository.Transactor
	repos               repository.Repositories
	stats               repository.MaintenanceStatsRepository
	truckCache          internalRedis.TruckCacheInterface
	notificationService *NotificationService
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(
	tx repository.Transactor,
	repos repository.Repositories,
	stats repository.MaintenanceStatsRepository,
	truckCache internalRedis.TruckCacheInterface,
	notificationService *NotificationService,
) *MaintenanceService {
	return &MaintenanceService{
		tx:                  tx,
		repos:               repos,
		stats:               stats,
		truckCache:          truckCache,
		notificationService: notificationService,
	}
}

// MaintenanceInput carries the writable fields of a maintenance.
// Nil fields are left unchanged on update.
type MaintenanceInput struct {
	Type                   *domain.MaintenanceType
	Description            *string
	Cost                   *float64
	Date                   *time.Time
	TruckID                *string
	TireID                 *string
	ReplacedParts          []string
	OdometerAtIntervention *float64
	NextDueOdometer        *float64
}

func (in MaintenanceInput) apply(m *domain.Maintenance) {
	if in.Type != nil {
		m.Type = *in.Type
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Cost != nil {
		m.Cost = *in.Cost
	}
	if in.Date != nil {
		m.Date = *in.Date
	}
	if in.TruckID != nil {
		m.TruckID = *in.TruckID
	}
	if in.TireID != nil {
		m.TireID = *in.TireID
	}
	if in.ReplacedParts != nil {
		m.ReplacedParts = in.ReplacedParts
	}
	if in.OdometerAtIntervention != nil {
		m.OdometerAtIntervention = in.OdometerAtIntervention
	}
	if in.NextDueOdometer != nil {
		m.NextDueOdometer = in.NextDueOdometer
	}
}

// Create plans a new maintenance.
func (s *MaintenanceService) Create(ctx context.Context, in MaintenanceInput) (*domain.Maintenance, error) {
	now := time.Now().UTC()
	m := &domain.Maintenance{
		ID:            uuid.New().String(),
		Status:        domain.MaintenanceStatusPlanned,
		Date:          now,
		ReplacedParts: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	in.apply(m)

	if err := s.check(ctx, m); err != nil {
		return nil, err
	}
	if err := s.repos.Maintenances.Create(ctx, m); err != nil {
		return nil, err
	}

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"maintenance_id": m.ID,
		"type":           m.Type,
		"truck_id":       m.TruckID,
	}).Info("maintenance planned")

	return m, nil
}

// Update applies a partial update. The status is only changed by the workflow calls.
func (s *MaintenanceService) Update(ctx context.Context, id string, in MaintenanceInput) (*domain.Maintenance, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	truckID, tireID := m.TruckID, m.TireID
	in.apply(m)
	m.UpdatedAt = time.Now().UTC()

	if m.Status != domain.MaintenanceStatusPlanned && (m.TruckID != truckID || m.TireID != tireID) {
		return nil, ErrMaintenanceStarted
	}

	if err := s.check(ctx, m); err != nil {
		return nil, err
	}
	if err := s.repos.Maintenances.Update(ctx, m); err != nil {
		return nil, notFoundAs(err, ErrMaintenanceNotFound)
	}
	return m, nil
}

// check validates a maintenance and resolves its references. A maintenance
// on a tire alone is attached to the tire's truck.
func (s *MaintenanceService) check(ctx context.Context, m *domain.Maintenance) error {
	if err := domain.ValidateMaintenance(m); err != nil {
		return err
	}

	if m.TireID != "" {
		tire, err := s.repos.Tires.GetByID(ctx, m.TireID)
		if err != nil {
			return notFoundAs(err, ErrTireNotFound)
		}
		if m.TruckID == "" {
			m.TruckID = tire.TruckID
		}
		if m.TruckID != tire.TruckID {
			return ErrTireNotOnTruck
		}
	}
	if m.TruckID != "" {
		if _, err := s.repos.Trucks.GetByID(ctx, m.TruckID); err != nil {
			return notFoundAs(err, ErrTruckNotFound)
		}
	}
	return nil
}

// GetByID retrieves a maintenance.
func (s *MaintenanceService) GetByID(ctx context.Context, id string) (*domain.Maintenance, error) {
	m, err := s.repos.Maintenances.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrMaintenanceNotFound)
	}
	return m, nil
}

// GetAll lists maintenances matching the filter.
func (s *MaintenanceService) GetAll(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.Maintenance, error) {
	return s.repos.Maintenances.GetAll(ctx, filter)
}

// GetPlanned lists the maintenances not started yet.
func (s *MaintenanceService) GetPlanned(ctx context.Context) ([]*domain.Maintenance, error) {
	return s.repos.Maintenances.GetAll(ctx, repository.MaintenanceFilter{
		Status: string(domain.MaintenanceStatusPlanned),
	})
}

// Delete removes a maintenance. Deleting one in progress releases its truck
// as Cancel does.
func (s *MaintenanceService) Delete(ctx context.Context, id string) (*domain.Maintenance, error) {
	var m *domain.Maintenance

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		m, err = repos.Maintenances.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrMaintenanceNotFound)
		}
		if err := repos.Maintenances.Delete(ctx, id); err != nil {
			return notFoundAs(err, ErrMaintenanceNotFound)
		}

		if m.Status != domain.MaintenanceStatusInProgress || m.TruckID == "" {
			return nil
		}
		truck, err := repos.Trucks.GetByID(ctx, m.TruckID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil
		case err != nil:
			return err
		}
		return s.releaseTruck(ctx, repos, truck, m)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTruck(ctx, m.TruckID)
	return m, nil
}

// Start moves a planned maintenance to IN_PROGRESS and takes its truck out of service.
func (s *MaintenanceService) Start(ctx context.Context, id string) (*domain.Maintenance, error) {
	var m *domain.Maintenance

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		m, err = repos.Maintenances.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrMaintenanceNotFound)
		}
		if m.Status != domain.MaintenanceStatusPlanned {
			return ErrInvalidTransition
		}

		if m.TruckID != "" {
			truck, err := repos.Trucks.GetByID(ctx, m.TruckID)
			if err != nil {
				return notFoundAs(err, ErrTruckNotFound)
			}
			if truck.IsBusy() {
				return ErrTruckBusy
			}
			if err := repos.Trucks.UpdateStatus(ctx, truck.ID, domain.TruckStatusMaintenance); err != nil {
				return err
			}
			if m.OdometerAtIntervention == nil {
				odometer := truck.CurrentOdometer
				m.OdometerAtIntervention = &odometer
			}
		}

		m.Status = domain.MaintenanceStatusInProgress
		m.UpdatedAt = time.Now().UTC()
		return repos.Maintenances.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTruck(ctx, m.TruckID)
	s.notificationService.NotifyMaintenanceStarted(ctx, m)
	return m, nil
}

// Finish completes an in-progress maintenance. The truck goes back to
// AVAILABLE once no other maintenance on it is in progress, and alerts of the
// same type are cleared.
func (s *MaintenanceService) Finish(ctx context.Context, id string) (*domain.Maintenance, error) {
	var m *domain.Maintenance

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		m, err = repos.Maintenances.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrMaintenanceNotFound)
		}
		if m.Status != domain.MaintenanceStatusInProgress {
			return ErrInvalidTransition
		}

		m.Status = domain.MaintenanceStatusDone
		m.UpdatedAt = time.Now().UTC()

		if m.TruckID != "" {
			truck, err := repos.Trucks.GetByID(ctx, m.TruckID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return err
			default:
				if m.OdometerAtIntervention == nil {
					odometer := truck.CurrentOdometer
					m.OdometerAtIntervention = &odometer
				}
				if err := s.releaseTruck(ctx, repos, truck, m); err != nil {
					return err
				}
			}
		}

		return repos.Maintenances.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTruck(ctx, m.TruckID)

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"maintenance_id": m.ID,
		"type":           m.Type,
		"truck_id":       m.TruckID,
	}).Info("maintenance finished")

	s.notificationService.NotifyMaintenanceFinished(ctx, m)
	return m, nil
}

// releaseTruck drops the alerts of m's type and, when no other maintenance of
// the truck is still in progress, puts a truck held in MAINTENANCE back to AVAILABLE.
func (s *MaintenanceService) releaseTruck(ctx context.Context, repos repository.Repositories, truck *domain.Truck, m *domain.Maintenance) error {
	active, err := repos.Maintenances.GetAll(ctx, repository.MaintenanceFilter{
		Status:  string(domain.MaintenanceStatusInProgress),
		TruckID: truck.ID,
	})
	if err != nil {
		return err
	}

	others := 0
	for _, a := range active {
		if a.ID != m.ID {
			others++
		}
	}

	if m.Status == domain.MaintenanceStatusDone {
		truck.MaintenanceAlerts = dropAlerts(truck.MaintenanceAlerts, m.Type)
	}
	if truck.Status == domain.TruckStatusMaintenance && others == 0 {
		truck.Status = domain.TruckStatusAvailable
	}
	truck.UpdatedAt = time.Now().UTC()
	return repos.Trucks.Update(ctx, truck)
}

// Cancel abandons a planned or in-progress maintenance.
func (s *MaintenanceService) Cancel(ctx context.Context, id string) (*domain.Maintenance, error) {
	var m *domain.Maintenance

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		m, err = repos.Maintenances.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrMaintenanceNotFound)
		}

		wasActive := m.Status == domain.MaintenanceStatusInProgress
		if m.Status != domain.MaintenanceStatusPlanned && !wasActive {
			return ErrInvalidTransition
		}

		m.Status = domain.MaintenanceStatusCancelled
		m.UpdatedAt = time.Now().UTC()

		if wasActive && m.TruckID != "" {
			truck, err := repos.Trucks.GetByID(ctx, m.TruckID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return err
			default:
				if err := s.releaseTruck(ctx, repos, truck, m); err != nil {
					return err
				}
			}
		}

		return repos.Maintenances.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTruck(ctx, m.TruckID)
	return m, nil
}

// StatsByType aggregates maintenance cost per type over the range.
func (s *MaintenanceService) StatsByType(ctx context.Context, r repository.DateRange) ([]repository.MaintenanceTypeStats, error) {
	return s.stats.StatsByType(ctx, r)
}

// CostByTruck aggregates the maintenance cost of one truck over the range.
func (s *MaintenanceService) CostByTruck(ctx context.Context, truckID string, r repository.DateRange) (*repository.TruckCostStats, error) {
	if _, err := s.repos.Trucks.GetByID(ctx, truckID); err != nil {
		return nil, notFoundAs(err, ErrTruckNotFound)
	}
	return s.stats.CostByTruck(ctx, truckID, r)
}

func (s *MaintenanceService) invalidateTruck(ctx context.Context, truckID string) {
	if s.truckCache == nil || truckID == "" {
		return
	}
	if err := s.truckCache.InvalidateTrucks(ctx, truckID); err != nil {
		logrus.WithError(err).WithField("truck_id", truckID).Warn("failed to invalidate truck cache")
	}
}

package repository

import (
	"context"

	"fleet/internal/domain"
)

// MaintenanceTypeStats aggregates maintenance cost for one type.
type MaintenanceTypeStats struct {
	Type        domain.MaintenanceType `db:"type"`
	Count       int64                  `db:"count"`
	TotalCost   float64                `db:"total_cost"`
	AverageCost float64                `db:"average_cost"`
}

// TruckCostStats aggregates maintenance cost for one truck.
type TruckCostStats struct {
	TruckID     string  `db:"truck_id"`
	Count       int64   `db:"count"`
	TotalCost   float64 `db:"total_cost"`
	AverageCost float64 `db:"average_cost"`
}

// MaintenanceRepository defines the persistence operations for maintenances.
type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) error
	GetByID(ctx context.Context, id string) (*domain.Maintenance, error)
	GetAll(ctx context.Context, filter MaintenanceFilter) ([]*domain.Maintenance, error)
	Update(ctx context.Context, m *domain.Maintenance) error
	Delete(ctx context.Context, id string) error

	// DeleteByTruckID removes maintenances of a truck and of the truck's tires.
	DeleteByTruckID(ctx context.Context, truckID string) (int64, error)

	// DeleteByTireID removes maintenances of a tire.
	DeleteByTireID(ctx context.Context, tireID string) (int64, error)

	// LastDoneOdometers returns, per type, the highest odometer at which a
	// DONE maintenance of that type was performed on the truck.
	LastDoneOdometers(ctx context.Context, truckID string) (map[domain.MaintenanceType]float64, error)
}

// MaintenanceStatsRepository runs read-only aggregate queries over maintenances.
type MaintenanceStatsRepository interface {
	StatsByType(ctx context.Context, r DateRange) ([]MaintenanceTypeStats, error)
	CostByTruck(ctx context.Context, truckID string, r DateRange) (*TruckCostStats, error)
}

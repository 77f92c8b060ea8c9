package repository

import (
	"context"

	"fleet/internal/domain"
)

// TripFuelTotals aggregates the fuel logs of one trip.
type TripFuelTotals struct {
	TripID               string  `db:"trip_id"`
	TotalLiters          float64 `db:"total_liters"`
	TotalCost            float64 `db:"total_cost"`
	AveragePricePerLiter float64 `db:"average_price_per_liter"`
	Count                int64   `db:"count"`
}

// TruckConsumption aggregates fuel and distance over the finished trips of a truck.
type TruckConsumption struct {
	TotalFuel     float64 `db:"total_fuel"`
	TotalDistance float64 `db:"total_distance"`
	TripCount     int64   `db:"trip_count"`
}

// FuelPeriodStats aggregates fuel logs for one calendar month.
type FuelPeriodStats struct {
	Period               string  `db:"period"`
	TotalLiters          float64 `db:"total_liters"`
	TotalCost            float64 `db:"total_cost"`
	AveragePricePerLiter float64 `db:"average_price_per_liter"`
	Count                int64   `db:"count"`
}

// FuelLogRepository defines the persistence operations for fuel logs.
type FuelLogRepository interface {
	Create(ctx context.Context, f *domain.FuelLog) error
	GetByID(ctx context.Context, id string) (*domain.FuelLog, error)
	GetAll(ctx context.Context) ([]*domain.FuelLog, error)
	GetByTripID(ctx context.Context, tripID string) ([]*domain.FuelLog, error)
	Update(ctx context.Context, f *domain.FuelLog) error
	Delete(ctx context.Context, id string) error

	// DeleteByTripID removes every fuel log of a trip.
	DeleteByTripID(ctx context.Context, tripID string) (int64, error)
}

// FuelStatsRepository runs read-only aggregate queries over fuel logs and trips.
type FuelStatsRepository interface {
	TotalByTrip(ctx context.Context, tripID string) (*TripFuelTotals, error)
	ConsumptionByTruck(ctx context.Context, truckID string, r DateRange) (*TruckConsumption, error)
	StatsByPeriod(ctx context.Context, r DateRange) ([]FuelPeriodStats, error)
}

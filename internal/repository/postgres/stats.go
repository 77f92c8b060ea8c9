package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// StatsRepository runs the aggregate reports over maintenances, trips and fuel logs.
// Rows are mapped onto the db-tagged report structs by sqlx.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository wraps an existing connection pool.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: sqlx.NewDb(db, "postgres")}
}

// StatsByType aggregates non-cancelled maintenances per type.
func (r *StatsRepository) StatsByType(ctx context.Context, dr repository.DateRange) ([]repository.MaintenanceTypeStats, error) {
	from, to := rangeArgs(dr)
	query := `
		SELECT type,
		       COUNT(*)                AS count,
		       COALESCE(SUM(cost), 0) AS total_cost,
		       COALESCE(AVG(cost), 0) AS average_cost
		FROM maintenances
		WHERE status <> $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		GROUP BY type
		ORDER BY total_cost DESC
	`

	stats := []repository.MaintenanceTypeStats{}
	if err := r.db.SelectContext(ctx, &stats, query, domain.MaintenanceStatusCancelled, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

// CostByTruck aggregates the non-cancelled maintenance cost of one truck.
func (r *StatsRepository) CostByTruck(ctx context.Context, truckID string, dr repository.DateRange) (*repository.TruckCostStats, error) {
	from, to := rangeArgs(dr)
	query := `
		SELECT COUNT(*)                AS count,
		       COALESCE(SUM(cost), 0) AS total_cost,
		       COALESCE(AVG(cost), 0) AS average_cost
		FROM maintenances
		WHERE truck_id::text = $1
		  AND status <> $2
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date <= $4)
	`

	var stats repository.TruckCostStats
	if err := r.db.GetContext(ctx, &stats, query, truckID, domain.MaintenanceStatusCancelled, from, to); err != nil {
		return nil, err
	}
	stats.TruckID = truckID
	return &stats, nil
}

// TotalByTrip sums the fuel logs of one trip.
func (r *StatsRepository) TotalByTrip(ctx context.Context, tripID string) (*repository.TripFuelTotals, error) {
	query := `
		SELECT COALESCE(SUM(liters), 0)      AS total_liters,
		       COALESCE(SUM(total_price), 0) AS total_cost,
		       CASE WHEN COALESCE(SUM(liters), 0) > 0
		            THEN SUM(total_price) / SUM(liters)
		            ELSE 0 END                AS average_price_per_liter,
		       COUNT(*)                       AS count
		FROM fuel_logs
		WHERE trip_id::text = $1
	`

	var totals repository.TripFuelTotals
	if err := r.db.GetContext(ctx, &totals, query, tripID); err != nil {
		return nil, err
	}
	totals.TripID = tripID
	return &totals, nil
}

// ConsumptionByTruck sums fuel and distance over the DONE trips of a truck
// whose start date falls inside the range.
func (r *StatsRepository) ConsumptionByTruck(ctx context.Context, truckID string, dr repository.DateRange) (*repository.TruckConsumption, error) {
	from, to := rangeArgs(dr)
	query := `
		WITH done AS (
			SELECT id, start_odometer, end_odometer
			FROM trips
			WHERE truck_id::text = $1
			  AND status = $2
			  AND ($3::timestamptz IS NULL OR start_date >= $3)
			  AND ($4::timestamptz IS NULL OR start_date <= $4)
		)
		SELECT COALESCE((SELECT SUM(f.liters) FROM fuel_logs f WHERE f.trip_id IN (SELECT id FROM done)), 0) AS total_fuel,
		       COALESCE((SELECT SUM(end_odometer - start_odometer) FROM done WHERE end_odometer IS NOT NULL), 0) AS total_distance,
		       (SELECT COUNT(*) FROM done) AS trip_count
	`

	var c repository.TruckConsumption
	if err := r.db.GetContext(ctx, &c, query, truckID, domain.TripStatusDone, from, to); err != nil {
		return nil, err
	}
	return &c, nil
}

// StatsByPeriod aggregates fuel logs per calendar month (YYYY-MM).
func (r *StatsRepository) StatsByPeriod(ctx context.Context, dr repository.DateRange) ([]repository.FuelPeriodStats, error) {
	from, to := rangeArgs(dr)
	query := `
		SELECT to_char(date_trunc('month', date), 'YYYY-MM') AS period,
		       SUM(liters)                                    AS total_liters,
		       SUM(total_price)                               AS total_cost,
		       CASE WHEN SUM(liters) > 0
		            THEN SUM(total_price) / SUM(liters)
		            ELSE 0 END                                 AS average_price_per_liter,
		       COUNT(*)                                       AS count
		FROM fuel_logs
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		GROUP BY 1
		ORDER BY 1
	`

	stats := []repository.FuelPeriodStats{}
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

// Ensure StatsRepository implements both stats interfaces.
var (
	_ repository.MaintenanceStatsRepository = (*StatsRepository)(nil)
	_ repository.FuelStatsRepository        = (*StatsRepository)(nil)
)

package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// FuelLogRepository is a PostgreSQL implementation of repository.FuelLogRepository.
type FuelLogRepository struct {
	q Querier
}

// NewFuelLogRepository creates a new PostgreSQL fuel log repository.
func NewFuelLogRepository(db *sql.DB) *FuelLogRepository {
	return &FuelLogRepository{q: db}
}

// NewFuelLogRepositoryWithTx creates a fuel log repository using a transaction.
func NewFuelLogRepositoryWithTx(tx *sql.Tx) *FuelLogRepository {
	return &FuelLogRepository{q: tx}
}

const fuelColumns = `id, trip_id, liters, total_price, price_per_liter, station, date, created_at, updated_at`

// Create persists a new fuel log.
func (r *FuelLogRepository) Create(ctx context.Context, f *domain.FuelLog) error {
	query := `
		INSERT INTO fuel_logs (id, trip_id, liters, total_price, price_per_liter, station, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, query,
		f.ID,
		f.TripID,
		f.Liters,
		f.TotalPrice,
		f.PricePerLiter,
		f.Station,
		f.Date,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a fuel log by ID.
func (r *FuelLogRepository) GetByID(ctx context.Context, id string) (*domain.FuelLog, error) {
	f, err := scanFuelLog(r.q.QueryRowContext(ctx, `SELECT `+fuelColumns+` FROM fuel_logs WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

// GetAll retrieves every fuel log, most recent first.
func (r *FuelLogRepository) GetAll(ctx context.Context) ([]*domain.FuelLog, error) {
	return r.list(ctx, `SELECT `+fuelColumns+` FROM fuel_logs ORDER BY date DESC`)
}

// GetByTripID retrieves the fuel logs of a trip in chronological order.
func (r *FuelLogRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.FuelLog, error) {
	return r.list(ctx, `SELECT `+fuelColumns+` FROM fuel_logs WHERE trip_id = $1 ORDER BY date`, tripID)
}

// Update replaces the mutable fields of a fuel log.
func (r *FuelLogRepository) Update(ctx context.Context, f *domain.FuelLog) error {
	query := `
		UPDATE fuel_logs
		SET trip_id = $1, liters = $2, total_price = $3, price_per_liter = $4, station = $5, date = $6,
		    updated_at = NOW()
		WHERE id = $7
	`
	return expectAffected(r.q.ExecContext(ctx, query,
		f.TripID,
		f.Liters,
		f.TotalPrice,
		f.PricePerLiter,
		f.Station,
		f.Date,
		f.ID,
	))
}

// Delete removes a fuel log.
func (r *FuelLogRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.q.ExecContext(ctx, `DELETE FROM fuel_logs WHERE id = $1`, id))
}

// DeleteByTripID removes every fuel log of a trip.
func (r *FuelLogRepository) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM fuel_logs WHERE trip_id = $1`, tripID)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}

func (r *FuelLogRepository) list(ctx context.Context, query string, args ...any) ([]*domain.FuelLog, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var logs []*domain.FuelLog
	for rows.Next() {
		f, err := scanFuelLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, f)
	}
	return logs, rows.Err()
}

func scanFuelLog(s rowScanner) (*domain.FuelLog, error) {
	var f domain.FuelLog
	if err := s.Scan(
		&f.ID,
		&f.TripID,
		&f.Liters,
		&f.TotalPrice,
		&f.PricePerLiter,
		&f.Station,
		&f.Date,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// Ensure FuelLogRepository implements repository.FuelLogRepository.
var _ repository.FuelLogRepository = (*FuelLogRepository)(nil)

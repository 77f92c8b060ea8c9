package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TruckRepository is a PostgreSQL implementation of repository.TruckRepository.
type TruckRepository struct {
	q Querier
}

// NewTruckRepository creates a new PostgreSQL truck repository.
func NewTruckRepository(db *sql.DB) *TruckRepository {
	return &TruckRepository{q: db}
}

// NewTruckRepositoryWithTx creates a truck repository using a transaction.
func NewTruckRepositoryWithTx(tx *sql.Tx) *TruckRepository {
	return &TruckRepository{q: tx}
}

const truckColumns = `id, plate, make, model, tank_capacity, current_odometer, maintenance_alerts, status, created_at, updated_at`

// Create persists a new truck.
func (r *TruckRepository) Create(ctx context.Context, truck *domain.Truck) error {
	alerts, err := encodeAlerts(truck.MaintenanceAlerts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trucks (id, plate, make, model, tank_capacity, current_odometer, maintenance_alerts, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.q.ExecContext(ctx, query,
		truck.ID,
		truck.Plate,
		truck.Make,
		truck.Model,
		truck.TankCapacity,
		truck.CurrentOdometer,
		alerts,
		truck.Status,
		truck.CreatedAt,
		truck.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a truck by ID.
func (r *TruckRepository) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks WHERE id = $1`
	truck, err := scanTruck(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return truck, nil
}

// GetAll retrieves trucks, optionally restricted to one status.
func (r *TruckRepository) GetAll(ctx context.Context, status domain.TruckStatus) ([]*domain.Truck, error) {
	query := `
		SELECT ` + truckColumns + `
		FROM trucks
		WHERE ($1 = '' OR status = $1)
		ORDER BY plate
	`

	rows, err := r.q.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trucks []*domain.Truck
	for rows.Next() {
		truck, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, truck)
	}

	return trucks, rows.Err()
}

// Update replaces the mutable fields of a truck.
func (r *TruckRepository) Update(ctx context.Context, truck *domain.Truck) error {
	alerts, err := encodeAlerts(truck.MaintenanceAlerts)
	if err != nil {
		return err
	}

	query := `
		UPDATE trucks
		SET plate = $1, make = $2, model = $3, tank_capacity = $4, current_odometer = $5,
		    maintenance_alerts = $6, status = $7, updated_at = NOW()
		WHERE id = $8
	`
	return expectAffected(r.q.ExecContext(ctx, query,
		truck.Plate,
		truck.Make,
		truck.Model,
		truck.TankCapacity,
		truck.CurrentOdometer,
		alerts,
		truck.Status,
		truck.ID,
	))
}

// UpdateStatus updates the status of a truck.
func (r *TruckRepository) UpdateStatus(ctx context.Context, id string, status domain.TruckStatus) error {
	query := `UPDATE trucks SET status = $1, updated_at = NOW() WHERE id = $2`
	return expectAffected(r.q.ExecContext(ctx, query, status, id))
}

// Delete removes a truck.
func (r *TruckRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.q.ExecContext(ctx, `DELETE FROM trucks WHERE id = $1`, id))
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTruck(s rowScanner) (*domain.Truck, error) {
	var truck domain.Truck
	var alerts []byte

	if err := s.Scan(
		&truck.ID,
		&truck.Plate,
		&truck.Make,
		&truck.Model,
		&truck.TankCapacity,
		&truck.CurrentOdometer,
		&alerts,
		&truck.Status,
		&truck.CreatedAt,
		&truck.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(alerts) > 0 {
		if err := json.Unmarshal(alerts, &truck.MaintenanceAlerts); err != nil {
			return nil, err
		}
	}

	return &truck, nil
}

func encodeAlerts(alerts []domain.MaintenanceAlert) ([]byte, error) {
	if alerts == nil {
		alerts = []domain.MaintenanceAlert{}
	}
	return json.Marshal(alerts)
}

// Ensure TruckRepository implements repository.TruckRepository.
var _ repository.TruckRepository = (*TruckRepository)(nil)

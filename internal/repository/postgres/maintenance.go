package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// MaintenanceRepository is a PostgreSQL implementation of repository.MaintenanceRepository.
type MaintenanceRepository struct {
	q Querier
}

// NewMaintenanceRepository creates a new PostgreSQL maintenance repository.
func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{q: db}
}

// NewMaintenanceRepositoryWithTx creates a maintenance repository using a transaction.
func NewMaintenanceRepositoryWithTx(tx *sql.Tx) *MaintenanceRepository {
	return &MaintenanceRepository{q: tx}
}

const maintenanceColumns = `id, type, description, cost, date, status, truck_id, tire_id, replaced_parts,
	odometer_at_intervention, next_due_odometer, created_at, updated_at`

// Create persists a new maintenance.
func (r *MaintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	query := `
		INSERT INTO maintenances (id, type, description, cost, date, status, truck_id, tire_id, replaced_parts,
		                          odometer_at_intervention, next_due_odometer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.ExecContext(ctx, query,
		m.ID,
		m.Type,
		m.Description,
		m.Cost,
		m.Date,
		m.Status,
		nullString(m.TruckID),
		nullString(m.TireID),
		pq.StringArray(replacedParts(m.ReplacedParts)),
		nullFloat(m.OdometerAtIntervention),
		nullFloat(m.NextDueOdometer),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a maintenance by ID.
func (r *MaintenanceRepository) GetByID(ctx context.Context, id string) (*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenances WHERE id = $1`
	m, err := scanMaintenance(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

// GetAll retrieves maintenances matching the filter, most recent first.
func (r *MaintenanceRepository) GetAll(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.Maintenance, error) {
	from, to := rangeArgs(filter.Range)
	query := `
		SELECT ` + maintenanceColumns + `
		FROM maintenances
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR type = $2)
		  AND ($3 = '' OR truck_id::text = $3)
		  AND ($4 = '' OR tire_id::text = $4)
		  AND ($5::timestamptz IS NULL OR date >= $5)
		  AND ($6::timestamptz IS NULL OR date <= $6)
		ORDER BY date DESC
	`

	rows, err := r.q.QueryContext(ctx, query,
		filter.Status,
		filter.Type,
		filter.TruckID,
		filter.TireID,
		from,
		to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maintenances []*domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		maintenances = append(maintenances, m)
	}
	return maintenances, rows.Err()
}

// Update replaces the mutable fields of a maintenance.
func (r *MaintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) error {
	query := `
		UPDATE maintenances
		SET type = $1, description = $2, cost = $3, date = $4, status = $5, truck_id = $6, tire_id = $7,
		    replaced_parts = $8, odometer_at_intervention = $9, next_due_odometer = $10, updated_at = NOW()
		WHERE id = $11
	`
	return expectAffected(r.q.ExecContext(ctx, query,
		m.Type,
		m.Description,
		m.Cost,
		m.Date,
		m.Status,
		nullString(m.TruckID),
		nullString(m.TireID),
		pq.StringArray(replacedParts(m.ReplacedParts)),
		nullFloat(m.OdometerAtIntervention),
		nullFloat(m.NextDueOdometer),
		m.ID,
	))
}

// Delete removes a maintenance.
func (r *MaintenanceRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.q.ExecContext(ctx, `DELETE FROM maintenances WHERE id = $1`, id))
}

// DeleteByTruckID removes maintenances of a truck and of the truck's tires.
func (r *MaintenanceRepository) DeleteByTruckID(ctx context.Context, truckID string) (int64, error) {
	query := `
		DELETE FROM maintenances
		WHERE truck_id = $1
		   OR tire_id IN (SELECT id FROM tires WHERE truck_id = $1)
	`
	result, err := r.q.ExecContext(ctx, query, truckID)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}

// DeleteByTireID removes maintenances of a tire.
func (r *MaintenanceRepository) DeleteByTireID(ctx context.Context, tireID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM maintenances WHERE tire_id = $1`, tireID)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}

// LastDoneOdometers returns, per type, the highest odometer at which a DONE
// maintenance of that type was performed on the truck.
func (r *MaintenanceRepository) LastDoneOdometers(ctx context.Context, truckID string) (map[domain.MaintenanceType]float64, error) {
	query := `
		SELECT type, MAX(odometer_at_intervention)
		FROM maintenances
		WHERE truck_id = $1 AND status = $2 AND odometer_at_intervention IS NOT NULL
		GROUP BY type
	`

	rows, err := r.q.QueryContext(ctx, query, truckID, domain.MaintenanceStatusDone)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	last := make(map[domain.MaintenanceType]float64)
	for rows.Next() {
		var t domain.MaintenanceType
		var odometer float64
		if err := rows.Scan(&t, &odometer); err != nil {
			return nil, err
		}
		last[t] = odometer
	}
	return last, rows.Err()
}

func scanMaintenance(s rowScanner) (*domain.Maintenance, error) {
	var m domain.Maintenance
	var truckID, tireID sql.NullString
	var parts pq.StringArray
	var odometer, nextDue sql.NullFloat64

	if err := s.Scan(
		&m.ID,
		&m.Type,
		&m.Description,
		&m.Cost,
		&m.Date,
		&m.Status,
		&truckID,
		&tireID,
		&parts,
		&odometer,
		&nextDue,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.TruckID = truckID.String
	m.TireID = tireID.String
	m.ReplacedParts = []string(parts)
	m.OdometerAtIntervention = floatPtr(odometer)
	m.NextDueOdometer = floatPtr(nextDue)
	return &m, nil
}

func replacedParts(parts []string) []string {
	if parts == nil {
		return []string{}
	}
	return parts
}

// Ensure MaintenanceRepository implements repository.MaintenanceRepository.
var _ repository.MaintenanceRepository = (*MaintenanceRepository)(nil)

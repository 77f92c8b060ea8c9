package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TireRepository is a PostgreSQL implementation of repository.TireRepository.
type TireRepository struct {
	q Querier
}

// NewTireRepository creates a new PostgreSQL tire repository.
func NewTireRepository(db *sql.DB) *TireRepository {
	return &TireRepository{q: db}
}

// NewTireRepositoryWithTx creates a tire repository using a transaction.
func NewTireRepositoryWithTx(tx *sql.Tx) *TireRepository {
	return &TireRepository{q: tx}
}

const tireColumns = `id, truck_id, position, wear, install_date, created_at, updated_at`

// Create persists a new tire.
func (r *TireRepository) Create(ctx context.Context, tire *domain.Tire) error {
	query := `
		INSERT INTO tires (id, truck_id, position, wear, install_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		tire.ID,
		tire.TruckID,
		tire.Position,
		tire.Wear,
		tire.InstallDate,
		tire.CreatedAt,
		tire.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a tire by ID.
func (r *TireRepository) GetByID(ctx context.Context, id string) (*domain.Tire, error) {
	query := `SELECT ` + tireColumns + ` FROM tires WHERE id = $1`
	tire, err := scanTire(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return tire, nil
}

// GetAll retrieves all tires.
func (r *TireRepository) GetAll(ctx context.Context) ([]*domain.Tire, error) {
	return r.list(ctx, `SELECT `+tireColumns+` FROM tires ORDER BY truck_id, position`)
}

// GetByTruckID retrieves the tires mounted on a truck.
func (r *TireRepository) GetByTruckID(ctx context.Context, truckID string) ([]*domain.Tire, error) {
	return r.list(ctx, `SELECT `+tireColumns+` FROM tires WHERE truck_id = $1 ORDER BY position`, truckID)
}

// GetCritical retrieves tires whose wear is at or above minWear.
func (r *TireRepository) GetCritical(ctx context.Context, minWear float64) ([]*domain.Tire, error) {
	return r.list(ctx, `SELECT `+tireColumns+` FROM tires WHERE wear >= $1 ORDER BY wear DESC`, minWear)
}

// Update replaces the mutable fields of a tire.
func (r *TireRepository) Update(ctx context.Context, tire *domain.Tire) error {
	query := `
		UPDATE tires
		SET truck_id = $1, position = $2, wear = $3, install_date = $4, updated_at = NOW()
		WHERE id = $5
	`
	return expectAffected(r.q.ExecContext(ctx, query,
		tire.TruckID,
		tire.Position,
		tire.Wear,
		tire.InstallDate,
		tire.ID,
	))
}

// Delete removes a tire.
func (r *TireRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.q.ExecContext(ctx, `DELETE FROM tires WHERE id = $1`, id))
}

// DeleteByTruckID removes every tire of a truck.
func (r *TireRepository) DeleteByTruckID(ctx context.Context, truckID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM tires WHERE truck_id = $1`, truckID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TireRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Tire, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tires []*domain.Tire
	for rows.Next() {
		tire, err := scanTire(rows)
		if err != nil {
			return nil, err
		}
		tires = append(tires, tire)
	}

	return tires, rows.Err()
}

func scanTire(s rowScanner) (*domain.Tire, error) {
	var tire domain.Tire
	if err := s.Scan(
		&tire.ID,
		&tire.TruckID,
		&tire.Position,
		&tire.Wear,
		&tire.InstallDate,
		&tire.CreatedAt,
		&tire.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tire, nil
}

// Ensure TireRepository implements repository.TireRepository.
var _ repository.TireRepository = (*TireRepository)(nil)

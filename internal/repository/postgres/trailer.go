package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TrailerRepository is a PostgreSQL implementation of repository.TrailerRepository.
type TrailerRepository struct {
	q Querier
}

// NewTrailerRepository creates a new PostgreSQL trailer repository.
func NewTrailerRepository(db *sql.DB) *TrailerRepository {
	return &TrailerRepository{q: db}
}

// NewTrailerRepositoryWithTx creates a trailer repository using a transaction.
func NewTrailerRepositoryWithTx(tx *sql.Tx) *TrailerRepository {
	return &TrailerRepository{q: tx}
}

const trailerColumns = `id, plate, type, status, capacity, created_at, updated_at`

// Create persists a new trailer.
func (r *TrailerRepository) Create(ctx context.Context, trailer *domain.Trailer) error {
	query := `
		INSERT INTO trailers (id, plate, type, status, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		trailer.ID,
		trailer.Plate,
		trailer.Type,
		trailer.Status,
		trailer.Capacity,
		trailer.CreatedAt,
		trailer.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a trailer by ID.
func (r *TrailerRepository) GetByID(ctx context.Context, id string) (*domain.Trailer, error) {
	query := `SELECT ` + trailerColumns + ` FROM trailers WHERE id = $1`
	trailer, err := scanTrailer(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return trailer, nil
}

// GetAll retrieves trailers, optionally restricted to one status.
func (r *TrailerRepository) GetAll(ctx context.Context, status domain.TrailerStatus) ([]*domain.Trailer, error) {
	query := `
		SELECT ` + trailerColumns + `
		FROM trailers
		WHERE ($1 = '' OR status = $1)
		ORDER BY plate
	`

	rows, err := r.q.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trailers []*domain.Trailer
	for rows.Next() {
		trailer, err := scanTrailer(rows)
		if err != nil {
			return nil, err
		}
		trailers = append(trailers, trailer)
	}

	return trailers, rows.Err()
}

// Update replaces the mutable fields of a trailer.
func (r *TrailerRepository) Update(ctx context.Context, trailer *domain.Trailer) error {
	query := `
		UPDATE trailers
		SET plate = $1, type = $2, status = $3, capacity = $4, updated_at = NOW()
		WHERE id = $5
	`
	return expectAffected(r.q.ExecContext(ctx, query,
		trailer.Plate,
		trailer.Type,
		trailer.Status,
		trailer.Capacity,
		trailer.ID,
	))
}

// UpdateStatus updates the status of a trailer.
func (r *TrailerRepository) UpdateStatus(ctx context.Context, id string, status domain.TrailerStatus) error {
	query := `UPDATE trailers SET status = $1, updated_at = NOW() WHERE id = $2`
	return expectAffected(r.q.ExecContext(ctx, query, status, id))
}

// Delete removes a trailer.
func (r *TrailerRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.q.ExecContext(ctx, `DELETE FROM trailers WHERE id = $1`, id))
}

func scanTrailer(s rowScanner) (*domain.Trailer, error) {
	var trailer domain.Trailer
	if err := s.Scan(
		&trailer.ID,
		&trailer.Plate,
		&trailer.Type,
		&trailer.Status,
		&trailer.Capacity,
		&trailer.CreatedAt,
		&trailer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &trailer, nil
}

// Ensure TrailerRepository implements repository.TrailerRepository.
var _ repository.TrailerRepository = (*TrailerRepository)(nil)

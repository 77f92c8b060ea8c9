package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fleet/internal/repository"
)

// Transactor runs units of work inside a PostgreSQL transaction.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor over the given pool.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx begins a transaction, hands fn repositories bound to it, and
// commits when fn succeeds.
func (t *Transactor) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(NewRepositoriesWithTx(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// NewRepositories builds the repository bundle over the pool.
func NewRepositories(db *sql.DB) repository.Repositories {
	return repository.Repositories{
		Trucks:       NewTruckRepository(db),
		Trailers:     NewTrailerRepository(db),
		Tires:        NewTireRepository(db),
		Maintenances: NewMaintenanceRepository(db),
		FuelLogs:     NewFuelLogRepository(db),
		Trips:        NewTripRepository(db),
		Users:        NewUserRepository(db),
		Tokens:       NewRefreshTokenRepository(db),
	}
}

// NewRepositoriesWithTx builds the repository bundle over a transaction.
func NewRepositoriesWithTx(tx *sql.Tx) repository.Repositories {
	return repository.Repositories{
		Trucks:       NewTruckRepositoryWithTx(tx),
		Trailers:     NewTrailerRepositoryWithTx(tx),
		Tires:        NewTireRepositoryWithTx(tx),
		Maintenances: NewMaintenanceRepositoryWithTx(tx),
		FuelLogs:     NewFuelLogRepositoryWithTx(tx),
		Trips:        NewTripRepositoryWithTx(tx),
		Users:        NewUserRepositoryWithTx(tx),
		Tokens:       NewRefreshTokenRepositoryWithTx(tx),
	}
}

// Ensure Transactor implements repository.Transactor.
var _ repository.Transactor = (*Transactor)(nil)

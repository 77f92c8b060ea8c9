package repository

import "context"

// Repositories bundles the repositories that share one unit of work.
type Repositories struct {
	Trucks       TruckRepository
	Trailers     TrailerRepository
	Tires        TireRepository
	Maintenances MaintenanceRepository
	FuelLogs     FuelLogRepository
	Trips        TripRepository
	Users        UserRepository
	Tokens       RefreshTokenRepository
}

// Transactor runs fn inside a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

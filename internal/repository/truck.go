package repository

import (
	"context"

	"fleet/internal/domain"
)

// TruckRepository defines the persistence operations for trucks.
type TruckRepository interface {
	// Create persists a new truck.
	Create(ctx context.Context, truck *domain.Truck) error

	// GetByID retrieves a truck by ID.
	GetByID(ctx context.Context, id string) (*domain.Truck, error)

	// GetAll retrieves trucks, optionally restricted to one status.
	GetAll(ctx context.Context, status domain.TruckStatus) ([]*domain.Truck, error)

	// Update replaces the mutable fields of a truck.
	Update(ctx context.Context, truck *domain.Truck) error

	// UpdateStatus updates the status of a truck.
	UpdateStatus(ctx context.Context, id string, status domain.TruckStatus) error

	// Delete removes a truck.
	Delete(ctx context.Context, id string) error
}

// TrailerRepository defines the persistence operations for trailers.
type TrailerRepository interface {
	Create(ctx context.Context, trailer *domain.Trailer) error
	GetByID(ctx context.Context, id string) (*domain.Trailer, error)
	GetAll(ctx context.Context, status domain.TrailerStatus) ([]*domain.Trailer, error)
	Update(ctx context.Context, trailer *domain.Trailer) error
	UpdateStatus(ctx context.Context, id string, status domain.TrailerStatus) error
	Delete(ctx context.Context, id string) error
}

// TireRepository defines the persistence operations for tires.
type TireRepository interface {
	Create(ctx context.Context, tire *domain.Tire) error
	GetByID(ctx context.Context, id string) (*domain.Tire, error)
	GetAll(ctx context.Context) ([]*domain.Tire, error)
	GetByTruckID(ctx context.Context, truckID string) ([]*domain.Tire, error)

	// GetCritical retrieves tires whose wear is at or above minWear.
	GetCritical(ctx context.Context, minWear float64) ([]*domain.Tire, error)

	Update(ctx context.Context, tire *domain.Tire) error
	Delete(ctx context.Context, id string) error

	// DeleteByTruckID removes every tire of a truck and returns how many were removed.
	DeleteByTruckID(ctx context.Context, truckID string) (int64, error)
}

package repository

import (
	"context"

	"fleet/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves trips matching the filter, newest first.
	GetAll(ctx context.Context, filter TripFilter) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// Delete removes a trip.
	Delete(ctx context.Context, id string) error

	// CountInProgressByTruck counts IN_PROGRESS trips using the truck.
	CountInProgressByTruck(ctx context.Context, truckID string) (int, error)

	// CountInProgressByTrailer counts IN_PROGRESS trips using the trailer.
	CountInProgressByTrailer(ctx context.Context, trailerID string) (int, error)
}

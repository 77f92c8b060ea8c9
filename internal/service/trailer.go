package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TrailerService handles trailer operations.
type TrailerService struct {
	trailerRepo repository.TrailerRepository
}

// NewTrailerService creates a new TrailerService.
func NewTrailerService(trailerRepo repository.TrailerRepository) *TrailerService {
	return &TrailerService{trailerRepo: trailerRepo}
}

// TrailerInput carries the writable fields of a trailer.
type TrailerInput struct {
	Plate    *string
	Type     *domain.TrailerType
	Status   *domain.TrailerStatus
	Capacity *float64
}

func (in TrailerInput) apply(t *domain.Trailer) {
	if in.Plate != nil {
		t.Plate = *in.Plate
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Capacity != nil {
		t.Capacity = *in.Capacity
	}
}

// Create registers a new trailer.
func (s *TrailerService) Create(ctx context.Context, in TrailerInput) (*domain.Trailer, error) {
	now := time.Now().UTC()
	trailer := &domain.Trailer{
		ID:        uuid.New().String(),
		Status:    domain.TrailerStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(trailer)

	if err := domain.ValidateTrailer(trailer); err != nil {
		return nil, err
	}
	if err := s.trailerRepo.Create(ctx, trailer); err != nil {
		return nil, plateConflict(err)
	}
	return trailer, nil
}

// GetByID retrieves a trailer.
func (s *TrailerService) GetByID(ctx context.Context, id string) (*domain.Trailer, error) {
	trailer, err := s.trailerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTrailerNotFound)
	}
	return trailer, nil
}

// GetAll lists trailers, optionally restricted to one status.
func (s *TrailerService) GetAll(ctx context.Context, status domain.TrailerStatus) ([]*domain.Trailer, error) {
	return s.trailerRepo.GetAll(ctx, status)
}

// GetAvailable lists the trailers that can be attached to a new trip.
func (s *TrailerService) GetAvailable(ctx context.Context) ([]*domain.Trailer, error) {
	return s.trailerRepo.GetAll(ctx, domain.TrailerStatusAvailable)
}

// Update applies a partial update to a trailer.
func (s *TrailerService) Update(ctx context.Context, id string, in TrailerInput) (*domain.Trailer, error) {
	trailer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(trailer)
	trailer.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateTrailer(trailer); err != nil {
		return nil, err
	}
	if err := s.trailerRepo.Update(ctx, trailer); err != nil {
		return nil, plateConflict(notFoundAs(err, ErrTrailerNotFound))
	}
	return trailer, nil
}

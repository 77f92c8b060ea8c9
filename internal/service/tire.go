package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// DefaultTireCriticalWear is the wear percentage at which a tire is listed as critical.
const DefaultTireCriticalWear = 80.0

// TireService handles tire operations.
type TireService struct {
	tireRepo     repository.TireRepository
	truckRepo    repository.TruckRepository
	criticalWear float64
}

// NewTireService creates a new TireService. A criticalWear outside (0, 100]
// falls back to DefaultTireCriticalWear.
func NewTireService(tireRepo repository.TireRepository, truckRepo repository.TruckRepository, criticalWear float64) *TireService {
	if criticalWear <= 0 || criticalWear > 100 {
		criticalWear = DefaultTireCriticalWear
	}
	return &TireService{
		tireRepo:     tireRepo,
		truckRepo:    truckRepo,
		criticalWear: criticalWear,
	}
}

// TireInput carries the writable fields of a tire.
type TireInput struct {
	TruckID     *string
	Position    *domain.TirePosition
	Wear        *float64
	InstallDate *time.Time
}

func (in TireInput) apply(t *domain.Tire) {
	if in.TruckID != nil {
		t.TruckID = *in.TruckID
	}
	if in.Position != nil {
		t.Position = *in.Position
	}
	if in.Wear != nil {
		t.Wear = *in.Wear
	}
	if in.InstallDate != nil {
		t.InstallDate = *in.InstallDate
	}
}

// Create mounts a new tire on a truck.
func (s *TireService) Create(ctx context.Context, in TireInput) (*domain.Tire, error) {
	now := time.Now().UTC()
	tire := &domain.Tire{
		ID:          uuid.New().String(),
		InstallDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	in.apply(tire)

	if err := s.check(ctx, tire); err != nil {
		return nil, err
	}
	if err := s.tireRepo.Create(ctx, tire); err != nil {
		return nil, positionConflict(err)
	}
	return tire, nil
}

// GetByID retrieves a tire.
func (s *TireService) GetByID(ctx context.Context, id string) (*domain.Tire, error) {
	tire, err := s.tireRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTireNotFound)
	}
	return tire, nil
}

// GetAll lists every tire.
func (s *TireService) GetAll(ctx context.Context) ([]*domain.Tire, error) {
	return s.tireRepo.GetAll(ctx)
}

// GetByTruck lists the tires mounted on a truck.
func (s *TireService) GetByTruck(ctx context.Context, truckID string) ([]*domain.Tire, error) {
	if _, err := s.truckRepo.GetByID(ctx, truckID); err != nil {
		return nil, notFoundAs(err, ErrTruckNotFound)
	}
	return s.tireRepo.GetByTruckID(ctx, truckID)
}

// GetCritical lists tires worn at or above the critical threshold, most worn first.
func (s *TireService) GetCritical(ctx context.Context) ([]*domain.Tire, error) {
	return s.tireRepo.GetCritical(ctx, s.criticalWear)
}

// Update applies a partial update to a tire.
func (s *TireService) Update(ctx context.Context, id string, in TireInput) (*domain.Tire, error) {
	tire, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(tire)
	tire.UpdatedAt = time.Now().UTC()

	if err := s.check(ctx, tire); err != nil {
		return nil, err
	}
	if err := s.tireRepo.Update(ctx, tire); err != nil {
		return nil, positionConflict(notFoundAs(err, ErrTireNotFound))
	}
	return tire, nil
}

// UpdateWear sets the wear percentage of a tire.
func (s *TireService) UpdateWear(ctx context.Context, id string, wear float64) (*domain.Tire, error) {
	return s.Update(ctx, id, TireInput{Wear: &wear})
}

// check validates the tire and makes sure its truck exists.
func (s *TireService) check(ctx context.Context, tire *domain.Tire) error {
	if err := domain.ValidateTire(tire); err != nil {
		return err
	}
	if _, err := s.truckRepo.GetByID(ctx, tire.TruckID); err != nil {
		return notFoundAs(err, ErrTruckNotFound)
	}
	return nil
}

func positionConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrTirePositionTaken
	}
	return err
}

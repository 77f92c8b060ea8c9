package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// FuelService handles fuel logs and the consumption figures derived from them.
type FuelService struct {
	fuelRepo repository.FuelLogRepository
	tripRepo repository.TripRepository
	stats    repository.FuelStatsRepository
}

// NewFuelService creates a new FuelService.
func NewFuelService(
	fuelRepo repository.FuelLogRepository,
	tripRepo repository.TripRepository,
	stats repository.FuelStatsRepository,
) *FuelService {
	return &FuelService{
		fuelRepo: fuelRepo,
		tripRepo: tripRepo,
		stats:    stats,
	}
}

// FuelLogInput carries the writable fields of a fuel log. The price per
// liter is always derived, so it is not part of the input.
type FuelLogInput struct {
	TripID     *string
	Liters     *float64
	TotalPrice *float64
	Station    *string
	Date       *time.Time
}

func (in FuelLogInput) apply(f *domain.FuelLog) {
	if in.TripID != nil {
		f.TripID = *in.TripID
	}
	if in.Liters != nil {
		f.Liters = *in.Liters
	}
	if in.TotalPrice != nil {
		f.TotalPrice = *in.TotalPrice
	}
	if in.Station != nil {
		f.Station = *in.Station
	}
	if in.Date != nil {
		f.Date = *in.Date
	}
}

// Create records a refuelling on a trip in progress. driverID, when set,
// must be the driver of the trip.
func (s *FuelService) Create(ctx context.Context, driverID string, in FuelLogInput) (*domain.FuelLog, error) {
	now := time.Now().UTC()
	log := &domain.FuelLog{
		ID:        uuid.New().String(),
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(log)
	log.ComputePricePerLiter()

	if err := domain.ValidateFuelLog(log); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, log.TripID)
	if err != nil {
		return nil, notFoundAs(err, ErrTripNotFound)
	}
	if driverID != "" && trip.DriverID != driverID {
		return nil, ErrTripNotAssignedToDriver
	}
	if trip.Status != domain.TripStatusInProgress {
		return nil, ErrTripNotInProgress
	}

	if err := s.fuelRepo.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// Update applies a partial update and derives the price per liter again.
func (s *FuelService) Update(ctx context.Context, id string, in FuelLogInput) (*domain.FuelLog, error) {
	log, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.TripID != nil && *in.TripID != log.TripID {
		trip, err := s.tripRepo.GetByID(ctx, *in.TripID)
		if err != nil {
			return nil, notFoundAs(err, ErrTripNotFound)
		}
		if trip.Status != domain.TripStatusInProgress {
			return nil, ErrTripNotInProgress
		}
	}

	in.apply(log)
	log.ComputePricePerLiter()
	log.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateFuelLog(log); err != nil {
		return nil, err
	}
	if err := s.fuelRepo.Update(ctx, log); err != nil {
		return nil, notFoundAs(err, ErrFuelLogNotFound)
	}
	return log, nil
}

// Delete removes a fuel log.
func (s *FuelService) Delete(ctx context.Context, id string) (*domain.FuelLog, error) {
	log, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fuelRepo.Delete(ctx, id); err != nil {
		return nil, notFoundAs(err, ErrFuelLogNotFound)
	}
	return log, nil
}

// GetByID retrieves a fuel log.
func (s *FuelService) GetByID(ctx context.Context, id string) (*domain.FuelLog, error) {
	log, err := s.fuelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrFuelLogNotFound)
	}
	return log, nil
}

// GetAll lists every fuel log.
func (s *FuelService) GetAll(ctx context.Context) ([]*domain.FuelLog, error) {
	return s.fuelRepo.GetAll(ctx)
}

// GetByTrip lists the fuel logs of a trip.
func (s *FuelService) GetByTrip(ctx context.Context, tripID string) ([]*domain.FuelLog, error) {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, notFoundAs(err, ErrTripNotFound)
	}
	return s.fuelRepo.GetByTripID(ctx, tripID)
}

// TotalByTrip sums the fuel logs of a trip.
func (s *FuelService) TotalByTrip(ctx context.Context, tripID string) (*repository.TripFuelTotals, error) {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, notFoundAs(err, ErrTripNotFound)
	}
	totals, err := s.stats.TotalByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	totals.AveragePricePerLiter = round(totals.AveragePricePerLiter, 3)
	return totals, nil
}

// Consumption is the fuel consumption of a truck over its finished trips.
type Consumption struct {
	TruckID            string
	AverageConsumption float64 // liters per 100 km
	TotalFuel          float64
	TotalDistance      float64
	TripCount          int64
}

// AverageConsumptionByTruck computes liters per 100 km over the DONE trips of
// a truck started inside the range. No matching trip yields zero values.
func (s *FuelService) AverageConsumptionByTruck(ctx context.Context, truckID string, r repository.DateRange) (*Consumption, error) {
	c, err := s.stats.ConsumptionByTruck(ctx, truckID, r)
	if err != nil {
		return nil, err
	}

	out := &Consumption{
		TruckID:       truckID,
		TotalFuel:     round(c.TotalFuel, 2),
		TotalDistance: round(c.TotalDistance, 2),
		TripCount:     c.TripCount,
	}
	if c.TotalDistance > 0 {
		out.AverageConsumption = round(c.TotalFuel/c.TotalDistance*100, 2)
	}
	return out, nil
}

// StatsByPeriod aggregates fuel logs per month over the range.
func (s *FuelService) StatsByPeriod(ctx context.Context, r repository.DateRange) ([]repository.FuelPeriodStats, error) {
	stats, err := s.stats.StatsByPeriod(ctx, r)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].AveragePricePerLiter = round(stats[i].AveragePricePerLiter, 3)
	}
	return stats, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

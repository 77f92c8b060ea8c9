package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

func TestCreateTruck_DefaultsAndPlateConflict(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	ctx := context.Background()

	truck, err := f.trucks.Create(ctx, service.TruckInput{
		Plate:        ptr("12345-A-6"),
		Make:         ptr("Renault"),
		Model:        ptr("T480"),
		TankCapacity: ptr(500.0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truck.Status != domain.TruckStatusAvailable {
		t.Errorf("expected AVAILABLE, got %s", truck.Status)
	}
	if truck.MaintenanceAlerts == nil {
		t.Error("expected an empty alert list, not nil")
	}

	_, err = f.trucks.Create(ctx, service.TruckInput{
		Plate: ptr("12345-A-6"),
		Make:  ptr("Volvo"),
		Model: ptr("FH"),
	})
	if !errors.Is(err, service.ErrPlateTaken) {
		t.Fatalf("expected ErrPlateTaken, got %v", err)
	}
}

func TestCreateTruck_Validation(t *testing.T) {
	t.Parallel()

	f := newFleet(t)

	_, err := f.trucks.Create(context.Background(), service.TruckInput{
		Plate:           ptr("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
		CurrentOdometer: ptr(-1.0),
		Status:          ptr(domain.TruckStatus("PARKED")),
	})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	for _, field := range []string{"plate", "make", "model", "currentOdometer", "status"} {
		if !ve.Has(field) {
			t.Errorf("expected a violation on %s, got %v", field, ve.Fields)
		}
	}
}

func TestGetTruck_ReadsThroughCache(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 100, domain.TruckStatusAvailable)
	ctx := context.Background()

	if _, err := f.trucks.GetByID(ctx, "truck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.cache.IsCached("truck-1") {
		t.Fatal("expected the truck to be cached after a miss")
	}

	updated, err := f.trucks.Update(ctx, "truck-1", service.TruckInput{CurrentOdometer: ptr(250.0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.CurrentOdometer != 250 {
		t.Errorf("expected odometer 250, got %v", updated.CurrentOdometer)
	}
	if f.cache.IsCached("truck-1") {
		t.Error("expected the update to evict the cached truck")
	}

	truck, err := f.trucks.GetByID(ctx, "truck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truck.CurrentOdometer != 250 {
		t.Errorf("expected a fresh read, got odometer %v", truck.CurrentOdometer)
	}
}

func TestGetTruck_CacheFailureFallsBackToRepository(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.cache.GetError = ErrMockFailure

	truck, err := f.trucks.GetByID(context.Background(), "truck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truck.ID != "truck-1" {
		t.Errorf("unexpected truck %s", truck.ID)
	}

	if _, err := f.trucks.GetByID(context.Background(), "missing"); !errors.Is(err, service.ErrTruckNotFound) {
		t.Errorf("expected ErrTruckNotFound, got %v", err)
	}
}

func TestGetAvailableTrucks(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.addTruck("truck-2", 0, domain.TruckStatusOnTrip)
	f.addTruck("truck-3", 0, domain.TruckStatusMaintenance)

	trucks, err := f.trucks.GetAvailable(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trucks) != 1 || trucks[0].ID != "truck-1" {
		t.Errorf("expected only truck-1, got %d trucks", len(trucks))
	}
	if !f.cache.IsCached("truck-1") {
		t.Error("expected listings to warm the cache")
	}
}

func TestTrailerPlateConflict(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTrailer("trailer-1", domain.TrailerStatusAvailable)

	_, err := f.trailers.Create(context.Background(), service.TrailerInput{
		Plate: ptr("TRL-trailer-1"),
		Type:  ptr(domain.TrailerTypeTanker),
	})
	if !errors.Is(err, service.ErrPlateTaken) {
		t.Fatalf("expected ErrPlateTaken, got %v", err)
	}

	trailer, err := f.trailers.Create(context.Background(), service.TrailerInput{
		Plate: ptr("TRL-2"),
		Type:  ptr(domain.TrailerTypeTanker),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trailer.Status != domain.TrailerStatusAvailable {
		t.Errorf("expected AVAILABLE, got %s", trailer.Status)
	}
}

func TestCreateTire_PositionIsUniquePerTruck(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.addTruck("truck-2", 0, domain.TruckStatusAvailable)
	ctx := context.Background()

	in := service.TireInput{TruckID: ptr("truck-1"), Position: ptr(domain.TirePositionFrontLeft)}
	if _, err := f.tires.Create(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.tires.Create(ctx, in); !errors.Is(err, service.ErrTirePositionTaken) {
		t.Fatalf("expected ErrTirePositionTaken, got %v", err)
	}

	other := service.TireInput{TruckID: ptr("truck-2"), Position: ptr(domain.TirePositionFrontLeft)}
	if _, err := f.tires.Create(ctx, other); err != nil {
		t.Errorf("expected the same position on another truck to be accepted: %v", err)
	}

	missing := service.TireInput{TruckID: ptr("missing"), Position: ptr(domain.TirePositionFrontRight)}
	if _, err := f.tires.Create(ctx, missing); !errors.Is(err, service.ErrTruckNotFound) {
		t.Errorf("expected ErrTruckNotFound, got %v", err)
	}
}

func TestTireWear(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-1", TruckID: "truck-1", Position: domain.TirePositionFrontLeft, Wear: 40})
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-2", TruckID: "truck-1", Position: domain.TirePositionFrontRight, Wear: 85})
	ctx := context.Background()

	if _, err := f.tires.UpdateWear(ctx, "tire-1", 101); !domain.IsValidationError(err) {
		t.Errorf("expected a validation error for wear above 100, got %v", err)
	}

	if _, err := f.tires.UpdateWear(ctx, "tire-1", service.DefaultTireCriticalWear); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	critical, err := f.tires.GetCritical(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(critical) != 2 {
		t.Errorf("expected 2 critical tires, got %d", len(critical))
	}
}

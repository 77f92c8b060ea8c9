package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

func TestDeleteTruck_RefusedWhileTripInProgress(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusOnTrip)
	f.addTrip("trip-1", "driver-1", "truck-1", "", domain.TripStatusInProgress, 0)
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-1", TruckID: "truck-1", Position: domain.TirePositionFrontLeft})

	_, err := f.assets.DeleteTruck(context.Background(), "truck-1")
	if !errors.Is(err, service.ErrAssetInUse) {
		t.Fatalf("expected ErrAssetInUse, got %v", err)
	}
	if !errors.Is(err, service.ErrConflict) {
		t.Error("expected a conflict error")
	}
	if f.repos.Trucks.GetTruck("truck-1") == nil {
		t.Error("expected truck to be kept")
	}
	if f.repos.Tires.CountTires() != 1 {
		t.Error("expected tires to be kept")
	}
}

func TestDeleteTruck_PlannedTripDoesNotBlock(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusOnMission)
	f.addTrip("trip-1", "driver-1", "truck-1", "", domain.TripStatusPlanned, 0)

	if _, err := f.assets.DeleteTruck(context.Background(), "truck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repos.Trips.GetTrip("trip-1") == nil {
		t.Error("expected the trip to survive the truck")
	}
}

func TestDeleteTruck_CascadesToTiresAndMaintenances(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.addTruck("truck-2", 0, domain.TruckStatusAvailable)
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-1", TruckID: "truck-1", Position: domain.TirePositionFrontLeft})
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-2", TruckID: "truck-1", Position: domain.TirePositionFrontRight})
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-3", TruckID: "truck-2", Position: domain.TirePositionFrontLeft})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-1", TruckID: "truck-1", Type: domain.MaintenanceTypeOilChange})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-2", TruckID: "truck-1", TireID: "tire-1", Type: domain.MaintenanceTypeTire})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-3", TruckID: "truck-2", Type: domain.MaintenanceTypeBrake})
	_ = f.cache.SetTruck(context.Background(), f.repos.Trucks.GetTruck("truck-1"))

	deleted, err := f.assets.DeleteTruck(context.Background(), "truck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != "truck-1" {
		t.Errorf("expected deleted truck to be returned, got %s", deleted.ID)
	}

	if f.repos.Trucks.GetTruck("truck-1") != nil {
		t.Error("expected truck to be removed")
	}
	if f.repos.Tires.CountTires() != 1 {
		t.Errorf("expected 1 remaining tire, got %d", f.repos.Tires.CountTires())
	}
	if f.repos.Maintenances.CountMaintenances() != 1 || f.repos.Maintenances.GetMaintenance("m-3") == nil {
		t.Error("expected only the other truck's maintenance to remain")
	}
	if f.cache.IsCached("truck-1") {
		t.Error("expected truck to be evicted from the cache")
	}
}

func TestDeleteTruck_NotFound(t *testing.T) {
	t.Parallel()

	f := newFleet(t)

	_, err := f.assets.DeleteTruck(context.Background(), "missing")
	if !errors.Is(err, service.ErrTruckNotFound) {
		t.Fatalf("expected ErrTruckNotFound, got %v", err)
	}
	if !errors.Is(err, service.ErrNotFound) {
		t.Error("expected a not found error")
	}
}

func TestDeleteTrailer(t *testing.T) {
	t.Parallel()

	t.Run("in use", func(t *testing.T) {
		t.Parallel()

		f := newFleet(t)
		f.addTruck("truck-1", 0, domain.TruckStatusOnTrip)
		f.addTrailer("trailer-1", domain.TrailerStatusOnTrip)
		f.addTrip("trip-1", "driver-1", "truck-1", "trailer-1", domain.TripStatusInProgress, 0)

		_, err := f.assets.DeleteTrailer(context.Background(), "trailer-1")
		if !errors.Is(err, service.ErrAssetInUse) {
			t.Fatalf("expected ErrAssetInUse, got %v", err)
		}
		if f.repos.Trailers.GetTrailer("trailer-1") == nil {
			t.Error("expected trailer to be kept")
		}
	})

	t.Run("free", func(t *testing.T) {
		t.Parallel()

		f := newFleet(t)
		f.addTrailer("trailer-1", domain.TrailerStatusAvailable)

		if _, err := f.assets.DeleteTrailer(context.Background(), "trailer-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.repos.Trailers.GetTrailer("trailer-1") != nil {
			t.Error("expected trailer to be removed")
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		f := newFleet(t)

		_, err := f.assets.DeleteTrailer(context.Background(), "missing")
		if !errors.Is(err, service.ErrTrailerNotFound) {
			t.Fatalf("expected ErrTrailerNotFound, got %v", err)
		}
	})
}

func TestDeleteTire_RemovesItsMaintenances(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-1", TruckID: "truck-1", Position: domain.TirePositionRearLeftOuter})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-1", TruckID: "truck-1", TireID: "tire-1", Type: domain.MaintenanceTypeTire})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-2", TruckID: "truck-1", Type: domain.MaintenanceTypeOilChange})

	if _, err := f.assets.DeleteTire(context.Background(), "tire-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repos.Tires.CountTires() != 0 {
		t.Error("expected tire to be removed")
	}
	if f.repos.Maintenances.GetMaintenance("m-1") != nil {
		t.Error("expected the tire maintenance to be removed")
	}
	if f.repos.Maintenances.GetMaintenance("m-2") == nil {
		t.Error("expected the truck maintenance to be kept")
	}

	_, err := f.assets.DeleteTire(context.Background(), "tire-1")
	if !errors.Is(err, service.ErrTireNotFound) {
		t.Errorf("expected ErrTireNotFound on second delete, got %v", err)
	}
}

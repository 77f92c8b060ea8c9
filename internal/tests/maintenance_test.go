package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

func TestCreateMaintenance_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        service.MaintenanceInput
		wantField string
	}{
		{
			name:      "no truck nor tire",
			in:        service.MaintenanceInput{Type: ptr(domain.MaintenanceTypeOilChange)},
			wantField: "truckId",
		},
		{
			name:      "tire work without tire",
			in:        service.MaintenanceInput{Type: ptr(domain.MaintenanceTypeTire), TruckID: ptr("truck-1")},
			wantField: "tireId",
		},
		{
			name: "next due before intervention",
			in: service.MaintenanceInput{
				Type:                   ptr(domain.MaintenanceTypeOilChange),
				TruckID:                ptr("truck-1"),
				OdometerAtIntervention: ptr(50000.0),
				NextDueOdometer:        ptr(50000.0),
			},
			wantField: "nextDueOdometer",
		},
		{
			name:      "unknown type",
			in:        service.MaintenanceInput{Type: ptr(domain.MaintenanceType("WASH")), TruckID: ptr("truck-1")},
			wantField: "type",
		},
		{
			name:      "negative cost",
			in:        service.MaintenanceInput{Type: ptr(domain.MaintenanceTypeBrake), TruckID: ptr("truck-1"), Cost: ptr(-1.0)},
			wantField: "cost",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFleet(t)
			f.addTruck("truck-1", 0, domain.TruckStatusAvailable)

			_, err := f.maintenances.Create(context.Background(), tt.in)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) || !ve.Has(tt.wantField) {
				t.Fatalf("expected a violation on %s, got %v", tt.wantField, err)
			}
			if f.repos.Maintenances.CountMaintenances() != 0 {
				t.Error("expected nothing to be stored")
			}
		})
	}
}

func TestCreateMaintenance_TireOnlyInheritsTruck(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-1", TruckID: "truck-1", Position: domain.TirePositionFrontLeft})

	m, err := f.maintenances.Create(context.Background(), service.MaintenanceInput{
		Type:   ptr(domain.MaintenanceTypeTire),
		TireID: ptr("tire-1"),
		Cost:   ptr(320.0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TruckID != "truck-1" {
		t.Errorf("expected truck-1 to be inherited, got %q", m.TruckID)
	}
	if m.Status != domain.MaintenanceStatusPlanned {
		t.Errorf("expected PLANNED, got %s", m.Status)
	}
}

func TestCreateMaintenance_UnknownReferences(t *testing.T) {
	t.Parallel()

	f := newFleet(t)

	_, err := f.maintenances.Create(context.Background(), service.MaintenanceInput{
		Type:    ptr(domain.MaintenanceTypeOilChange),
		TruckID: ptr("missing"),
	})
	if !errors.Is(err, service.ErrTruckNotFound) {
		t.Errorf("expected ErrTruckNotFound, got %v", err)
	}

	_, err = f.maintenances.Create(context.Background(), service.MaintenanceInput{
		Type:   ptr(domain.MaintenanceTypeTire),
		TireID: ptr("missing"),
	})
	if !errors.Is(err, service.ErrTireNotFound) {
		t.Errorf("expected ErrTireNotFound, got %v", err)
	}
}

func TestMaintenanceWorkflow_StartAndFinish(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	truck := f.addTruck("truck-1", 48000, domain.TruckStatusAvailable)
	truck.MaintenanceAlerts = []domain.MaintenanceAlert{
		{Type: domain.MaintenanceTypeOilChange, Level: domain.AlertLevelCritical},
		{Type: domain.MaintenanceTypeBrake, Level: domain.AlertLevelWarning},
	}
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{
		ID:      "m-1",
		Type:    domain.MaintenanceTypeOilChange,
		Status:  domain.MaintenanceStatusPlanned,
		TruckID: "truck-1",
	})

	ctx := context.Background()

	started, err := f.maintenances.Start(ctx, "m-1")
	if err != nil {
		t.Fatalf("start: unexpected error: %v", err)
	}
	if started.Status != domain.MaintenanceStatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", started.Status)
	}
	if started.OdometerAtIntervention == nil || *started.OdometerAtIntervention != 48000 {
		t.Errorf("expected odometer 48000 to be recorded, got %v", started.OdometerAtIntervention)
	}
	if got := f.repos.Trucks.GetTruck("truck-1").Status; got != domain.TruckStatusMaintenance {
		t.Errorf("expected truck MAINTENANCE, got %s", got)
	}

	finished, err := f.maintenances.Finish(ctx, "m-1")
	if err != nil {
		t.Fatalf("finish: unexpected error: %v", err)
	}
	if finished.Status != domain.MaintenanceStatusDone {
		t.Errorf("expected DONE, got %s", finished.Status)
	}

	stored := f.repos.Trucks.GetTruck("truck-1")
	if stored.Status != domain.TruckStatusAvailable {
		t.Errorf("expected truck AVAILABLE, got %s", stored.Status)
	}
	if len(stored.MaintenanceAlerts) != 1 || stored.MaintenanceAlerts[0].Type != domain.MaintenanceTypeBrake {
		t.Errorf("expected only the brake alert to remain, got %+v", stored.MaintenanceAlerts)
	}
	if got := f.repos.Maintenances.GetMaintenance("m-1").Status; got != domain.MaintenanceStatusDone {
		t.Errorf("expected stored maintenance DONE, got %s", got)
	}
}

func TestMaintenanceStart_BusyTruck(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusOnMission)
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{
		ID:      "m-1",
		Type:    domain.MaintenanceTypeBrake,
		Status:  domain.MaintenanceStatusPlanned,
		TruckID: "truck-1",
	})

	_, err := f.maintenances.Start(context.Background(), "m-1")
	if !errors.Is(err, service.ErrTruckBusy) {
		t.Fatalf("expected ErrTruckBusy, got %v", err)
	}
	if got := f.repos.Maintenances.GetMaintenance("m-1").Status; got != domain.MaintenanceStatusPlanned {
		t.Errorf("expected maintenance to stay PLANNED, got %s", got)
	}
	if got := f.repos.Trucks.GetTruck("truck-1").Status; got != domain.TruckStatusOnMission {
		t.Errorf("expected truck to stay ON_MISSION, got %s", got)
	}
}

func TestMaintenanceFinish_OtherWorkKeepsTruckInMaintenance(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusMaintenance)
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{
		ID:      "m-1",
		Type:    domain.MaintenanceTypeOilChange,
		Status:  domain.MaintenanceStatusInProgress,
		TruckID: "truck-1",
	})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{
		ID:      "m-2",
		Type:    domain.MaintenanceTypeBodywork,
		Status:  domain.MaintenanceStatusInProgress,
		TruckID: "truck-1",
	})

	ctx := context.Background()

	if _, err := f.maintenances.Finish(ctx, "m-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.repos.Trucks.GetTruck("truck-1").Status; got != domain.TruckStatusMaintenance {
		t.Errorf("expected truck to stay MAINTENANCE, got %s", got)
	}

	if _, err := f.maintenances.Cancel(ctx, "m-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.repos.Trucks.GetTruck("truck-1").Status; got != domain.TruckStatusAvailable {
		t.Errorf("expected truck AVAILABLE once all work ended, got %s", got)
	}
}

func TestMaintenanceWorkflow_InvalidTransitions(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "planned", Type: domain.MaintenanceTypeAC, Status: domain.MaintenanceStatusPlanned, TruckID: "truck-1"})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "done", Type: domain.MaintenanceTypeAC, Status: domain.MaintenanceStatusDone, TruckID: "truck-1"})

	ctx := context.Background()

	if _, err := f.maintenances.Finish(ctx, "planned"); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("finish planned: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.maintenances.Start(ctx, "done"); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("start done: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.maintenances.Cancel(ctx, "done"); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("cancel done: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.maintenances.Start(ctx, "missing"); !errors.Is(err, service.ErrMaintenanceNotFound) {
		t.Errorf("start missing: expected ErrMaintenanceNotFound, got %v", err)
	}

	cancelled, err := f.maintenances.Cancel(ctx, "planned")
	if err != nil {
		t.Fatalf("cancel planned: unexpected error: %v", err)
	}
	if cancelled.Status != domain.MaintenanceStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if got := f.repos.Trucks.GetTruck("truck-1").Status; got != domain.TruckStatusAvailable {
		t.Errorf("expected truck untouched, got %s", got)
	}
}

func TestMaintenanceUpdate_KeepsStatus(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-1", Type: domain.MaintenanceTypeOther, Status: domain.MaintenanceStatusPlanned, TruckID: "truck-1"})

	m, err := f.maintenances.Update(context.Background(), "m-1", service.MaintenanceInput{
		Description: ptr("replace mirror"),
		Cost:        ptr(90.0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Description != "replace mirror" || m.Cost != 90 {
		t.Errorf("expected patch to be applied, got %+v", m)
	}
	if m.Status != domain.MaintenanceStatusPlanned {
		t.Errorf("expected status to be unchanged, got %s", m.Status)
	}
}

func TestMaintenanceStats(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.stats.TruckCost["truck-1"] = &repository.TruckCostStats{TruckID: "truck-1", Count: 3, TotalCost: 900, AverageCost: 300}
	f.stats.TypeStats = []repository.MaintenanceTypeStats{
		{Type: domain.MaintenanceTypeOilChange, Count: 2, TotalCost: 400, AverageCost: 200},
	}

	r := repository.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	ctx := context.Background()

	cost, err := f.maintenances.CostByTruck(ctx, "truck-1", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost.TotalCost != 900 || cost.Count != 3 {
		t.Errorf("unexpected cost stats: %+v", cost)
	}
	if f.stats.LastRange != r {
		t.Errorf("expected range to be passed through, got %+v", f.stats.LastRange)
	}

	if _, err := f.maintenances.CostByTruck(ctx, "missing", r); !errors.Is(err, service.ErrTruckNotFound) {
		t.Errorf("expected ErrTruckNotFound, got %v", err)
	}

	byType, err := f.maintenances.StatsByType(ctx, repository.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byType) != 1 || byType[0].Type != domain.MaintenanceTypeOilChange {
		t.Errorf("unexpected type stats: %+v", byType)
	}
}

func TestMaintenanceDelete_ReleasesTruckWhenInProgress(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	ctx := context.Background()

	m, err := f.maintenances.Create(ctx, service.MaintenanceInput{
		Type:    ptr(domain.MaintenanceTypeBrake),
		TruckID: ptr("truck-1"),
	})
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}
	if _, err := f.maintenances.Start(ctx, m.ID); err != nil {
		t.Fatalf("start: unexpected error: %v", err)
	}

	deleted, err := f.maintenances.Delete(ctx, m.ID)
	if err != nil {
		t.Fatalf("delete: unexpected error: %v", err)
	}
	if deleted.ID != m.ID {
		t.Errorf("expected the deleted maintenance to be returned, got %s", deleted.ID)
	}
	if f.repos.Maintenances.GetMaintenance(m.ID) != nil {
		t.Error("expected the maintenance to be removed")
	}
	if got := f.repos.Trucks.GetTruck("truck-1").Status; got != domain.TruckStatusAvailable {
		t.Errorf("expected truck AVAILABLE after delete, got %s", got)
	}

	f.addDriver("driver-1")
	if _, err := f.trips.CreateTrip(ctx, service.CreateTripRequest{
		DriverID:    "driver-1",
		TruckID:     "truck-1",
		Origin:      "Casablanca",
		Destination: "Rabat",
	}); err != nil {
		t.Errorf("expected the released truck to take a trip: %v", err)
	}
}

func TestMaintenanceDelete_KeepsTruckHeldByOtherWork(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusMaintenance)
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-1", Type: domain.MaintenanceTypeBrake, Status: domain.MaintenanceStatusInProgress, TruckID: "truck-1"})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-2", Type: domain.MaintenanceTypeAC, Status: domain.MaintenanceStatusInProgress, TruckID: "truck-1"})

	if _, err := f.maintenances.Delete(context.Background(), "m-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.repos.Trucks.GetTruck("truck-1").Status; got != domain.TruckStatusMaintenance {
		t.Errorf("expected truck to stay MAINTENANCE, got %s", got)
	}

	if _, err := f.maintenances.Delete(context.Background(), "m-1"); !errors.Is(err, service.ErrMaintenanceNotFound) {
		t.Errorf("expected ErrMaintenanceNotFound, got %v", err)
	}
}

func TestMaintenanceUpdate_ReferencesLockedOnceStarted(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusMaintenance)
	f.addTruck("truck-2", 0, domain.TruckStatusAvailable)
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-1", Type: domain.MaintenanceTypeBrake, Status: domain.MaintenanceStatusInProgress, TruckID: "truck-1"})
	ctx := context.Background()

	_, err := f.maintenances.Update(ctx, "m-1", service.MaintenanceInput{TruckID: ptr("truck-2")})
	if !errors.Is(err, service.ErrMaintenanceStarted) {
		t.Fatalf("expected ErrMaintenanceStarted, got %v", err)
	}
	if got := f.repos.Maintenances.GetMaintenance("m-1").TruckID; got != "truck-1" {
		t.Errorf("expected truck-1 to be kept, got %s", got)
	}

	m, err := f.maintenances.Update(ctx, "m-1", service.MaintenanceInput{TruckID: ptr("truck-1"), Cost: ptr(150.0)})
	if err != nil {
		t.Fatalf("expected an unchanged reference to be accepted: %v", err)
	}
	if m.Cost != 150 {
		t.Errorf("expected cost 150, got %v", m.Cost)
	}
}

func TestMaintenance_TireMustBelongToTruck(t *testing.T) {
	t.Parallel()

	f := newFleet(t)
	f.addTruck("truck-1", 0, domain.TruckStatusAvailable)
	f.addTruck("truck-2", 0, domain.TruckStatusAvailable)
	f.repos.Tires.AddTire(&domain.Tire{ID: "tire-2", TruckID: "truck-2", Position: domain.TirePositionFrontLeft})
	f.repos.Maintenances.AddMaintenance(&domain.Maintenance{ID: "m-1", Type: domain.MaintenanceTypeBrake, Status: domain.MaintenanceStatusPlanned, TruckID: "truck-1"})
	ctx := context.Background()

	_, err := f.maintenances.Create(ctx, service.MaintenanceInput{
		Type:    ptr(domain.MaintenanceTypeTire),
		TruckID: ptr("truck-1"),
		TireID:  ptr("tire-2"),
	})
	if !errors.Is(err, service.ErrTireNotOnTruck) {
		t.Errorf("create: expected ErrTireNotOnTruck, got %v", err)
	}

	_, err = f.maintenances.Update(ctx, "m-1", service.MaintenanceInput{TireID: ptr("tire-2")})
	if !errors.Is(err, service.ErrTireNotOnTruck) {
		t.Errorf("update: expected ErrTireNotOnTruck, got %v", err)
	}

	m, err := f.maintenances.Update(ctx, "m-1", service.MaintenanceInput{TruckID: ptr("truck-2"), TireID: ptr("tire-2")})
	if err != nil {
		t.Fatalf("expected a planned maintenance to move with its tire: %v", err)
	}
	if m.TruckID != "truck-2" || m.TireID != "tire-2" {
		t.Errorf("unexpected references: truck=%s tire=%s", m.TruckID, m.TireID)
	}
}

package domain

import (
	"strings"
	"testing"
	"time"
)

func ptr(f float64) *float64 { return &f }

func TestValidateMaintenance_TireTypeRequiresTire(t *testing.T) {
	t.Parallel()

	m := &Maintenance{
		Type:    MaintenanceTypeTire,
		Status:  MaintenanceStatusPlanned,
		TruckID: "truck-1",
	}

	err := ValidateMaintenance(m)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "tire required") {
		t.Errorf("expected message to mention tire required, got %q", err.Error())
	}
}

func TestValidateMaintenance_ReportsEveryField(t *testing.T) {
	t.Parallel()

	m := &Maintenance{
		Type:                   "PAINT",
		Status:                 MaintenanceStatusPlanned,
		Cost:                   -5,
		OdometerAtIntervention: ptr(1000),
		NextDueOdometer:        ptr(900),
	}

	err := ValidateMaintenance(m)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	for _, field := range []string{"type", "cost", "truckId", "nextDueOdometer"} {
		if !ve.Has(field) {
			t.Errorf("expected violation on %s, got %v", field, ve.Fields)
		}
	}
}

func TestValidateTrip_EndOdometerCheckedOnlyWhenDone(t *testing.T) {
	t.Parallel()

	base := Trip{
		DriverID:      "driver-1",
		TruckID:       "truck-1",
		Origin:        "Casablanca",
		Destination:   "Rabat",
		StartOdometer: 5000,
		EndOdometer:   ptr(4000),
		StartDate:     time.Now(),
	}

	inProgress := base
	inProgress.Status = TripStatusInProgress
	if err := ValidateTrip(&inProgress); err != nil {
		t.Errorf("expected no error while in progress, got %v", err)
	}

	done := base
	done.Status = TripStatusDone
	if err := ValidateTrip(&done); err == nil {
		t.Error("expected error for done trip with end odometer below start")
	}
}

func TestValidateTire_WearBounds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		wear    float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"full", 100, false},
		{"negative", -1, true},
		{"over", 101, true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tire := &Tire{TruckID: "truck-1", Position: TirePositionFrontLeft, Wear: tc.wear}
			err := ValidateTire(tire)
			if (err != nil) != tc.wantErr {
				t.Errorf("wear %v: wantErr=%v, got %v", tc.wear, tc.wantErr, err)
			}
		})
	}
}

func TestTripStatus_Transitions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		from, to TripStatus
		want     bool
	}{
		{TripStatusPlanned, TripStatusInProgress, true},
		{TripStatusPlanned, TripStatusCancelled, true},
		{TripStatusPlanned, TripStatusDone, false},
		{TripStatusInProgress, TripStatusDone, true},
		{TripStatusInProgress, TripStatusCancelled, true},
		{TripStatusInProgress, TripStatusPlanned, false},
		{TripStatusDone, TripStatusCancelled, false},
		{TripStatusCancelled, TripStatusInProgress, false},
	}

	for _, tc := range testCases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestFuelLog_PricePerLiterAlwaysDerived(t *testing.T) {
	t.Parallel()

	f := &FuelLog{Liters: 40, TotalPrice: 100, PricePerLiter: 999}
	f.ComputePricePerLiter()
	if f.PricePerLiter != 2.5 {
		t.Errorf("expected 2.5, got %v", f.PricePerLiter)
	}

	f = &FuelLog{Liters: 0, TotalPrice: 100, PricePerLiter: 3}
	f.ComputePricePerLiter()
	if f.PricePerLiter != 0 {
		t.Errorf("expected 0 for zero liters, got %v", f.PricePerLiter)
	}
}

func TestRefreshToken_IsActive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	testCases := []struct {
		name  string
		token RefreshToken
		want  bool
	}{
		{"active", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), Revoked: true}, false},
		{"expired", RefreshToken{ExpiresAt: now.Add(-time.Second)}, false},
		{"expires now", RefreshToken{ExpiresAt: now}, false},
	}

	for _, tc := range testCases {
		if got := tc.token.IsActive(now); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

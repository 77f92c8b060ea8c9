package service

import (
	"testing"

	"fleet/internal/domain"
)

func float(v float64) *float64 { return &v }

func findAlert(alerts []domain.MaintenanceAlert, t domain.MaintenanceType) *domain.MaintenanceAlert {
	for i := range alerts {
		if alerts[i].Type == t {
			return &alerts[i]
		}
	}
	return nil
}

func TestEvaluateAlertsIntervals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		odometer  float64
		last      map[domain.MaintenanceType]float64
		wantType  domain.MaintenanceType
		wantLevel domain.AlertLevel // empty means no alert
	}{
		{name: "oil fresh", odometer: 5000, wantType: domain.MaintenanceTypeOilChange},
		{name: "oil warning", odometer: 9000, wantType: domain.MaintenanceTypeOilChange, wantLevel: domain.AlertLevelWarning},
		{name: "oil critical", odometer: 10000, wantType: domain.MaintenanceTypeOilChange, wantLevel: domain.AlertLevelCritical},
		{
			name:     "oil reset by last service",
			odometer: 25000,
			last:     map[domain.MaintenanceType]float64{domain.MaintenanceTypeOilChange: 20000},
			wantType: domain.MaintenanceTypeOilChange,
		},
		{name: "brake warning", odometer: 27500, wantType: domain.MaintenanceTypeBrake, wantLevel: domain.AlertLevelWarning},
		{name: "overhaul critical", odometer: 120000, wantType: domain.MaintenanceTypeOverhaul, wantLevel: domain.AlertLevelCritical},
		{name: "transmission quiet", odometer: 50000, wantType: domain.MaintenanceTypeTransmission},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			truck := &domain.Truck{ID: "t1", CurrentOdometer: tt.odometer}
			alerts := EvaluateAlerts(truck, tt.last, nil)
			got := findAlert(alerts, tt.wantType)

			if tt.wantLevel == "" {
				if got != nil {
					t.Errorf("expected no %s alert, got %+v", tt.wantType, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s alert, got none", tt.wantType)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("expected level %s, got %s", tt.wantLevel, got.Level)
			}
		})
	}
}

func TestEvaluateAlertsPlannedDue(t *testing.T) {
	t.Parallel()

	truck := &domain.Truck{ID: "t1", CurrentOdometer: 1000}
	planned := []*domain.Maintenance{
		{Type: domain.MaintenanceTypeAC, Status: domain.MaintenanceStatusPlanned, NextDueOdometer: float(900)},
		{Type: domain.MaintenanceTypeElectrical, Status: domain.MaintenanceStatusPlanned, NextDueOdometer: float(5000)},
		{Type: domain.MaintenanceTypeBodywork, Status: domain.MaintenanceStatusDone, NextDueOdometer: float(500)},
	}

	alerts := EvaluateAlerts(truck, nil, planned)

	if a := findAlert(alerts, domain.MaintenanceTypeAC); a == nil || a.Level != domain.AlertLevelCritical {
		t.Errorf("expected critical AC alert, got %+v", a)
	}
	if a := findAlert(alerts, domain.MaintenanceTypeElectrical); a != nil {
		t.Errorf("expected no electrical alert, got %+v", *a)
	}
	if a := findAlert(alerts, domain.MaintenanceTypeBodywork); a != nil {
		t.Errorf("expected done maintenance to be ignored, got %+v", *a)
	}
}

func TestEvaluateAlertsNeverNil(t *testing.T) {
	t.Parallel()

	alerts := EvaluateAlerts(&domain.Truck{}, nil, nil)
	if alerts == nil || len(alerts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", alerts)
	}
}

func TestDropAlerts(t *testing.T) {
	t.Parallel()

	alerts := []domain.MaintenanceAlert{
		{Type: domain.MaintenanceTypeOilChange},
		{Type: domain.MaintenanceTypeBrake},
		{Type: domain.MaintenanceTypeOilChange},
	}

	kept := dropAlerts(alerts, domain.MaintenanceTypeOilChange)
	if len(kept) != 1 || kept[0].Type != domain.MaintenanceTypeBrake {
		t.Errorf("unexpected alerts %+v", kept)
	}
}

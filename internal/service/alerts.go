package service

import (
	"fmt"

	"fleet/internal/domain"
)

// maintenanceInterval is the distance after which a service type is due.
type maintenanceInterval struct {
	Type domain.MaintenanceType
	KM   float64
}

// maintenanceIntervals lists the distance-based service schedule.
var maintenanceIntervals = []maintenanceInterval{
	{Type: domain.MaintenanceTypeOilChange, KM: 10000},
	{Type: domain.MaintenanceTypeBrake, KM: 30000},
	{Type: domain.MaintenanceTypeTire, KM: 40000},
	{Type: domain.MaintenanceTypeTransmission, KM: 60000},
	{Type: domain.MaintenanceTypeOverhaul, KM: 100000},
}

// warningRatio is the share of an interval after which a WARNING is raised.
const warningRatio = 0.9

// EvaluateAlerts computes the maintenance alerts of a truck at its current
// odometer. lastService holds, per type, the odometer of the last DONE
// maintenance; a missing type counts from zero. Planned maintenances whose
// nextDueOdometer has been reached are reported as CRITICAL.
func EvaluateAlerts(truck *domain.Truck, lastService map[domain.MaintenanceType]float64, planned []*domain.Maintenance) []domain.MaintenanceAlert {
	alerts := []domain.MaintenanceAlert{}
	odometer := truck.CurrentOdometer

	for _, interval := range maintenanceIntervals {
		since := odometer - lastService[interval.Type]
		if since < 0 {
			since = 0
		}

		switch {
		case since >= interval.KM:
			alerts = append(alerts, domain.MaintenanceAlert{
				Type:      interval.Type,
				Level:     domain.AlertLevelCritical,
				Message:   fmt.Sprintf("%s overdue: %.0f km since last service (every %.0f km)", interval.Type, since, interval.KM),
				Threshold: interval.KM,
			})
		case since >= interval.KM*warningRatio:
			alerts = append(alerts, domain.MaintenanceAlert{
				Type:      interval.Type,
				Level:     domain.AlertLevelWarning,
				Message:   fmt.Sprintf("%s due soon: %.0f km left", interval.Type, interval.KM-since),
				Threshold: interval.KM,
			})
		}
	}

	for _, m := range planned {
		if m.Status != domain.MaintenanceStatusPlanned || m.NextDueOdometer == nil {
			continue
		}
		if *m.NextDueOdometer <= odometer {
			alerts = append(alerts, domain.MaintenanceAlert{
				Type:      m.Type,
				Level:     domain.AlertLevelCritical,
				Message:   fmt.Sprintf("planned %s maintenance was due at %.0f km", m.Type, *m.NextDueOdometer),
				Threshold: *m.NextDueOdometer,
			})
		}
	}

	return alerts
}

// dropAlerts returns alerts without those of type t.
func dropAlerts(alerts []domain.MaintenanceAlert, t domain.MaintenanceType) []domain.MaintenanceAlert {
	kept := make([]domain.MaintenanceAlert, 0, len(alerts))
	for _, a := range alerts {
		if a.Type != t {
			kept = append(kept, a)
		}
	}
	return kept
}

package domain

import "time"

// TruckStatus represents the availability of a truck.
type TruckStatus string

const (
	TruckStatusAvailable   TruckStatus = "AVAILABLE"
	TruckStatusOnMission   TruckStatus = "ON_MISSION"
	TruckStatusOnTrip      TruckStatus = "ON_TRIP"
	TruckStatusMaintenance TruckStatus = "MAINTENANCE"
)

// AlertLevel represents how urgent a maintenance alert is.
type AlertLevel string

const (
	AlertLevelWarning  AlertLevel = "WARNING"
	AlertLevelCritical AlertLevel = "CRITICAL"
)

// MaintenanceAlert is an informational alert raised against a truck.
type MaintenanceAlert struct {
	Type      MaintenanceType `json:"type"`
	Level     AlertLevel      `json:"level"`
	Message   string          `json:"message"`
	Threshold float64         `json:"threshold"`
}

// Truck represents a tractor unit in the fleet.
type Truck struct {
	ID                string
	Plate             string      `validate:"required,max=20"`
	Make              string      `validate:"required"`
	Model             string      `validate:"required"`
	TankCapacity      float64     `validate:"gte=0"`
	CurrentOdometer   float64     `validate:"gte=0"`
	Status            TruckStatus `validate:"oneof=AVAILABLE ON_MISSION ON_TRIP MAINTENANCE"`
	MaintenanceAlerts []MaintenanceAlert
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsBusy reports whether the truck is reserved or driving for a trip.
func (t *Truck) IsBusy() bool {
	return t.Status == TruckStatusOnMission || t.Status == TruckStatusOnTrip
}

// TruckSummary is the subset of a truck embedded in populated trips.
type TruckSummary struct {
	ID    string
	Plate string
	Make  string
	Model string
}

// Summary returns the populated view of the truck.
func (t *Truck) Summary() *TruckSummary {
	return &TruckSummary{ID: t.ID, Plate: t.Plate, Make: t.Make, Model: t.Model}
}

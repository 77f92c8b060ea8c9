package domain

import "time"

// MaintenanceType represents the kind of service performed.
type MaintenanceType string

const (
	MaintenanceTypeOilChange    MaintenanceType = "OIL_CHANGE"
	MaintenanceTypeTire         MaintenanceType = "TIRE"
	MaintenanceTypeOverhaul     MaintenanceType = "OVERHAUL"
	MaintenanceTypeBrake        MaintenanceType = "BRAKE"
	MaintenanceTypeTransmission MaintenanceType = "TRANSMISSION"
	MaintenanceTypeSuspension   MaintenanceType = "SUSPENSION"
	MaintenanceTypeAC           MaintenanceType = "AC"
	MaintenanceTypeElectrical   MaintenanceType = "ELECTRICAL"
	MaintenanceTypeBodywork     MaintenanceType = "BODYWORK"
	MaintenanceTypeOther        MaintenanceType = "OTHER"
)

// MaintenanceStatus represents the workflow state of a maintenance.
type MaintenanceStatus string

const (
	MaintenanceStatusPlanned    MaintenanceStatus = "PLANNED"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusDone       MaintenanceStatus = "DONE"
	MaintenanceStatusCancelled  MaintenanceStatus = "CANCELLED"
)

// Maintenance is a service action tied to a truck, a tire, or both.
type Maintenance struct {
	ID                     string
	Type                   MaintenanceType   `validate:"oneof=OIL_CHANGE TIRE OVERHAUL BRAKE TRANSMISSION SUSPENSION AC ELECTRICAL BODYWORK OTHER"`
	Description            string            `validate:"max=2000"`
	Cost                   float64           `validate:"gte=0"`
	Date                   time.Time
	Status                 MaintenanceStatus `validate:"oneof=PLANNED IN_PROGRESS DONE CANCELLED"`
	TruckID                string
	TireID                 string
	ReplacedParts          []string
	OdometerAtIntervention *float64 `validate:"omitnil,gte=0"`
	NextDueOdometer        *float64 `validate:"omitnil,gte=0"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

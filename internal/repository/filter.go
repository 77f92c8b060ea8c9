package repository

import "time"

// DateRange bounds a query by date. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// TripFilter narrows trip listings. Empty fields are ignored.
type TripFilter struct {
	Status    string
	DriverID  string
	TruckID   string
	TrailerID string
	Range     DateRange
}

// MaintenanceFilter narrows maintenance listings. Empty fields are ignored.
type MaintenanceFilter struct {
	Status  string
	Type    string
	TruckID string
	TireID  string
	Range   DateRange
}

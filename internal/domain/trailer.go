package domain

import "time"

// TrailerType represents the body type of a trailer.
type TrailerType string

const (
	TrailerTypeRefrigerated TrailerType = "REFRIGERATED"
	TrailerTypeDump         TrailerType = "DUMP"
	TrailerTypeFlatbed      TrailerType = "FLATBED"
	TrailerTypeTanker       TrailerType = "TANKER"
	TrailerTypeContainer    TrailerType = "CONTAINER"
)

// TrailerStatus represents the availability of a trailer.
// It mirrors TruckStatus so trip creation can reserve both the same way.
type TrailerStatus string

const (
	TrailerStatusAvailable   TrailerStatus = "AVAILABLE"
	TrailerStatusOnMission   TrailerStatus = "ON_MISSION"
	TrailerStatusOnTrip      TrailerStatus = "ON_TRIP"
	TrailerStatusMaintenance TrailerStatus = "MAINTENANCE"
)

// Trailer represents a towed unit in the fleet.
type Trailer struct {
	ID        string
	Plate     string        `validate:"required,max=20"`
	Type      TrailerType   `validate:"oneof=REFRIGERATED DUMP FLATBED TANKER CONTAINER"`
	Status    TrailerStatus `validate:"oneof=AVAILABLE ON_MISSION ON_TRIP MAINTENANCE"`
	Capacity  float64       `validate:"gte=0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrailerSummary is the subset of a trailer embedded in populated trips.
type TrailerSummary struct {
	ID    string
	Plate string
	Type  TrailerType
}

// Summary returns the populated view of the trailer.
func (t *Trailer) Summary() *TrailerSummary {
	return &TrailerSummary{ID: t.ID, Plate: t.Plate, Type: t.Type}
}

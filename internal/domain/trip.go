package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPlanned    TripStatus = "PLANNED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusDone       TripStatus = "DONE"
	TripStatusCancelled  TripStatus = "CANCELLED"
)

// tripTransitions lists the legal next states for each trip status.
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusPlanned:    {TripStatusInProgress, TripStatusCancelled},
	TripStatusInProgress: {TripStatusDone, TripStatusCancelled},
}

// CanTransition reports whether a trip may move from one status to another.
func (s TripStatus) CanTransition(next TripStatus) bool {
	for _, allowed := range tripTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsAssets reports whether a trip in this status keeps its truck and trailer reserved.
func (s TripStatus) HoldsAssets() bool {
	return s == TripStatusPlanned || s == TripStatusInProgress
}

// Trip is a haul assignment linking a driver, a truck and an optional trailer.
type Trip struct {
	ID            string
	DriverID      string `validate:"required"`
	TruckID       string `validate:"required"`
	TrailerID     string
	Status        TripStatus `validate:"oneof=PLANNED IN_PROGRESS DONE CANCELLED"`
	Origin        string     `validate:"required"`
	Destination   string     `validate:"required"`
	StartOdometer float64    `validate:"gte=0"`
	EndOdometer   *float64   `validate:"omitnil,gte=0"`
	StartDate     time.Time
	EndDate       time.Time
	RemainingFuel *float64 `validate:"omitnil,gte=0"`
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated on reads; nil when the referenced record no longer exists.
	Driver  *UserSummary
	Truck   *TruckSummary
	Trailer *TrailerSummary
}

// Distance returns the odometer distance covered, or 0 while unfinished.
func (t *Trip) Distance() float64 {
	if t.EndOdometer == nil || *t.EndOdometer < t.StartOdometer {
		return 0
	}
	return *t.EndOdometer - t.StartOdometer
}

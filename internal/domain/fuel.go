package domain

import (
	"math"
	"time"
)

// FuelLog is a refuelling entry recorded during a trip.
type FuelLog struct {
	ID            string
	TripID        string  `validate:"required"`
	Liters        float64 `validate:"gte=0"`
	TotalPrice    float64 `validate:"gte=0"`
	PricePerLiter float64
	Station       string
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComputePricePerLiter derives PricePerLiter from TotalPrice and Liters,
// overwriting whatever value was set before.
func (f *FuelLog) ComputePricePerLiter() {
	if f.Liters <= 0 {
		f.PricePerLiter = 0
		return
	}
	f.PricePerLiter = math.Round(f.TotalPrice/f.Liters*1000) / 1000
}

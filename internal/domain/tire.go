package domain

import "time"

// TirePosition is one of the six fixed wheel slots of a truck.
type TirePosition string

const (
	TirePositionFrontLeft      TirePosition = "FRONT_LEFT"
	TirePositionFrontRight     TirePosition = "FRONT_RIGHT"
	TirePositionRearLeftOuter  TirePosition = "REAR_LEFT_OUTER"
	TirePositionRearLeftInner  TirePosition = "REAR_LEFT_INNER"
	TirePositionRearRightOuter TirePosition = "REAR_RIGHT_OUTER"
	TirePositionRearRightInner TirePosition = "REAR_RIGHT_INNER"
)

// Tire represents a tire mounted on a truck.
type Tire struct {
	ID          string
	TruckID     string       `validate:"required"`
	Position    TirePosition `validate:"oneof=FRONT_LEFT FRONT_RIGHT REAR_LEFT_OUTER REAR_LEFT_INNER REAR_RIGHT_OUTER REAR_RIGHT_INNER"`
	Wear        float64      `validate:"gte=0,lte=100"`
	InstallDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package handler

import (
	"time"

	"fleet/internal/domain"
)

// TruckResponse is the HTTP representation of a truck.
type TruckResponse struct {
	ID                string                    `json:"id"`
	Plate             string                    `json:"plate"`
	Make              string                    `json:"make"`
	Model             string                    `json:"model"`
	TankCapacity      float64                   `json:"tankCapacity"`
	CurrentOdometer   float64                   `json:"currentOdometer"`
	Status            domain.TruckStatus        `json:"status"`
	MaintenanceAlerts []domain.MaintenanceAlert `json:"maintenanceAlerts"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

func newTruckResponse(t *domain.Truck) TruckResponse {
	alerts := t.MaintenanceAlerts
	if alerts == nil {
		alerts = []domain.MaintenanceAlert{}
	}
	return TruckResponse{
		ID:                t.ID,
		Plate:             t.Plate,
		Make:              t.Make,
		Model:             t.Model,
		TankCapacity:      t.TankCapacity,
		CurrentOdometer:   t.CurrentOdometer,
		Status:            t.Status,
		MaintenanceAlerts: alerts,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// TrailerResponse is the HTTP representation of a trailer.
type TrailerResponse struct {
	ID        string               `json:"id"`
	Plate     string               `json:"plate"`
	Type      domain.TrailerType   `json:"type"`
	Status    domain.TrailerStatus `json:"status"`
	Capacity  float64              `json:"capacity"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func newTrailerResponse(t *domain.Trailer) TrailerResponse {
	return TrailerResponse{
		ID:        t.ID,
		Plate:     t.Plate,
		Type:      t.Type,
		Status:    t.Status,
		Capacity:  t.Capacity,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TireResponse is the HTTP representation of a tire.
type TireResponse struct {
	ID          string              `json:"id"`
	TruckID     string              `json:"truckId"`
	Position    domain.TirePosition `json:"position"`
	Wear        float64             `json:"wear"`
	InstallDate time.Time           `json:"installDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func newTireResponse(t *domain.Tire) TireResponse {
	return TireResponse{
		ID:          t.ID,
		TruckID:     t.TruckID,
		Position:    t.Position,
		Wear:        t.Wear,
		InstallDate: t.InstallDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// MaintenanceResponse is the HTTP representation of a maintenance.
type MaintenanceResponse struct {
	ID                     string                   `json:"id"`
	Type                   domain.MaintenanceType   `json:"type"`
	Description            string                   `json:"description"`
	Cost                   float64                  `json:"cost"`
	Date                   time.Time                `json:"date"`
	Status                 domain.MaintenanceStatus `json:"status"`
	TruckID                string                   `json:"truckId,omitempty"`
	TireID                 string                   `json:"tireId,omitempty"`
	ReplacedParts          []string                 `json:"replacedParts"`
	OdometerAtIntervention *float64                 `json:"odometerAtIntervention,omitempty"`
	NextDueOdometer        *float64                 `json:"nextDueOdometer,omitempty"`
	CreatedAt              time.Time                `json:"createdAt"`
	UpdatedAt              time.Time                `json:"updatedAt"`
}

func newMaintenanceResponse(m *domain.Maintenance) MaintenanceResponse {
	parts := m.ReplacedParts
	if parts == nil {
		parts = []string{}
	}
	return MaintenanceResponse{
		ID:                     m.ID,
		Type:                   m.Type,
		Description:            m.Description,
		Cost:                   m.Cost,
		Date:                   m.Date,
		Status:                 m.Status,
		TruckID:                m.TruckID,
		TireID:                 m.TireID,
		ReplacedParts:          parts,
		OdometerAtIntervention: m.OdometerAtIntervention,
		NextDueOdometer:        m.NextDueOdometer,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// FuelLogResponse is the HTTP representation of a fuel log.
type FuelLogResponse struct {
	ID            string    `json:"id"`
	TripID        string    `json:"tripId"`
	Liters        float64   `json:"liters"`
	TotalPrice    float64   `json:"totalPrice"`
	PricePerLiter float64   `json:"pricePerLiter"`
	Station       string    `json:"station,omitempty"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newFuelLogResponse(f *domain.FuelLog) FuelLogResponse {
	return FuelLogResponse{
		ID:            f.ID,
		TripID:        f.TripID,
		Liters:        f.Liters,
		TotalPrice:    f.TotalPrice,
		PricePerLiter: f.PricePerLiter,
		Station:       f.Station,
		Date:          f.Date,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// UserSummaryResponse is the driver embedded in a trip.
type UserSummaryResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// TruckSummaryResponse is the truck embedded in a trip.
type TruckSummaryResponse struct {
	ID    string `json:"id"`
	Plate string `json:"plate"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// TrailerSummaryResponse is the trailer embedded in a trip.
type TrailerSummaryResponse struct {
	ID    string             `json:"id"`
	Plate string             `json:"plate"`
	Type  domain.TrailerType `json:"type"`
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID            string                  `json:"id"`
	DriverID      string                  `json:"driverId"`
	TruckID       string                  `json:"truckId"`
	TrailerID     string                  `json:"trailerId,omitempty"`
	Status        domain.TripStatus       `json:"status"`
	Origin        string                  `json:"origin"`
	Destination   string                  `json:"destination"`
	StartOdometer float64                 `json:"startOdometer"`
	EndOdometer   *float64                `json:"endOdometer,omitempty"`
	Distance      float64                 `json:"distance"`
	StartDate     time.Time               `json:"startDate"`
	EndDate       *time.Time              `json:"endDate,omitempty"`
	RemainingFuel *float64                `json:"remainingFuel,omitempty"`
	Notes         string                  `json:"notes,omitempty"`
	Driver        *UserSummaryResponse    `json:"driver,omitempty"`
	Truck         *TruckSummaryResponse   `json:"truck,omitempty"`
	Trailer       *TrailerSummaryResponse `json:"trailer,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

func newTripResponse(t *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:            t.ID,
		DriverID:      t.DriverID,
		TruckID:       t.TruckID,
		TrailerID:     t.TrailerID,
		Status:        t.Status,
		Origin:        t.Origin,
		Destination:   t.Destination,
		StartOdometer: t.StartOdometer,
		EndOdometer:   t.EndOdometer,
		Distance:      t.Distance(),
		StartDate:     t.StartDate,
		EndDate:       timePtr(t.EndDate),
		RemainingFuel: t.RemainingFuel,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if d := t.Driver; d != nil {
		resp.Driver = &UserSummaryResponse{ID: d.ID, FullName: d.FullName, Email: d.Email, Phone: d.Phone}
	}
	if tk := t.Truck; tk != nil {
		resp.Truck = &TruckSummaryResponse{ID: tk.ID, Plate: tk.Plate, Make: tk.Make, Model: tk.Model}
	}
	if tr := t.Trailer; tr != nil {
		resp.Trailer = &TrailerSummaryResponse{ID: tr.ID, Plate: tr.Plate, Type: tr.Type}
	}
	return resp
}

// UserResponse is the HTTP representation of a user. It never carries the password hash.
type UserResponse struct {
	ID            string      `json:"id"`
	FullName      string      `json:"fullName"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	Phone         string      `json:"phone,omitempty"`
	HireDate      *time.Time  `json:"hireDate,omitempty"`
	LicenseNumber string      `json:"licenseNumber,omitempty"`
	LicenseExpiry *time.Time  `json:"licenseExpiry,omitempty"`
	ProfileImage  string      `json:"profileImage,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		Role:          u.Role,
		Phone:         u.Phone,
		HireDate:      timePtr(u.HireDate),
		LicenseNumber: u.LicenseNumber,
		LicenseExpiry: timePtr(u.LicenseExpiry),
		ProfileImage:  u.ProfileImage,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func mapAll[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

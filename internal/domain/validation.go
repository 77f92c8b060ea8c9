package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every constraint violated by an entity.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field already has a violation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when nothing was recorded, so callers can return it directly.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError returns a ValidationError with a single violation.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// checkStruct runs the tag rules of v and converts failures into a ValidationError.
func checkStruct(v any) *ValidationError {
	out := &ValidationError{}
	err := validate.Struct(v)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("_", err.Error())
		return out
	}

	for _, fe := range verrs {
		out.Add(lowerFirst(fe.StructField()), describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// ValidateTruck checks a truck before it is persisted.
func ValidateTruck(t *Truck) error {
	return checkStruct(t).Err()
}

// ValidateTrailer checks a trailer before it is persisted.
func ValidateTrailer(t *Trailer) error {
	return checkStruct(t).Err()
}

// ValidateTire checks a tire before it is persisted.
func ValidateTire(t *Tire) error {
	return checkStruct(t).Err()
}

// ValidateMaintenance checks a maintenance, including the conditional
// reference rules: at least one of truck or tire, and a tire for TIRE work.
func ValidateMaintenance(m *Maintenance) error {
	v := checkStruct(m)

	if m.TruckID == "" && m.TireID == "" {
		v.Add("truckId", "truck or tire required")
	}
	if m.Type == MaintenanceTypeTire && m.TireID == "" {
		v.Add("tireId", "tire required")
	}
	if m.OdometerAtIntervention != nil && m.NextDueOdometer != nil &&
		*m.NextDueOdometer <= *m.OdometerAtIntervention {
		v.Add("nextDueOdometer", "must be greater than odometerAtIntervention")
	}

	return v.Err()
}

// ValidateFuelLog checks a fuel log before it is persisted.
func ValidateFuelLog(f *FuelLog) error {
	return checkStruct(f).Err()
}

// ValidateTrip checks a trip, including the status-dependent odometer rule.
func ValidateTrip(t *Trip) error {
	v := checkStruct(t)

	if t.Status == TripStatusDone {
		switch {
		case t.EndOdometer == nil:
			if !v.Has("endOdometer") {
				v.Add("endOdometer", "is required when the trip is done")
			}
		case *t.EndOdometer < t.StartOdometer:
			v.Add("endOdometer", "must be greater than or equal to startOdometer")
		}
	}
	if !t.EndDate.IsZero() && !t.StartDate.IsZero() && t.EndDate.Before(t.StartDate) {
		v.Add("endDate", "must not be before startDate")
	}

	return v.Err()
}

// ValidateUser checks a user before it is persisted.
func ValidateUser(u *User) error {
	v := checkStruct(u)
	if u.PasswordHash == "" {
		v.Add("password", "is required")
	}
	return v.Err()
}

package service

import (
	"errors"

	"fleet/internal/repository"
)

// Error kinds. Every service error wraps exactly one of these so the
// transport layer can pick a status code with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a service error with a client-facing message and a kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	// ErrTruckNotFound is returned when a truck does not exist.
	ErrTruckNotFound = newError(ErrNotFound, "truck not found")

	// ErrTrailerNotFound is returned when a trailer does not exist.
	ErrTrailerNotFound = newError(ErrNotFound, "trailer not found")

	// ErrTireNotFound is returned when a tire does not exist.
	ErrTireNotFound = newError(ErrNotFound, "tire not found")

	// ErrMaintenanceNotFound is returned when a maintenance does not exist.
	ErrMaintenanceNotFound = newError(ErrNotFound, "maintenance not found")

	// ErrFuelLogNotFound is returned when a fuel log does not exist.
	ErrFuelLogNotFound = newError(ErrNotFound, "fuel log not found")

	// ErrTripNotFound is returned when a trip does not exist.
	ErrTripNotFound = newError(ErrNotFound, "trip not found")

	// ErrUserNotFound is returned when a user does not exist or was deleted.
	ErrUserNotFound = newError(ErrNotFound, "user not found")

	// ErrDriverNotFound is returned when the driver of a trip does not exist.
	ErrDriverNotFound = newError(ErrNotFound, "driver not found")

	// ErrUserNotDriver is returned when a trip is assigned to a non-driver.
	ErrUserNotDriver = newError(ErrConflict, "user is not a driver")

	// ErrTruckUnavailable is returned when the truck is not AVAILABLE.
	ErrTruckUnavailable = newError(ErrConflict, "truck unavailable")

	// ErrTrailerUnavailable is returned when the trailer is not AVAILABLE.
	ErrTrailerUnavailable = newError(ErrConflict, "trailer unavailable")

	// ErrTruckBusy is returned when a maintenance starts on a truck that is on a trip.
	ErrTruckBusy = newError(ErrConflict, "truck is currently on a trip")

	// ErrAssetInUse is returned when deleting an asset used by an in-progress trip.
	ErrAssetInUse = newError(ErrConflict, "asset is used by a trip in progress")

	// ErrTirePositionTaken is returned when a truck already has a tire at the position.
	ErrTirePositionTaken = newError(ErrConflict, "tire position already taken")

	// ErrPlateTaken is returned when a plate number is already registered.
	ErrPlateTaken = newError(ErrConflict, "plate already registered")

	// ErrInvalidTransition is returned for a status change the workflow does not allow.
	ErrInvalidTransition = newError(ErrConflict, "invalid status transition")

	// ErrMaintenanceStarted is returned when the truck or tire of a started maintenance is changed.
	ErrMaintenanceStarted = newError(ErrConflict, "maintenance already started, cancel it to change its truck or tire")

	// ErrTireNotOnTruck is returned when a maintenance names a tire mounted on another truck.
	ErrTireNotOnTruck = newError(ErrConflict, "tire does not belong to the truck")

	// ErrTripNotInProgress is returned when fuel is logged on a trip that is not IN_PROGRESS.
	ErrTripNotInProgress = newError(ErrConflict, "trip is not in progress")

	// ErrTripNotAssignedToDriver is returned when a driver acts on someone else's trip.
	ErrTripNotAssignedToDriver = newError(ErrForbidden, "trip not assigned to this driver")

	// ErrEmailTaken is returned when registering an email already in use.
	ErrEmailTaken = newError(ErrConflict, "email already in use")

	// ErrLicenseTaken is returned when a license number is already in use.
	ErrLicenseTaken = newError(ErrConflict, "license number already in use")

	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid email or password")

	// ErrInvalidRefreshToken is returned when a refresh token cannot be used.
	ErrInvalidRefreshToken = newError(ErrUnauthorized, "invalid refresh token")

	// ErrStorageDisabled is returned when an upload is attempted without a bucket.
	ErrStorageDisabled = newError(ErrConflict, "file storage is not configured")
)

// notFoundAs replaces a repository miss with the given service error.
func notFoundAs(err error, sentinel *Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}

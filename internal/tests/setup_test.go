package tests

import (
	"testing"
	"time"

	"fleet/internal/auth"
	"fleet/internal/domain"
	"fleet/internal/service"
)

// fleet wires every service over fresh mocks.
type fleet struct {
	repos    *MockRepositories
	tx       *MockTransactor
	locks    *MockLockStore
	cache    *MockTruckCache
	hub      *MockBroadcaster
	stats    *MockStatsRepository
	uploader *MockUploader
	jwt      *auth.JWTManager

	trips        *service.TripService
	assets       *service.AssetService
	maintenances *service.MaintenanceService
	fuel         *service.FuelService
	trucks       *service.TruckService
	trailers     *service.TrailerService
	tires        *service.TireService
	users        *service.UserService
	auth         *service.AuthService
}

func newFleet(t *testing.T) *fleet {
	return newFleetWithRotation(t, false)
}

func newFleetWithRotation(t *testing.T, rotate bool) *fleet {
	t.Helper()

	f := &fleet{
		repos:    NewMockRepositories(),
		locks:    NewMockLockStore(),
		cache:    NewMockTruckCache(),
		hub:      NewMockBroadcaster(),
		stats:    NewMockStatsRepository(),
		uploader: NewMockUploader(),
		jwt:      auth.NewJWTManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour),
	}
	f.tx = NewMockTransactor(f.repos)

	repos := f.repos.Bundle()
	notifications := service.NewNotificationService(f.hub)

	f.trips = service.NewTripService(f.tx, repos, f.locks, f.cache, notifications)
	f.assets = service.NewAssetService(f.tx, f.cache)
	f.maintenances = service.NewMaintenanceService(f.tx, repos, f.stats, f.cache, notifications)
	f.fuel = service.NewFuelService(repos.FuelLogs, repos.Trips, f.stats)
	f.trucks = service.NewTruckService(repos.Trucks, f.cache)
	f.trailers = service.NewTrailerService(repos.Trailers)
	f.tires = service.NewTireService(repos.Tires, repos.Trucks, service.DefaultTireCriticalWear)
	f.users = service.NewUserService(repos.Users, f.uploader)
	f.auth = service.NewAuthService(f.tx, repos, f.users, f.jwt, rotate)
	return f
}

func (f *fleet) addDriver(id string) *domain.User {
	u := &domain.User{
		ID:           id,
		FullName:     "Driver " + id,
		Email:        id + "@fleet.test",
		PasswordHash: "x",
		Role:         domain.RoleDriver,
		Phone:        "0600000000",
	}
	f.repos.Users.AddUser(u)
	return u
}

func (f *fleet) addTruck(id string, odometer float64, status domain.TruckStatus) *domain.Truck {
	truck := &domain.Truck{
		ID:                id,
		Plate:             "PLATE-" + id,
		Make:              "Volvo",
		Model:             "FH16",
		TankCapacity:      600,
		CurrentOdometer:   odometer,
		Status:            status,
		MaintenanceAlerts: []domain.MaintenanceAlert{},
	}
	f.repos.Trucks.AddTruck(truck)
	return truck
}

func (f *fleet) addTrailer(id string, status domain.TrailerStatus) *domain.Trailer {
	trailer := &domain.Trailer{
		ID:       id,
		Plate:    "TRL-" + id,
		Type:     domain.TrailerTypeFlatbed,
		Status:   status,
		Capacity: 24,
	}
	f.repos.Trailers.AddTrailer(trailer)
	return trailer
}

func (f *fleet) addTrip(id, driverID, truckID, trailerID string, status domain.TripStatus, startOdometer float64) *domain.Trip {
	now := time.Now().UTC()
	trip := &domain.Trip{
		ID:            id,
		DriverID:      driverID,
		TruckID:       truckID,
		TrailerID:     trailerID,
		Status:        status,
		Origin:        "Casablanca",
		Destination:   "Tanger",
		StartOdometer: startOdometer,
		StartDate:     now.Add(-2 * time.Hour),
		CreatedAt:     now.Add(-3 * time.Hour),
		UpdatedAt:     now.Add(-3 * time.Hour),
	}
	f.repos.Trips.AddTrip(trip)
	return trip
}

func ptr[T any](v T) *T {
	return &v
}

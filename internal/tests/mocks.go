package tests

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRUCK REPOSITORY
// ──────────────────────────────────────────────

// MockTruckRepository is a mock implementation of TruckRepository.
type MockTruckRepository struct {
	mu     sync.RWMutex
	trucks map[string]*domain.Truck

	// Counters for verification
	UpdateStatusCallCount int32

	// Error injection
	UpdateStatusError error
}

// NewMockTruckRepository creates a new mock truck repository.
func NewMockTruckRepository() *MockTruckRepository {
	return &MockTruckRepository{trucks: make(map[string]*domain.Truck)}
}

// AddTruck adds a truck to the mock repository.
func (m *MockTruckRepository) AddTruck(truck *domain.Truck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trucks[truck.ID] = truck
}

func (m *MockTruckRepository) Create(ctx context.Context, truck *domain.Truck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trucks {
		if t.Plate == truck.Plate {
			return &repository.DuplicateError{Constraint: "trucks_plate_key"}
		}
	}
	copy := *truck
	m.trucks[truck.ID] = &copy
	return nil
}

func (m *MockTruckRepository) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	truck, ok := m.trucks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *truck
	return &copy, nil
}

func (m *MockTruckRepository) GetAll(ctx context.Context, status domain.TruckStatus) ([]*domain.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Truck, 0, len(m.trucks))
	for _, t := range m.trucks {
		if status != "" && t.Status != status {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTruckRepository) Update(ctx context.Context, truck *domain.Truck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trucks[truck.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, t := range m.trucks {
		if id != truck.ID && t.Plate == truck.Plate {
			return &repository.DuplicateError{Constraint: "trucks_plate_key"}
		}
	}
	copy := *truck
	m.trucks[truck.ID] = &copy
	return nil
}

func (m *MockTruckRepository) UpdateStatus(ctx context.Context, id string, status domain.TruckStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	truck, ok := m.trucks[id]
	if !ok {
		return repository.ErrNotFound
	}
	truck.Status = status
	return nil
}

func (m *MockTruckRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trucks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trucks, id)
	return nil
}

// GetTruck returns truck for test assertions.
func (m *MockTruckRepository) GetTruck(id string) *domain.Truck {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trucks[id]
}

// ──────────────────────────────────────────────
// MOCK TRAILER REPOSITORY
// ──────────────────────────────────────────────

// MockTrailerRepository is a mock implementation of TrailerRepository.
type MockTrailerRepository struct {
	mu       sync.RWMutex
	trailers map[string]*domain.Trailer
}

// NewMockTrailerRepository creates a new mock trailer repository.
func NewMockTrailerRepository() *MockTrailerRepository {
	return &MockTrailerRepository{trailers: make(map[string]*domain.Trailer)}
}

// AddTrailer adds a trailer to the mock repository.
func (m *MockTrailerRepository) AddTrailer(trailer *domain.Trailer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trailers[trailer.ID] = trailer
}

func (m *MockTrailerRepository) Create(ctx context.Context, trailer *domain.Trailer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trailers {
		if t.Plate == trailer.Plate {
			return &repository.DuplicateError{Constraint: "trailers_plate_key"}
		}
	}
	copy := *trailer
	m.trailers[trailer.ID] = &copy
	return nil
}

func (m *MockTrailerRepository) GetByID(ctx context.Context, id string) (*domain.Trailer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trailer, ok := m.trailers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trailer
	return &copy, nil
}

func (m *MockTrailerRepository) GetAll(ctx context.Context, status domain.TrailerStatus) ([]*domain.Trailer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trailer, 0, len(m.trailers))
	for _, t := range m.trailers {
		if status != "" && t.Status != status {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTrailerRepository) Update(ctx context.Context, trailer *domain.Trailer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trailers[trailer.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trailer
	m.trailers[trailer.ID] = &copy
	return nil
}

func (m *MockTrailerRepository) UpdateStatus(ctx context.Context, id string, status domain.TrailerStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trailer, ok := m.trailers[id]
	if !ok {
		return repository.ErrNotFound
	}
	trailer.Status = status
	return nil
}

func (m *MockTrailerRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trailers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trailers, id)
	return nil
}

// GetTrailer returns trailer for test assertions.
func (m *MockTrailerRepository) GetTrailer(id string) *domain.Trailer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trailers[id]
}

// ──────────────────────────────────────────────
// MOCK TIRE REPOSITORY
// ──────────────────────────────────────────────

// MockTireRepository is a mock implementation of TireRepository.
// A truck holds at most one tire per position.
type MockTireRepository struct {
	mu    sync.RWMutex
	tires map[string]*domain.Tire
}

// NewMockTireRepository creates a new mock tire repository.
func NewMockTireRepository() *MockTireRepository {
	return &MockTireRepository{tires: make(map[string]*domain.Tire)}
}

// AddTire adds a tire to the mock repository.
func (m *MockTireRepository) AddTire(tire *domain.Tire) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tires[tire.ID] = tire
}

func (m *MockTireRepository) positionTaken(tire *domain.Tire) bool {
	for id, t := range m.tires {
		if id != tire.ID && t.TruckID == tire.TruckID && t.Position == tire.Position {
			return true
		}
	}
	return false
}

func (m *MockTireRepository) Create(ctx context.Context, tire *domain.Tire) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.positionTaken(tire) {
		return &repository.DuplicateError{Constraint: "tires_truck_id_position_key"}
	}
	copy := *tire
	m.tires[tire.ID] = &copy
	return nil
}

func (m *MockTireRepository) GetByID(ctx context.Context, id string) (*domain.Tire, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tire, ok := m.tires[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *tire
	return &copy, nil
}

func (m *MockTireRepository) list(keep func(*domain.Tire) bool) []*domain.Tire {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Tire, 0, len(m.tires))
	for _, t := range m.tires {
		if keep(t) {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result
}

func (m *MockTireRepository) GetAll(ctx context.Context) ([]*domain.Tire, error) {
	return m.list(func(*domain.Tire) bool { return true }), nil
}

func (m *MockTireRepository) GetByTruckID(ctx context.Context, truckID string) ([]*domain.Tire, error) {
	return m.list(func(t *domain.Tire) bool { return t.TruckID == truckID }), nil
}

func (m *MockTireRepository) GetCritical(ctx context.Context, minWear float64) ([]*domain.Tire, error) {
	return m.list(func(t *domain.Tire) bool { return t.Wear >= minWear }), nil
}

func (m *MockTireRepository) Update(ctx context.Context, tire *domain.Tire) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tires[tire.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.positionTaken(tire) {
		return &repository.DuplicateError{Constraint: "tires_truck_id_position_key"}
	}
	copy := *tire
	m.tires[tire.ID] = &copy
	return nil
}

func (m *MockTireRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tires[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.tires, id)
	return nil
}

func (m *MockTireRepository) DeleteByTruckID(ctx context.Context, truckID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tires {
		if t.TruckID == truckID {
			delete(m.tires, id)
			n++
		}
	}
	return n, nil
}

// CountTires returns the number of stored tires.
func (m *MockTireRepository) CountTires() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tires)
}

// ──────────────────────────────────────────────
// MOCK MAINTENANCE REPOSITORY
// ──────────────────────────────────────────────

// MockMaintenanceRepository is a mock implementation of MaintenanceRepository.
type MockMaintenanceRepository struct {
	mu           sync.RWMutex
	maintenances map[string]*domain.Maintenance

	// Error injection
	GetAllError error
}

// NewMockMaintenanceRepository creates a new mock maintenance repository.
func NewMockMaintenanceRepository() *MockMaintenanceRepository {
	return &MockMaintenanceRepository{maintenances: make(map[string]*domain.Maintenance)}
}

// AddMaintenance adds a maintenance to the mock repository.
func (m *MockMaintenanceRepository) AddMaintenance(maintenance *domain.Maintenance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maintenances[maintenance.ID] = maintenance
}

func (m *MockMaintenanceRepository) Create(ctx context.Context, maintenance *domain.Maintenance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *maintenance
	m.maintenances[maintenance.ID] = &copy
	return nil
}

func (m *MockMaintenanceRepository) GetByID(ctx context.Context, id string) (*domain.Maintenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	maintenance, ok := m.maintenances[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *maintenance
	return &copy, nil
}

func (m *MockMaintenanceRepository) GetAll(ctx context.Context, filter repository.MaintenanceFilter) ([]*domain.Maintenance, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Maintenance, 0, len(m.maintenances))
	for _, mt := range m.maintenances {
		if filter.Status != "" && string(mt.Status) != filter.Status {
			continue
		}
		if filter.Type != "" && string(mt.Type) != filter.Type {
			continue
		}
		if filter.TruckID != "" && mt.TruckID != filter.TruckID {
			continue
		}
		if filter.TireID != "" && mt.TireID != filter.TireID {
			continue
		}
		copy := *mt
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockMaintenanceRepository) Update(ctx context.Context, maintenance *domain.Maintenance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.maintenances[maintenance.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *maintenance
	m.maintenances[maintenance.ID] = &copy
	return nil
}

func (m *MockMaintenanceRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.maintenances[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.maintenances, id)
	return nil
}

func (m *MockMaintenanceRepository) deleteWhere(match func(*domain.Maintenance) bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, mt := range m.maintenances {
		if match(mt) {
			delete(m.maintenances, id)
			n++
		}
	}
	return n
}

func (m *MockMaintenanceRepository) DeleteByTruckID(ctx context.Context, truckID string) (int64, error) {
	return m.deleteWhere(func(mt *domain.Maintenance) bool { return mt.TruckID == truckID }), nil
}

func (m *MockMaintenanceRepository) DeleteByTireID(ctx context.Context, tireID string) (int64, error) {
	return m.deleteWhere(func(mt *domain.Maintenance) bool { return mt.TireID == tireID }), nil
}

func (m *MockMaintenanceRepository) LastDoneOdometers(ctx context.Context, truckID string) (map[domain.MaintenanceType]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[domain.MaintenanceType]float64)
	for _, mt := range m.maintenances {
		if mt.TruckID != truckID || mt.Status != domain.MaintenanceStatusDone || mt.OdometerAtIntervention == nil {
			continue
		}
		if *mt.OdometerAtIntervention > result[mt.Type] {
			result[mt.Type] = *mt.OdometerAtIntervention
		}
	}
	return result, nil
}

// GetMaintenance returns maintenance for test assertions.
func (m *MockMaintenanceRepository) GetMaintenance(id string) *domain.Maintenance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maintenances[id]
}

// CountMaintenances returns the number of stored maintenances.
func (m *MockMaintenanceRepository) CountMaintenances() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.maintenances)
}

// ──────────────────────────────────────────────
// MOCK FUEL LOG REPOSITORY
// ──────────────────────────────────────────────

// MockFuelLogRepository is a mock implementation of FuelLogRepository.
type MockFuelLogRepository struct {
	mu   sync.RWMutex
	logs map[string]*domain.FuelLog

	// Error injection
	CreateError error
}

// NewMockFuelLogRepository creates a new mock fuel log repository.
func NewMockFuelLogRepository() *MockFuelLogRepository {
	return &MockFuelLogRepository{logs: make(map[string]*domain.FuelLog)}
}

// AddFuelLog adds a fuel log to the mock repository.
func (m *MockFuelLogRepository) AddFuelLog(log *domain.FuelLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[log.ID] = log
}

func (m *MockFuelLogRepository) Create(ctx context.Context, log *domain.FuelLog) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *log
	m.logs[log.ID] = &copy
	return nil
}

func (m *MockFuelLogRepository) GetByID(ctx context.Context, id string) (*domain.FuelLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	log, ok := m.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *log
	return &copy, nil
}

func (m *MockFuelLogRepository) list(keep func(*domain.FuelLog) bool) []*domain.FuelLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.FuelLog, 0, len(m.logs))
	for _, l := range m.logs {
		if keep(l) {
			copy := *l
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

func (m *MockFuelLogRepository) GetAll(ctx context.Context) ([]*domain.FuelLog, error) {
	return m.list(func(*domain.FuelLog) bool { return true }), nil
}

func (m *MockFuelLogRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.FuelLog, error) {
	return m.list(func(l *domain.FuelLog) bool { return l.TripID == tripID }), nil
}

func (m *MockFuelLogRepository) Update(ctx context.Context, log *domain.FuelLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.logs[log.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *log
	m.logs[log.ID] = &copy
	return nil
}

func (m *MockFuelLogRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.logs, id)
	return nil
}

func (m *MockFuelLogRepository) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.logs {
		if l.TripID == tripID {
			delete(m.logs, id)
			n++
		}
	}
	return n, nil
}

// GetFuelLog returns the stored fuel log for test assertions.
func (m *MockFuelLogRepository) GetFuelLog(id string) *domain.FuelLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logs[id]
}

// CountFuelLogs returns the number of stored fuel logs.
func (m *MockFuelLogRepository) CountFuelLogs() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.logs)
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]*domain.Trip)}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.DriverID != "" && t.DriverID != filter.DriverID {
			continue
		}
		if filter.TruckID != "" && t.TruckID != filter.TruckID {
			continue
		}
		if filter.TrailerID != "" && t.TrailerID != filter.TrailerID {
			continue
		}
		if !filter.Range.From.IsZero() && t.StartDate.Before(filter.Range.From) {
			continue
		}
		if !filter.Range.To.IsZero() && t.StartDate.After(filter.Range.To) {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *MockTripRepository) count(match func(*domain.Trip) bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.trips {
		if t.Status == domain.TripStatusInProgress && match(t) {
			n++
		}
	}
	return n
}

func (m *MockTripRepository) CountInProgressByTruck(ctx context.Context, truckID string) (int, error) {
	return m.count(func(t *domain.Trip) bool { return t.TruckID == truckID }), nil
}

func (m *MockTripRepository) CountInProgressByTrailer(ctx context.Context, trailerID string) (int, error) {
	return m.count(func(t *domain.Trip) bool { return t.TrailerID == trailerID }), nil
}

// GetTrip returns trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) conflict(user *domain.User) error {
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return &repository.DuplicateError{Constraint: "users_email_key"}
		}
		if user.LicenseNumber != "" && u.LicenseNumber == user.LicenseNumber {
			return &repository.DuplicateError{Constraint: "users_license_number_key"}
		}
	}
	return nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(user); err != nil {
		return err
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if u.IsDeleted || (role != "" && u.Role != role) {
			continue
		}
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := m.conflict(user); err != nil {
		return err
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsDeleted = true
	return nil
}

// GetUser returns user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK REFRESH TOKEN REPOSITORY
// ──────────────────────────────────────────────

// MockRefreshTokenRepository is a mock implementation of RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]*domain.RefreshToken

	// BeforeRevoke, when set, runs before Revoke takes the lock.
	BeforeRevoke func(jti string)
}

// NewMockRefreshTokenRepository creates a new mock refresh token repository.
func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *token
	m.tokens[token.JTI] = &copy
	return nil
}

func (m *MockRefreshTokenRepository) GetByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.tokens[jti]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *token
	return &copy, nil
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, jti, replacedBy string) error {
	if m.BeforeRevoke != nil {
		m.BeforeRevoke(jti)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[jti]
	if !ok || token.Revoked {
		return repository.ErrNotFound
	}
	token.Revoked = true
	token.ReplacedBy = replacedBy
	return nil
}

func (m *MockRefreshTokenRepository) DeleteByJTI(ctx context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, jti)
	return nil
}

// GetToken returns the stored token for test assertions.
func (m *MockRefreshTokenRepository) GetToken(jti string) *domain.RefreshToken {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[jti]
}

// CountTokens returns the number of stored tokens.
func (m *MockRefreshTokenRepository) CountTokens() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}

// ──────────────────────────────────────────────
// MOCK STATS REPOSITORY
// ──────────────────────────────────────────────

// MockStatsRepository returns canned aggregates for the stats queries.
type MockStatsRepository struct {
	mu sync.RWMutex

	TypeStats    []repository.MaintenanceTypeStats
	TruckCost    map[string]*repository.TruckCostStats
	TripTotals   map[string]*repository.TripFuelTotals
	Consumption  map[string]*repository.TruckConsumption
	PeriodStats  []repository.FuelPeriodStats
	LastRange    repository.DateRange
	QueryError   error
	QueriedTruck string
}

// NewMockStatsRepository creates a new mock stats repository.
func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{
		TruckCost:   make(map[string]*repository.TruckCostStats),
		TripTotals:  make(map[string]*repository.TripFuelTotals),
		Consumption: make(map[string]*repository.TruckConsumption),
	}
}

func (m *MockStatsRepository) record(truckID string, r repository.DateRange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueriedTruck = truckID
	m.LastRange = r
}

func (m *MockStatsRepository) StatsByType(ctx context.Context, r repository.DateRange) ([]repository.MaintenanceTypeStats, error) {
	m.record("", r)
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return append([]repository.MaintenanceTypeStats(nil), m.TypeStats...), nil
}

func (m *MockStatsRepository) CostByTruck(ctx context.Context, truckID string, r repository.DateRange) (*repository.TruckCostStats, error) {
	m.record(truckID, r)
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	if c, ok := m.TruckCost[truckID]; ok {
		copy := *c
		return &copy, nil
	}
	return &repository.TruckCostStats{TruckID: truckID}, nil
}

func (m *MockStatsRepository) TotalByTrip(ctx context.Context, tripID string) (*repository.TripFuelTotals, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	if t, ok := m.TripTotals[tripID]; ok {
		copy := *t
		return &copy, nil
	}
	return &repository.TripFuelTotals{TripID: tripID}, nil
}

func (m *MockStatsRepository) ConsumptionByTruck(ctx context.Context, truckID string, r repository.DateRange) (*repository.TruckConsumption, error) {
	m.record(truckID, r)
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	if c, ok := m.Consumption[truckID]; ok {
		copy := *c
		return &copy, nil
	}
	return &repository.TruckConsumption{}, nil
}

func (m *MockStatsRepository) StatsByPeriod(ctx context.Context, r repository.DateRange) ([]repository.FuelPeriodStats, error) {
	m.record("", r)
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return append([]repository.FuelPeriodStats(nil), m.PeriodStats...), nil
}

// ──────────────────────────────────────────────
// MOCK REPOSITORY BUNDLE AND TRANSACTOR
// ──────────────────────────────────────────────

// MockRepositories holds one mock per repository.
type MockRepositories struct {
	Trucks       *MockTruckRepository
	Trailers     *MockTrailerRepository
	Tires        *MockTireRepository
	Maintenances *MockMaintenanceRepository
	FuelLogs     *MockFuelLogRepository
	Trips        *MockTripRepository
	Users        *MockUserRepository
	Tokens       *MockRefreshTokenRepository
}

// NewMockRepositories creates empty mocks for every repository.
func NewMockRepositories() *MockRepositories {
	return &MockRepositories{
		Trucks:       NewMockTruckRepository(),
		Trailers:     NewMockTrailerRepository(),
		Tires:        NewMockTireRepository(),
		Maintenances: NewMockMaintenanceRepository(),
		FuelLogs:     NewMockFuelLogRepository(),
		Trips:        NewMockTripRepository(),
		Users:        NewMockUserRepository(),
		Tokens:       NewMockRefreshTokenRepository(),
	}
}

// Bundle returns the mocks as a repository.Repositories.
func (m *MockRepositories) Bundle() repository.Repositories {
	return repository.Repositories{
		Trucks:       m.Trucks,
		Trailers:     m.Trailers,
		Tires:        m.Tires,
		Maintenances: m.Maintenances,
		FuelLogs:     m.FuelLogs,
		Trips:        m.Trips,
		Users:        m.Users,
		Tokens:       m.Tokens,
	}
}

// MockTransactor runs fn against the mock bundle. Nothing is rolled back, so
// tests only assert state after failures that happen before any write.
type MockTransactor struct {
	repos *MockRepositories

	// Counters for verification
	CallCount int32

	// Error injection
	BeginError error
}

// NewMockTransactor creates a transactor over repos.
func NewMockTransactor(repos *MockRepositories) *MockTransactor {
	return &MockTransactor{repos: repos}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}
	return fn(m.repos.Bundle())
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireAssetLock(ctx context.Context, kind, id string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := kind + ":" + id
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *MockLockStore) ReleaseAssetLock(ctx context.Context, kind, id string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, kind+":"+id)
	return nil
}

// Hold marks an asset as locked by another request.
func (m *MockLockStore) Hold(kind, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[kind+":"+id] = true
}

// IsLocked reports whether the asset lock is held.
func (m *MockLockStore) IsLocked(kind, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[kind+":"+id]
}

// ──────────────────────────────────────────────
// MOCK TRUCK CACHE
// ──────────────────────────────────────────────

// MockTruckCache is a mock implementation of TruckCacheInterface.
type MockTruckCache struct {
	mu     sync.RWMutex
	trucks map[string]*domain.Truck

	// Counters for verification
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockTruckCache creates a new mock truck cache.
func NewMockTruckCache() *MockTruckCache {
	return &MockTruckCache{trucks: make(map[string]*domain.Truck)}
}

func (m *MockTruckCache) GetTruck(ctx context.Context, truckID string) (*domain.Truck, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	truck, ok := m.trucks[truckID]
	if !ok {
		return nil, nil
	}
	copy := *truck
	return &copy, nil
}

func (m *MockTruckCache) SetTruck(ctx context.Context, truck *domain.Truck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *truck
	m.trucks[truck.ID] = &copy
	return nil
}

func (m *MockTruckCache) SetTrucksBatch(ctx context.Context, trucks []*domain.Truck) error {
	for _, t := range trucks {
		_ = m.SetTruck(ctx, t)
	}
	return nil
}

func (m *MockTruckCache) InvalidateTrucks(ctx context.Context, truckIDs ...string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range truckIDs {
		delete(m.trucks, id)
	}
	return nil
}

// IsCached reports whether the truck is in the cache.
func (m *MockTruckCache) IsCached(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.trucks[id]
	return ok
}

// ──────────────────────────────────────────────
// MOCK BROADCASTER AND UPLOADER
// ──────────────────────────────────────────────

// MockBroadcaster records every message sent to the hub.
type MockBroadcaster struct {
	mu       sync.Mutex
	messages [][]byte
}

// NewMockBroadcaster creates a new mock broadcaster.
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (m *MockBroadcaster) Broadcast(message []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

// Messages returns the broadcast payloads.
func (m *MockBroadcaster) Messages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.messages...)
}

// MockUploader stores uploads in memory.
type MockUploader struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Error injection
	UploadError error
}

// NewMockUploader creates a new mock uploader.
func NewMockUploader() *MockUploader {
	return &MockUploader{objects: make(map[string][]byte)}
}

func (m *MockUploader) UploadFile(ctx context.Context, body io.Reader, objectKey, contentType string) (string, error) {
	if m.UploadError != nil {
		return "", m.UploadError
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey] = data
	return "https://cdn.example.com/" + objectKey, nil
}

// Keys returns the stored object keys.
func (m *MockUploader) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

// ErrMockFailure is a generic injected failure.
var ErrMockFailure = errors.New("mock failure")

// Ensure mocks implement interfaces.
var (
	_ repository.TruckRepository            = (*MockTruckRepository)(nil)
	_ repository.TrailerRepository          = (*MockTrailerRepository)(nil)
	_ repository.TireRepository             = (*MockTireRepository)(nil)
	_ repository.MaintenanceRepository      = (*MockMaintenanceRepository)(nil)
	_ repository.FuelLogRepository          = (*MockFuelLogRepository)(nil)
	_ repository.TripRepository             = (*MockTripRepository)(nil)
	_ repository.UserRepository             = (*MockUserRepository)(nil)
	_ repository.RefreshTokenRepository     = (*MockRefreshTokenRepository)(nil)
	_ repository.MaintenanceStatsRepository = (*MockStatsRepository)(nil)
	_ repository.FuelStatsRepository        = (*MockStatsRepository)(nil)
	_ repository.Transactor                 = (*MockTransactor)(nil)
	_ redis.LockStoreInterface              = (*MockLockStore)(nil)
	_ redis.TruckCacheInterface             = (*MockTruckCache)(nil)
)

package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// selectTrips joins the referenced driver, truck and trailer so reads come back populated.
const selectTrips = `
	SELECT t.id, t.driver_id, t.truck_id, t.trailer_id, t.status, t.origin, t.destination,
	       t.start_odometer, t.end_odometer, t.start_date, t.end_date, t.remaining_fuel, t.notes,
	       t.created_at, t.updated_at,
	       u.full_name, u.email, u.phone,
	       tk.plate, tk.make, tk.model,
	       tr.plate, tr.type
	FROM trips t
	LEFT JOIN users u ON u.id = t.driver_id
	LEFT JOIN trucks tk ON tk.id = t.truck_id
	LEFT JOIN trailers tr ON tr.id = t.trailer_id
`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, driver_id, truck_id, trailer_id, status, origin, destination,
		                   start_odometer, end_odometer, start_date, end_date, remaining_fuel, notes,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.TruckID,
		nullString(trip.TrailerID),
		trip.Status,
		trip.Origin,
		trip.Destination,
		trip.StartOdometer,
		nullFloat(trip.EndOdometer),
		trip.StartDate,
		nullTime(trip.EndDate),
		nullFloat(trip.RemainingFuel),
		trip.Notes,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := scanTrip(r.q.QueryRowContext(ctx, selectTrips+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return trip, nil
}

// GetAll retrieves trips matching the filter, newest first.
func (r *TripRepository) GetAll(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	from, to := rangeArgs(filter.Range)
	query := selectTrips + `
		WHERE ($1 = '' OR t.status = $1)
		  AND ($2 = '' OR t.driver_id::text = $2)
		  AND ($3 = '' OR t.truck_id::text = $3)
		  AND ($4 = '' OR t.trailer_id::text = $4)
		  AND ($5::timestamptz IS NULL OR t.start_date >= $5)
		  AND ($6::timestamptz IS NULL OR t.start_date <= $6)
		ORDER BY t.start_date DESC
	`

	rows, err := r.q.QueryContext(ctx, query,
		filter.Status,
		filter.DriverID,
		filter.TruckID,
		filter.TrailerID,
		from,
		to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET driver_id = $1, truck_id = $2, trailer_id = $3, status = $4, origin = $5, destination = $6,
		    start_odometer = $7, end_odometer = $8, start_date = $9, end_date = $10,
		    remaining_fuel = $11, notes = $12, updated_at = NOW()
		WHERE id = $13
	`

	return expectAffected(r.q.ExecContext(ctx, query,
		trip.DriverID,
		trip.TruckID,
		nullString(trip.TrailerID),
		trip.Status,
		trip.Origin,
		trip.Destination,
		trip.StartOdometer,
		nullFloat(trip.EndOdometer),
		trip.StartDate,
		nullTime(trip.EndDate),
		nullFloat(trip.RemainingFuel),
		trip.Notes,
		trip.ID,
	))
}

// Delete removes a trip.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id))
}

// CountInProgressByTruck counts IN_PROGRESS trips using the truck.
func (r *TripRepository) CountInProgressByTruck(ctx context.Context, truckID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM trips WHERE truck_id = $1 AND status = $2`, truckID)
}

// CountInProgressByTrailer counts IN_PROGRESS trips using the trailer.
func (r *TripRepository) CountInProgressByTrailer(ctx context.Context, trailerID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM trips WHERE trailer_id = $1 AND status = $2`, trailerID)
}

func (r *TripRepository) count(ctx context.Context, query, id string) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, query, id, domain.TripStatusInProgress).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func scanTrip(s rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var (
		trailerID                         sql.NullString
		endOdometer, remainingFuel        sql.NullFloat64
		endDate                           sql.NullTime
		driverName, driverEmail, phone    sql.NullString
		truckPlate, truckMake, truckModel sql.NullString
		trailerPlate, trailerType         sql.NullString
	)

	if err := s.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.TruckID,
		&trailerID,
		&trip.Status,
		&trip.Origin,
		&trip.Destination,
		&trip.StartOdometer,
		&endOdometer,
		&trip.StartDate,
		&endDate,
		&remainingFuel,
		&trip.Notes,
		&trip.CreatedAt,
		&trip.UpdatedAt,
		&driverName,
		&driverEmail,
		&phone,
		&truckPlate,
		&truckMake,
		&truckModel,
		&trailerPlate,
		&trailerType,
	); err != nil {
		return nil, err
	}

	trip.TrailerID = trailerID.String
	trip.EndOdometer = floatPtr(endOdometer)
	trip.RemainingFuel = floatPtr(remainingFuel)
	if endDate.Valid {
		trip.EndDate = endDate.Time
	}

	if driverName.Valid {
		trip.Driver = &domain.UserSummary{
			ID:       trip.DriverID,
			FullName: driverName.String,
			Email:    driverEmail.String,
			Phone:    phone.String,
		}
	}
	if truckPlate.Valid {
		trip.Truck = &domain.TruckSummary{
			ID:    trip.TruckID,
			Plate: truckPlate.String,
			Make:  truckMake.String,
			Model: truckModel.String,
		}
	}
	if trailerPlate.Valid {
		trip.Trailer = &domain.TrailerSummary{
			ID:    trip.TrailerID,
			Plate: trailerPlate.String,
			Type:  domain.TrailerType(trailerType.String),
		}
	}

	return &trip, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)

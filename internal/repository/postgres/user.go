package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, full_name, email, password_hash, role, phone, hire_date, license_number,
	license_expiry, profile_image, is_deleted, created_at, updated_at`

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, full_name, email, password_hash, role, phone, hire_date, license_number,
		                   license_expiry, profile_image, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		nullTime(user.HireDate),
		nullString(user.LicenseNumber),
		nullTime(user.LicenseExpiry),
		user.ProfileImage,
		user.IsDeleted,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a user by ID, including soft-deleted users.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, including soft-deleted users.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// GetAll retrieves active users, optionally restricted to one role.
func (r *UserRepository) GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_deleted = FALSE AND ($1 = '' OR role = $1)
		ORDER BY full_name
	`

	rows, err := r.q.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update replaces the mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET full_name = $1, email = $2, password_hash = $3, role = $4, phone = $5, hire_date = $6,
		    license_number = $7, license_expiry = $8, profile_image = $9, updated_at = NOW()
		WHERE id = $10
	`
	return expectAffected(r.q.ExecContext(ctx, query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		nullTime(user.HireDate),
		nullString(user.LicenseNumber),
		nullTime(user.LicenseExpiry),
		user.ProfileImage,
		user.ID,
	))
}

// SoftDelete flags the user as deleted.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE users SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`
	return expectAffected(r.q.ExecContext(ctx, query, id))
}

func scanUser(s rowScanner) (*domain.User, error) {
	var user domain.User
	var hireDate, licenseExpiry sql.NullTime
	var licenseNumber sql.NullString

	if err := s.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&hireDate,
		&licenseNumber,
		&licenseExpiry,
		&user.ProfileImage,
		&user.IsDeleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.LicenseNumber = licenseNumber.String
	if hireDate.Valid {
		user.HireDate = hireDate.Time
	}
	if licenseExpiry.Valid {
		user.LicenseExpiry = licenseExpiry.Time
	}
	return &user, nil
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)

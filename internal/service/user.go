package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fleet/internal/auth"
	"fleet/internal/domain"
	"fleet/internal/repository"
)

// constraintUserLicense is the unique index on users.license_number.
const constraintUserLicense = "users_license_number_key"

// ImageUploader stores a file and returns its public URL.
type ImageUploader interface {
	UploadFile(ctx context.Context, body io.Reader, objectKey, contentType string) (string, error)
}

// UserService handles user accounts.
type UserService struct {
	userRepo repository.UserRepository
	uploader ImageUploader
}

// NewUserService creates a new UserService. uploader may be nil when no
// bucket is configured.
func NewUserService(userRepo repository.UserRepository, uploader ImageUploader) *UserService {
	return &UserService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

// UserInput carries the writable fields of a user. Password is the plain
// text password and is hashed before storage.
type UserInput struct {
	FullName      *string
	Email         *string
	Password      *string
	Role          *domain.Role
	Phone         *string
	HireDate      *time.Time
	LicenseNumber *string
	LicenseExpiry *time.Time
}

func (in UserInput) apply(u *domain.User) error {
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		u.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.HireDate != nil {
		u.HireDate = *in.HireDate
	}
	if in.LicenseNumber != nil {
		u.LicenseNumber = strings.TrimSpace(*in.LicenseNumber)
	}
	if in.LicenseExpiry != nil {
		u.LicenseExpiry = *in.LicenseExpiry
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return domain.NewValidationError("password", err.Error())
		}
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	return nil
}

// Create adds a new user. Users default to the driver role.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.New().String(),
		Role:      domain.RoleDriver,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := in.apply(user); err != nil {
		return nil, err
	}

	if err := domain.ValidateUser(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userConflict(err)
	}

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user created")

	return user, nil
}

// GetByID retrieves an active user.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if user.IsDeleted {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetAll lists active users, optionally restricted to one role.
func (s *UserService) GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx, role)
}

// GetDrivers lists active drivers.
func (s *UserService) GetDrivers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx, domain.RoleDriver)
}

// Update applies a partial update to an active user.
func (s *UserService) Update(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := in.apply(user); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateUser(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userConflict(notFoundAs(err, ErrUserNotFound))
	}
	return user, nil
}

// Delete soft-deletes a user. The account can no longer log in and is hidden
// from listings, but trips keep pointing at it.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SoftDelete(ctx, id); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	user.IsDeleted = true

	logrus.WithContext(ctx).WithField("user_id", id).Info("user deleted")
	return user, nil
}

// UploadProfileImage stores a profile picture and records its URL on the user.
func (s *UserService) UploadProfileImage(ctx context.Context, id, filename, contentType string, body io.Reader) (*domain.User, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	objectKey := "users/" + user.ID + "/" + uuid.New().String() + ext

	url, err := s.uploader.UploadFile(ctx, body, objectKey, contentType)
	if err != nil {
		return nil, err
	}

	user.ProfileImage = url
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return user, nil
}

// EnsureAdmin creates an admin account with the given credentials unless
// the email is already registered.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, fullName string) error {
	_, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	role := domain.RoleAdmin
	_, err = s.Create(ctx, UserInput{
		FullName: &fullName,
		Email:    &email,
		Password: &password,
		Role:     &role,
	})
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// userConflict maps unique violations of the users table to service errors.
func userConflict(err error) error {
	var dup *repository.DuplicateError
	if !errors.As(err, &dup) {
		return err
	}
	if dup.Constraint == constraintUserLicense {
		return ErrLicenseTaken
	}
	return ErrEmailTaken
}

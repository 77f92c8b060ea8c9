package repository

import (
	"context"

	"fleet/internal/domain"
)

// UserRepository defines the persistence operations for users.
// Soft-deleted users are only returned by GetByID and GetByEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error

	// SoftDelete flags the user as deleted.
	SoftDelete(ctx context.Context, id string) error
}

// RefreshTokenRepository defines the persistence operations for refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error)

	// Revoke marks the token revoked and records its replacement, if any.
	// It returns ErrNotFound when the token is missing or already revoked.
	Revoke(ctx context.Context, jti, replacedBy string) error

	// DeleteByJTI removes the token. Removing a missing token is not an error.
	DeleteByJTI(ctx context.Context, jti string) error
}

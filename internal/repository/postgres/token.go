package postgres

import (
	"context"
	"database/sql"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// RefreshTokenRepository stores refresh token records in PostgreSQL.
type RefreshTokenRepository struct {
	q Querier
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository.
func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{q: db}
}

// NewRefreshTokenRepositoryWithTx creates a refresh token repository using a transaction.
func NewRefreshTokenRepositoryWithTx(tx *sql.Tx) *RefreshTokenRepository {
	return &RefreshTokenRepository{q: tx}
}

// Create stores a newly issued token.
func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, jti, token_hash, expires_at, revoked, replaced_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.JTI,
		token.TokenHash,
		token.ExpiresAt,
		token.Revoked,
		nullString(token.ReplacedBy),
		token.CreatedAt,
	)
	return mapError(err)
}

// GetByJTI retrieves a token by its JWT ID.
func (r *RefreshTokenRepository) GetByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, jti, token_hash, expires_at, revoked, replaced_by, created_at
		FROM refresh_tokens WHERE jti = $1
	`

	var token domain.RefreshToken
	var replacedBy sql.NullString
	err := r.q.QueryRowContext(ctx, query, jti).Scan(
		&token.ID,
		&token.UserID,
		&token.JTI,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.Revoked,
		&replacedBy,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	token.ReplacedBy = replacedBy.String
	return &token, nil
}

// Revoke marks an active token revoked and records its replacement, if any.
// A token that is missing or already revoked yields repository.ErrNotFound.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, jti, replacedBy string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, replaced_by = $1 WHERE jti = $2 AND revoked = FALSE`
	return expectAffected(r.q.ExecContext(ctx, query, nullString(replacedBy), jti))
}

// DeleteByJTI removes the token. Removing a missing token is not an error.
func (r *RefreshTokenRepository) DeleteByJTI(ctx context.Context, jti string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE jti = $1`, jti)
	return err
}

// Ensure RefreshTokenRepository implements repository.RefreshTokenRepository.
var _ repository.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

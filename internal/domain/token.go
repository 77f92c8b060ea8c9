package domain

import "time"

// RefreshToken is the server-side record of an issued refresh token.
type RefreshToken struct {
	ID         string
	UserID     string
	JTI        string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy string
	CreatedAt  time.Time
}

// IsActive reports whether the token is neither revoked nor expired at now.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}

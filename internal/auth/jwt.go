package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fleet/internal/domain"
)

const issuer = "fleet-api"

// Token types carried in the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned for tokens that fail to parse or verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWrongTokenType is returned when a refresh token is used as an access token or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims represents the JWT claims. Subject holds the user ID and ID the jti.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	Type string      `json:"typ"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// IssuedRefreshToken is a freshly signed refresh token with its identity.
type IssuedRefreshToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// JWTManager handles JWT token generation and validation.
// Access and refresh tokens are signed with different secrets.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// AccessTTL returns the lifetime of access tokens.
func (m *JWTManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// GenerateAccessToken signs a short-lived access token for the user.
func (m *JWTManager) GenerateAccessToken(user *domain.User) (string, error) {
	now := m.now()
	claims := Claims{
		Role: user.Role,
		Type: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// GenerateRefreshToken signs a long-lived refresh token with a fresh jti.
func (m *JWTManager) GenerateRefreshToken(userID string) (*IssuedRefreshToken, error) {
	now := m.now()
	jti := uuid.New().String()
	expiresAt := now.Add(m.refreshTTL)

	claims := Claims{
		Type: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &IssuedRefreshToken{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// ValidateAccessToken verifies an access token and returns its claims.
func (m *JWTManager) ValidateAccessToken(token string) (*Claims, error) {
	return m.validate(token, m.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken verifies a refresh token and returns its claims.
func (m *JWTManager) ValidateRefreshToken(token string) (*Claims, error) {
	claims, err := m.validate(token, m.refreshSecret, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) validate(tokenString string, secret []byte, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// HashToken returns the hex SHA-256 digest stored in place of a raw refresh token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ExtractToken extracts the token from the Authorization header.
// Expected format: "Bearer <token>".
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is empty")
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization header format")
	}

	return strings.TrimSpace(token), nil
}

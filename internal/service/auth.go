package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fleet/internal/auth"
	"fleet/internal/domain"
	"fleet/internal/repository"
)

// AuthService issues, refreshes and revokes credential pairs.
type AuthService struct {
	tx            repository.Transactor
	userRepo      repository.UserRepository
	tokenRepo     repository.RefreshTokenRepository
	users         *UserService
	jwtManager    *auth.JWTManager
	rotateRefresh bool
	now           func() time.Time
}

// NewAuthService creates a new AuthService. With rotateRefresh set, every
// refresh revokes the presented token and returns a new one.
func NewAuthService(
	tx repository.Transactor,
	repos repository.Repositories,
	users *UserService,
	jwtManager *auth.JWTManager,
	rotateRefresh bool,
) *AuthService {
	return &AuthService{
		tx:            tx,
		userRepo:      repos.Users,
		tokenRepo:     repos.Tokens,
		users:         users,
		jwtManager:    jwtManager,
		rotateRefresh: rotateRefresh,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// AuthResult is the outcome of a successful authentication. RefreshToken is
// empty when a refresh did not rotate the token.
type AuthResult struct {
	User                  *domain.User
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time

	refreshJTI string
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Email    string
	Password string
	FullName string
	Role     domain.Role
	Phone    string
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	in := UserInput{
		FullName: &req.FullName,
		Email:    &req.Email,
		Password: &req.Password,
		Phone:    &req.Phone,
	}
	if req.Role != "" {
		in.Role = &req.Role
	}

	user, err := s.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	return s.issuePair(ctx, s.tokenRepo, user)
}

// Login checks the credentials and issues a fresh pair. Every failure
// returns the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.IsDeleted || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issuePair(ctx, s.tokenRepo, user)
	if err != nil {
		return nil, err
	}

	logrus.WithContext(ctx).WithField("user_id", user.ID).Info("user logged in")
	return result, nil
}

// issuePair signs an access and a refresh token and stores the refresh token hash.
func (s *AuthService) issuePair(ctx context.Context, tokens repository.RefreshTokenRepository, user *domain.User) (*AuthResult, error) {
	access, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	record := &domain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		JTI:       refresh.JTI,
		TokenHash: auth.HashToken(refresh.Token),
		ExpiresAt: refresh.ExpiresAt,
		CreatedAt: s.now(),
	}
	if err := tokens.Create(ctx, record); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:                  user,
		AccessToken:           access,
		RefreshToken:          refresh.Token,
		RefreshTokenExpiresAt: refresh.ExpiresAt,
		refreshJTI:            refresh.JTI,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*AuthResult, error) {
	if raw == "" {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := s.jwtManager.ValidateRefreshToken(raw)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	record, err := s.tokenRepo.GetByJTI(ctx, claims.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if !record.IsActive(s.now()) || record.UserID != claims.UserID() {
		return nil, ErrInvalidRefreshToken
	}
	if subtle.ConstantTimeCompare([]byte(record.TokenHash), []byte(auth.HashToken(raw))) != 1 {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, record.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, ErrInvalidRefreshToken
	}

	if !s.rotateRefresh {
		access, err := s.jwtManager.GenerateAccessToken(user)
		if err != nil {
			return nil, err
		}
		return &AuthResult{User: user, AccessToken: access}, nil
	}

	var result *AuthResult
	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		result, err = s.issuePair(ctx, repos.Tokens, user)
		if err != nil {
			return err
		}
		err = repos.Tokens.Revoke(ctx, record.JTI, result.refreshJTI)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithContext(ctx).WithField("user_id", user.ID).Info("refresh token rotated")
	return result, nil
}

// Logout deletes the stored refresh token. A token that was already removed
// is not an error, but the signature must still verify.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.jwtManager.ValidateRefreshToken(raw)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenRepo.DeleteByJTI(ctx, claims.ID)
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/middleware"
	"fleet/internal/service"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *service.AuthService
	cookieMaxAge time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, cookieMaxAge time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
	}
}

// RegisterRequest is the HTTP request body for registration.
type RegisterRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	FullName string      `json:"fullName" binding:"required"`
	Role     domain.Role `json:"role"`
	Phone    string      `json:"phone"`
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the optional body of refresh and logout when no cookie is sent.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken,omitempty"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	// Only an authenticated admin may create another admin.
	if req.Role == domain.RoleAdmin {
		if role, _ := middleware.RoleFromContext(c); role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "only an admin can create an admin account"})
			return
		}
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	respondMessage(c, http.StatusCreated, "account created", newAuthResponse(result))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	respondJSON(c, http.StatusOK, newAuthResponse(result))
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	result, err := h.authService.Refresh(c.Request.Context(), refreshTokenFromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if result.RefreshToken != "" {
		h.setRefreshCookie(c, result.RefreshToken)
	}
	respondJSON(c, http.StatusOK, newAuthResponse(result))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), refreshTokenFromRequest(c)); err != nil {
		respondError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, Envelope{Success: true, Message: "logged out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newUserResponse(user))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// refreshTokenFromRequest reads the refresh cookie, falling back to the JSON body.
func refreshTokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(refreshCookieName); err == nil && token != "" {
		return token
	}
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func newAuthResponse(result *service.AuthResult) AuthResponse {
	resp := AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
	if result.User != nil {
		user := newUserResponse(result.User)
		resp.User = &user
	}
	return resp
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet/internal/auth"
	"fleet/internal/domain"
)

// Context keys set by Authenticate.
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
)

// TokenValidator verifies access tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// Authenticate verifies the bearer access token and puts the user into the context.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, "authorization token required")
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuthenticate behaves like Authenticate when a bearer token is sent
// and lets anonymous requests through untouched.
func OptionalAuthenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		Authenticate(validator)(c)
	}
}

// Authorize allows the request only when the authenticated user has one of the roles.
func Authorize(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "you do not have permission to access this resource")
	}
}

// UserIDFromContext returns the authenticated user ID.
func UserIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}

// RoleFromContext returns the authenticated user's role.
func RoleFromContext(c *gin.Context) (domain.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(domain.Role)
	return role, ok
}

func setUser(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID())
	c.Set(ContextRole, claims.Role)
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}

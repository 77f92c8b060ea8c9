package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicUser tags the New Relic transaction started by nrgin with the
// authenticated user and records handler errors on it. It must run after
// Authenticate.
func NewRelicUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		if userID, ok := UserIDFromContext(c); ok {
			txn.AddAttribute("userId", userID)
		}
		if role, ok := RoleFromContext(c); ok {
			txn.AddAttribute("userRole", string(role))
		}

		c.Next()

		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}

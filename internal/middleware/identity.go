package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-tracker/internal/models"
)

// ContextIdentityKey is the gin context key storing the caller identity.
const ContextIdentityKey = "currentIdentity"

type tokenValidator interface {
	ValidateToken(token string) (*models.Identity, error)
}

// Identity attaches the identity carried by a bearer token or the session
// cookie. It never blocks: routes stay reachable without an identity.
func Identity(validator tokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cookieName != "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				token = cookie
			}
		}
		if token != "" {
			if identity, err := validator.ValidateToken(token); err == nil {
				c.Set(ContextIdentityKey, identity)
			}
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity attached by Identity, if any.
func IdentityFromContext(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

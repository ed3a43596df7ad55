package app

import (
	"net/http"
	"strings"

	"tooltrack/models"
	"tooltrack/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	CtxEmail = "email"
	CtxName  = "name"
	CtxRole  = "role"
)

// AuthRequired extracts the bearer token, verifies it, and establishes the
// caller's identity and role for the rest of the chain.
func AuthRequired(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		claims, err := issuer.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid or expired token"})
			return
		}
		c.Set(CtxEmail, claims.Subject)
		c.Set(CtxName, claims.Name)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// AdminOnly gates admin endpoints. Must run after AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return requireRole(models.RoleAdmin)
}

// StaffOnly admits staff and admins.
func StaffOnly() gin.HandlerFunc {
	return requireRole(models.RoleAdmin, models.RoleStaff)
}

func requireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		role, _ := v.(models.Role)
		for _, want := range allowed {
			if role == want {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

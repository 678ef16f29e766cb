package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"grubz/models"
)

const principalContextKey = "auth.principal"

// Middleware returns a gin handler that extracts and validates a Bearer JWT
// from the Authorization header and injects the Principal into the request
// context. Requests without a valid token are rejected with 401.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := ParseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth error: " + err.Error()})
			return
		}
		c.Set(principalContextKey, p)
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequirePrincipal ensures a principal is present on the gin context.
func RequirePrincipal(c *gin.Context) (*Principal, error) {
	v, ok := c.Get(principalContextKey)
	if !ok {
		return nil, errors.New("missing principal")
	}
	p, ok := v.(*Principal)
	if !ok {
		return nil, errors.New("missing principal")
	}
	return p, nil
}

// RequireRole returns a gin handler that rejects callers whose role is not in
// the allowed set. It must run after Middleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, err := RequirePrincipal(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role not permitted"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artmarket/internal/core/auth"
	"artmarket/internal/domain"
	"artmarket/internal/transport/http/ez"
	resp "artmarket/internal/transport/http/response"
)

// Resolver turns a bearer token into an identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

type Guard struct {
	Resolver      Resolver
	RequireActive bool
	Log           *zap.Logger
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func (g Guard) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(ah, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			resp.Abort(c, http.StatusUnauthorized, "")
			return
		}
		id, err := g.Resolver.Resolve(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			ez.Fail(c, g.Log, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// Authorize admits only the given roles. Must run after Authenticate.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ez.Caller(c)
		if id == nil {
			resp.Abort(c, http.StatusUnauthorized, "")
			return
		}
		if !id.HasRole(roles...) {
			resp.Abort(c, http.StatusForbidden, "User role "+id.Role+" is not authorized to access this route")
			return
		}
		c.Next()
	}
}

// Active blocks accounts an admin has not activated, when the policy is on.
func (g Guard) Active() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.RequireActive {
			c.Next()
			return
		}
		id := ez.Caller(c)
		if id == nil {
			resp.Abort(c, http.StatusUnauthorized, "")
			return
		}
		if !id.IsActive && id.Role != domain.RoleSuperAdmin {
			resp.Abort(c, http.StatusForbidden, "Account is not active")
			return
		}
		c.Next()
	}
}

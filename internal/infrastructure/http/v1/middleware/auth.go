package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"docengine/internal/core/apperror"
	appctx "docengine/internal/core/context"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
)

// Authenticator resolves a bearer token to the operator it was issued to.
type Authenticator interface {
	Authenticate(token string) (id.ID, string, error)
}

// Auth middleware validates bearer tokens and binds the operator as the
// owner of every store call made while serving the request.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		owner, email, err := auth.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := tenant.WithOwner(c.Request.Context(), owner)
		ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: owner.String(), Email: email})
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", owner.String())

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewAuthRequired(message))
	c.Abort()
}

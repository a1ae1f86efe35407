package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

const actorContextKey = "actor"

// TokenVerifier checks an access token and returns the username it was
// issued to. Rejected tokens yield an error with domain.CodeUnauthorized.
type TokenVerifier interface {
	VerifyAccess(ctx context.Context, token string) (string, error)
}

// Auth returns a gin middleware that requires an "Authorization: Bearer
// <access token>" header. Requests without a valid access token are aborted
// with a 401 envelope; a failing account lookup yields a 500 envelope. The
// username is stored as the request actor and attached to the logging
// context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			pkg.Abort(c, domain.ErrUnauthorized)
			return
		}

		username, err := verifier.VerifyAccess(c.Request.Context(), strings.TrimSpace(token))
		switch {
		case err == nil:
		case domain.IsUnauthorized(err):
			slog.DebugContext(c.Request.Context(), "access token rejected", "error", err)
			pkg.Abort(c, domain.ErrUnauthorized)
			return
		default:
			slog.ErrorContext(c.Request.Context(), "access token check failed", "error", err)
			pkg.Abort(c, err)
			return
		}

		SetActor(c, username)
		ctx := logger.WithContextAttrs(c.Request.Context(), slog.String("actor", username))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SetActor records the authenticated username on the gin.Context.
func SetActor(c *gin.Context, username string) {
	c.Set(actorContextKey, username)
}

// Actor returns the authenticated username, or "" for anonymous requests.
func Actor(c *gin.Context) string {
	return c.GetString(actorContextKey)
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
	"github.com/Monalisa-XD/Academix/pkg/response"
)

// ContextSessionKey is the gin context key storing the console session.
const ContextSessionKey = "consoleSession"

// SessionResolver maps a session token to its live session.
type SessionResolver interface {
	Current(ctx context.Context, token string) (*models.Session, error)
}

// SessionToken reads the session token from a Bearer Authorization header,
// falling back to the session cookie.
func SessionToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// RequireSession lets a request through only with a live session. Rejected
// callers get the "not logged in" payload pointing at loginPath.
func RequireSession(sessions SessionResolver, cookieName, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessions.Current(c.Request.Context(), SessionToken(c, cookieName))
		if err != nil {
			response.Error(c, appErrors.ErrNotAuthenticated, map[string]interface{}{"login": loginPath})
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// CurrentSession returns the session attached by RequireSession.
func CurrentSession(c *gin.Context) *models.Session {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}

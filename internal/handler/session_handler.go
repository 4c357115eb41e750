package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/internal/middleware"
	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/internal/service"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
	"github.com/Monalisa-XD/Academix/pkg/response"
)

type sessionGate interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, token string) (string, error)
}

// CookieOptions controls the session cookie set at login.
type CookieOptions struct {
	Name   string
	Path   string
	Secure bool
}

// SessionHandler signs console callers in and out.
type SessionHandler struct {
	sessions sessionGate
	console  *service.Console
	cookie   CookieOptions
	logger   *zap.Logger
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(sessions sessionGate, console *service.Console, cookie CookieOptions, logger *zap.Logger) *SessionHandler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, console: console, cookie: cookie, logger: logger}
}

// Login godoc
// @Summary Sign in to the console
// @Description Exchanges the credentials with the roster backend. A rejection carries the backend's message.
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /console/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.cookie.Name != "" {
		maxAge := int(time.Until(res.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookie.Name, res.Token, maxAge, h.cookie.Path, "", h.cookie.Secure, true)
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Sign out
// @Description Clears the session and its workspace. Unknown sessions are ignored.
// @Tags Session
// @Success 204
// @Router /console/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	sessionID, err := h.sessions.Logout(c.Request.Context(), middleware.SessionToken(c, h.cookie.Name))
	if err != nil {
		response.Error(c, err)
		return
	}
	if sessionID != "" {
		h.console.Drop(sessionID)
	}
	if h.cookie.Name != "" {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookie.Name, "", -1, h.cookie.Path, "", h.cookie.Secure, true)
	}
	response.NoContent(c)
}

// Current godoc
// @Summary Current session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /console/session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ws := h.console.Workspace(session)
	response.JSON(c, http.StatusOK, session, nil, map[string]interface{}{
		"active_tab": ws.ActiveTab(),
		"tabs":       service.Tabs,
	})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Monalisa-XD/Academix/internal/middleware"
	"github.com/Monalisa-XD/Academix/internal/models"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

func sessionFromContext(c *gin.Context) (*models.Session, error) {
	session := middleware.CurrentSession(c)
	if session == nil {
		return nil, appErrors.ErrNotAuthenticated
	}
	return session, nil
}

// rejectedLocally reports whether err came from the caller's input rather than
// the remote store. Remote failures are already logged by the controller.
func rejectedLocally(err error) bool {
	if err == nil {
		return false
	}
	code := appErrors.FromError(err).Code
	return code == appErrors.ErrValidation.Code || code == appErrors.ErrNotFound.Code
}

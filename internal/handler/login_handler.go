package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/pkg/response"
)

type authenticator interface {
	Authenticate(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
}

// LoginHandler answers the roster backend's login exchange.
type LoginHandler struct {
	admins authenticator
}

// NewLoginHandler constructs LoginHandler.
func NewLoginHandler(admins authenticator) *LoginHandler {
	return &LoginHandler{admins: admins}
}

// Login godoc
// @Summary Check administrator credentials
// @Description Always answers {success,user,message}; rejected credentials get 401.
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResult
// @Failure 401 {object} models.LoginResult
// @Router /login [post]
func (h *LoginHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.LoginResult{Success: false, Message: "email and password are required"})
		return
	}
	result, err := h.admins.Authenticate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnauthorized
	}
	c.JSON(status, result)
}

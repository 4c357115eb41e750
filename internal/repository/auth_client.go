package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Monalisa-XD/Academix/internal/models"
)

const loginPath = "/login"

// AuthClient performs the credential exchange against the roster backend.
type AuthClient struct {
	client *RemoteClient
}

// NewAuthClient builds an AuthClient sharing client's transport.
func NewAuthClient(client *RemoteClient) *AuthClient {
	return &AuthClient{client: client}
}

// Login posts the credentials. A rejected login is not an error: the result
// carries success=false and the backend's message, whatever the status code.
func (a *AuthClient) Login(ctx context.Context, req models.LoginRequest) (result *models.LoginResult, err error) {
	start := time.Now()
	defer func() {
		if a.client.observer != nil {
			a.client.observer.ObserveRemoteCall("login", "login", time.Since(start), err)
		}
	}()

	status, raw, err := a.client.send(ctx, http.MethodPost, loginPath, req)
	if err != nil {
		return nil, remoteError(http.MethodPost, loginPath, err)
	}

	var out models.LoginResult
	if err := json.Unmarshal(raw, &out); err != nil {
		if status < 200 || status > 299 {
			return nil, remoteError(http.MethodPost, loginPath, fmt.Errorf("unexpected status %d: %s", status, snippet(raw)))
		}
		return nil, remoteError(http.MethodPost, loginPath, fmt.Errorf("decode response: %w", err))
	}
	if out.Success && out.User == nil {
		return nil, remoteError(http.MethodPost, loginPath, errors.New("successful login without user"))
	}
	return &out, nil
}

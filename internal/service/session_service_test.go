package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/internal/repository"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

type fakeExchanger struct {
	result *models.LoginResult
	err    error
	calls  int
}

func (f *fakeExchanger) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	f.calls++
	return f.result, f.err
}

type gaugeRecorder struct {
	values []int
}

func (g *gaugeRecorder) SetActiveSessions(n int) {
	g.values = append(g.values, n)
}

func newSessionService(exchanger *fakeExchanger) (*SessionService, *gaugeRecorder) {
	gauge := &gaugeRecorder{}
	svc := NewSessionService(repository.NewMemorySessionRepository(), exchanger, nil, nil, gauge, SessionConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
		Issuer: "academix-test",
	})
	return svc, gauge
}

func adminResult() *models.LoginResult {
	return &models.LoginResult{Success: true, User: &models.SessionUser{ID: "a1", Name: "Admin", Email: "admin@example.com"}}
}

func TestSessionServiceLoginAndCurrent(t *testing.T) {
	svc, gauge := newSessionService(&fakeExchanger{result: adminResult()})
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "admin@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Admin", resp.User.Name)
	assert.Equal(t, []int{1}, gauge.values)

	session, err := svc.Current(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "a1", session.User.ID)
	assert.WithinDuration(t, session.CreatedAt.Add(time.Hour), session.ExpiresAt, time.Second)

	id, err := svc.Logout(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, id)
	assert.Equal(t, []int{1, 0}, gauge.values)

	_, err = svc.Current(ctx, resp.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotAuthenticated.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceLoginRejected(t *testing.T) {
	exchanger := &fakeExchanger{result: &models.LoginResult{Success: false, Message: "Invalid credentials"}}
	svc, gauge := newSessionService(exchanger)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "bad"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, "Invalid credentials", appErr.Message)
	assert.Empty(t, gauge.values)
}

func TestSessionServiceLoginWithoutUser(t *testing.T) {
	svc, _ := newSessionService(&fakeExchanger{result: &models.LoginResult{Success: true}})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "secret"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Message, appErr.Message)
}

func TestSessionServiceLoginValidation(t *testing.T) {
	exchanger := &fakeExchanger{result: adminResult()}
	svc, _ := newSessionService(exchanger)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, exchanger.calls)
}

func TestSessionServiceLoginTransportFailure(t *testing.T) {
	remote := appErrors.Wrap(errors.New("dial tcp: refused"), appErrors.ErrRemoteStore.Code, appErrors.ErrRemoteStore.Status, "POST /login failed")
	svc, _ := newSessionService(&fakeExchanger{err: remote})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "x"})
	assert.Equal(t, appErrors.ErrRemoteStore.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceRejectsForeignTokens(t *testing.T) {
	svc, _ := newSessionService(&fakeExchanger{result: adminResult()})
	ctx := context.Background()

	_, err := svc.Current(ctx, "")
	require.Error(t, err)

	_, err = svc.Current(ctx, "not.a.jwt")
	require.Error(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.SessionClaims{
		SessionID:        "s1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "academix-test", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Current(ctx, signed)
	require.Error(t, err)

	id, err := svc.Logout(ctx, signed)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSessionServiceExpiredToken(t *testing.T) {
	svc, _ := newSessionService(&fakeExchanger{result: adminResult()})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "secret"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Current(context.Background(), resp.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotAuthenticated.Status, appErrors.FromError(err).Status)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/internal/repository"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

type adminRepoMock struct {
	admins    map[string]*models.Admin
	findErr   error
	createErr error
	created   *models.Admin
}

func (m *adminRepoMock) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	admin, ok := m.admins[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return admin, nil
}

func (m *adminRepoMock) Create(ctx context.Context, admin *models.Admin) error {
	if m.createErr != nil {
		return m.createErr
	}
	admin.ID = "a-new"
	m.created = admin
	return nil
}

func newAdminService(t *testing.T) (*AdminService, *adminRepoMock) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &adminRepoMock{admins: map[string]*models.Admin{
		"admin@example.com": {ID: "a1", Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash)},
	}}
	svc := NewAdminService(repo, nil, nil)
	svc.cost = bcrypt.MinCost
	return svc, repo
}

func TestAdminServiceAuthenticate(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()

	ok, err := svc.Authenticate(ctx, models.LoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.True(t, ok.Success)
	assert.Equal(t, &models.SessionUser{ID: "a1", Name: "Admin", Email: "admin@example.com"}, ok.User)

	for _, req := range []models.LoginRequest{
		{Email: "admin@example.com", Password: "wrong"},
		{Email: "ghost@example.com", Password: "correct-horse"},
		{Email: "", Password: ""},
	} {
		res, err := svc.Authenticate(ctx, req)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Nil(t, res.User)
		assert.Equal(t, invalidCredentialsMessage, res.Message)
	}
}

func TestAdminServiceAuthenticateStoreFailure(t *testing.T) {
	svc, repo := newAdminService(t)
	repo.findErr = errors.New("db down")

	_, err := svc.Authenticate(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestAdminServiceCreateAdmin(t *testing.T) {
	svc, repo := newAdminService(t)

	_, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{Name: "New", Email: "new@example.com", Password: "short"})
	require.Error(t, err)

	admin, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{Name: " New ", Email: " New@Example.com ", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, "a-new", admin.ID)
	assert.Equal(t, "new@example.com", repo.created.Email)
	assert.Equal(t, "New", repo.created.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("long-enough")))
}

func TestAdminServiceCreateAdminDuplicate(t *testing.T) {
	svc, repo := newAdminService(t)

	_, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{Name: "Dup", Email: "Admin@Example.com", Password: "long-enough"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)

	repo.createErr = repository.ErrAdminExists
	_, err = svc.CreateAdmin(context.Background(), CreateAdminRequest{Name: "Race", Email: "race@example.com", Password: "long-enough"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

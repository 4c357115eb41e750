package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monalisa-XD/Academix/internal/models"
)

func TestAdminRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
		AddRow("a1", "Admin", "admin@example.com", "hash", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, created_at FROM admins WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("Admin@Example.com").
		WillReturnRows(rows)

	admin, err := repo.FindByEmail(context.Background(), "Admin@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
	assert.Equal(t, "hash", admin.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectQuery("FROM admins").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAdminRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO admins").WillReturnResult(sqlmock.NewResult(1, 1))

	admin := &models.Admin{Name: "Admin", Email: "admin@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), admin))
	assert.NotEmpty(t, admin.ID)
	assert.False(t, admin.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	for range schemaStatements {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS admins").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := EnsureSchema(context.Background(), db)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO admins").WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.Admin{Name: "Admin", Email: "admin@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrAdminExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

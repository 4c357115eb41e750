package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monalisa-XD/Academix/internal/models"
)

func TestMemorySessionRepositoryLifecycle(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	live := &models.Session{ID: "s1", User: models.SessionUser{ID: "a1"}, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := &models.Session{ID: "s2", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Save(ctx, live))
	require.NoError(t, repo.Save(ctx, stale))

	got, err := repo.Find(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.User.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.Find(ctx, "s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, repo.Delete(ctx, "s1"))
	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Find(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepositoryEvictsExpiredOnSave(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &models.Session{ID: id, ExpiresAt: now.Add(time.Minute)}))
	}
	require.Len(t, repo.sessions, 3)

	now = now.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, &models.Session{ID: "d", ExpiresAt: now.Add(time.Minute)}))
	assert.Len(t, repo.sessions, 1)

	now = now.Add(time.Hour)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, repo.sessions)
}

func newRedisSessionRepo(now time.Time) (*RedisSessionRepository, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepository(client)
	repo.now = func() time.Time { return now }
	return repo, mock
}

func TestRedisSessionRepositorySaveUsesRemainingLifetime(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	repo, mock := newRedisSessionRepo(now)
	session := &models.Session{ID: "s1", User: models.SessionUser{ID: "a1"}, CreatedAt: now, ExpiresAt: now.Add(30 * time.Minute)}
	payload, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectSet("academix:session:s1", payload, 30*time.Minute).SetVal("OK")
	require.NoError(t, repo.Save(context.Background(), session))

	expired := &models.Session{ID: "s2", ExpiresAt: now.Add(-time.Second)}
	require.NoError(t, repo.Save(context.Background(), expired))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepositoryFind(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	repo, mock := newRedisSessionRepo(now)
	live, err := json.Marshal(models.Session{ID: "s1", User: models.SessionUser{ID: "a1"}, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	stale, err := json.Marshal(models.Session{ID: "s2", ExpiresAt: now.Add(-time.Hour)})
	require.NoError(t, err)

	mock.ExpectGet("academix:session:s1").SetVal(string(live))
	mock.ExpectGet("academix:session:s2").SetVal(string(stale))
	mock.ExpectGet("academix:session:s3").RedisNil()
	mock.ExpectGet("academix:session:s4").SetErr(errors.New("connection reset"))

	got, err := repo.Find(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.User.ID)

	_, err = repo.Find(context.Background(), "s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = repo.Find(context.Background(), "s3")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = repo.Find(context.Background(), "s4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepositoryDeleteAndCount(t *testing.T) {
	repo, mock := newRedisSessionRepo(time.Now())

	mock.ExpectDel("academix:session:s1").SetVal(1)
	mock.ExpectScan(0, "academix:session:*", 100).SetVal([]string{"academix:session:a", "academix:session:b"}, 0)

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionKeyIsNamespaced(t *testing.T) {
	assert.Equal(t, "academix:session:abc", sessionKey("abc"))
}

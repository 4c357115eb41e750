package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/pkg/cache"
)

// ErrSessionNotFound is returned for absent or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores console sessions by id.
type SessionRepository interface {
	Save(ctx context.Context, session *models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

var (
	_ SessionRepository = (*MemorySessionRepository)(nil)
	_ SessionRepository = (*RedisSessionRepository)(nil)
)

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	now      func() time.Time
}

// NewMemorySessionRepository builds an empty in-memory store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: map[string]models.Session{}, now: time.Now}
}

// Save stores or replaces session, evicting expired entries.
func (r *MemorySessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictExpiredLocked()
	r.sessions[session.ID] = *session
	return nil
}

// Find returns the live session with id. Expired entries are evicted.
func (r *MemorySessionRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(r.now()) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the session with id. Deleting an absent session is a no-op.
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Count evicts expired entries and returns the number of live sessions.
func (r *MemorySessionRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictExpiredLocked()
	return len(r.sessions), nil
}

func (r *MemorySessionRepository) evictExpiredLocked() {
	now := r.now()
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
		}
	}
}

// RedisSessionRepository keeps sessions in Redis with a TTL matching the
// session expiry.
type RedisSessionRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisSessionRepository builds a Redis-backed store.
func NewRedisSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, now: time.Now}
}

func sessionKey(id string) string {
	return cache.Key("session", id)
}

// Save stores session until its expiry.
func (r *RedisSessionRepository) Save(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return nil
		}
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Find returns the session with id.
func (r *RedisSessionRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.Expired(r.now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the session with id.
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Count scans the session keyspace.
func (r *RedisSessionRepository) Count(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, sessionKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

// RemoteObserver receives the outcome of every call to the roster backend.
type RemoteObserver interface {
	ObserveRemoteCall(entity, op string, duration time.Duration, err error)
}

// RemoteClient speaks JSON to the roster backend. It attaches no credentials.
type RemoteClient struct {
	baseURL  string
	http     *http.Client
	observer RemoteObserver
}

// NewRemoteClient builds a client rooted at baseURL. A zero timeout leaves
// requests bounded only by their context.
func NewRemoteClient(baseURL string, timeout time.Duration, observer RemoteObserver) *RemoteClient {
	return &RemoteClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		observer: observer,
	}
}

// BaseURL returns the backend root the client talks to.
func (c *RemoteClient) BaseURL() string {
	return c.baseURL
}

// send performs one request and returns the status and raw body. Only
// transport failures are errors here.
func (c *RemoteClient) send(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// call sends a request, requires a 2xx status and decodes the body into out
// when out is non-nil. Every failure is a REMOTE_STORE_ERROR.
func (c *RemoteClient) call(ctx context.Context, entity, op, method, path string, body, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRemoteCall(entity, op, time.Since(start), err)
		}
	}()

	status, raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return remoteError(method, path, err)
	}
	if status < 200 || status > 299 {
		return remoteError(method, path, fmt.Errorf("unexpected status %d: %s", status, snippet(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return remoteError(method, path, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func remoteError(method, path string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrRemoteStore.Code, appErrors.ErrRemoteStore.Status,
		fmt.Sprintf("%s %s failed", method, path))
}

func snippet(raw []byte) string {
	const max = 200
	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// RemoteStore mirrors one backend collection: GET /{entity}, POST /{entity},
// PUT /{entity}/{id}, DELETE /{entity}/{id}.
type RemoteStore[T any] struct {
	client *RemoteClient
	entity string
	id     func(T) string
}

// NewRemoteStore builds the store for entity. id extracts a record's identifier.
func NewRemoteStore[T any](client *RemoteClient, entity string, id func(T) string) *RemoteStore[T] {
	return &RemoteStore[T]{client: client, entity: entity, id: id}
}

func (s *RemoteStore[T]) collectionPath() string {
	return "/" + s.entity
}

func (s *RemoteStore[T]) recordPath(id string) string {
	return "/" + s.entity + "/" + url.PathEscape(id)
}

// List fetches the whole collection.
func (s *RemoteStore[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := s.client.call(ctx, s.entity, "list", http.MethodGet, s.collectionPath(), nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Create posts record and returns the stored copy, id included.
func (s *RemoteStore[T]) Create(ctx context.Context, record T) (T, error) {
	var created T
	if err := s.client.call(ctx, s.entity, "create", http.MethodPost, s.collectionPath(), record, &created); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update sends the full record. The response body is ignored.
func (s *RemoteStore[T]) Update(ctx context.Context, record T) error {
	return s.client.call(ctx, s.entity, "update", http.MethodPut, s.recordPath(s.id(record)), record, nil)
}

// Delete removes the record with id. The response body is ignored.
func (s *RemoteStore[T]) Delete(ctx context.Context, id string) error {
	return s.client.call(ctx, s.entity, "delete", http.MethodDelete, s.recordPath(id), nil, nil)
}

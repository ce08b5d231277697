// Package session holds the dashboard's session state, its durable record
// and the per-client registry the HTTP layer resolves stores from.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by a Storage when the key does not exist
var ErrNotFound = errors.New("session: key not found")

// Storage is the durable key/value substrate the session record lives in.
// Reads and writes are atomic per key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Clock supplies the wall-clock time used for expiry decisions
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the real time
var SystemClock Clock = systemClock{}

// MemoryStorage keeps records in process memory
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

type prefixedStorage struct {
	inner  Storage
	prefix string
}

// WithPrefix scopes every key of s under prefix. Each client gets its own
// namespace so the record key inside it stays the same.
func WithPrefix(s Storage, prefix string) Storage {
	return &prefixedStorage{inner: s, prefix: prefix}
}

func (p *prefixedStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixedStorage) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixedStorage) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

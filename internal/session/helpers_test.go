package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/findosh/tourdesk/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingStorage records how often the substrate is written to
type countingStorage struct {
	*MemoryStorage
	mu      sync.Mutex
	sets    int
	deletes int
}

func newCountingStorage() *countingStorage {
	return &countingStorage{MemoryStorage: NewMemoryStorage()}
}

func (c *countingStorage) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryStorage.Set(ctx, key, value)
}

func (c *countingStorage) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.deletes++
	c.mu.Unlock()
	return c.MemoryStorage.Delete(ctx, key)
}

func (c *countingStorage) writes() (sets, deletes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets, c.deletes
}

type failingStorage struct{}

var errStorageDown = errors.New("storage down")

func (failingStorage) Get(context.Context, string) ([]byte, error) { return nil, errStorageDown }
func (failingStorage) Set(context.Context, string, []byte) error   { return errStorageDown }
func (failingStorage) Delete(context.Context, string) error        { return errStorageDown }

func testUser(role models.Role) *models.User {
	lastActive := time.Date(2025, 2, 14, 18, 30, 0, 0, time.UTC)
	return &models.User{
		ID:         uuid.MustParse("6f1c2b8e-3d4a-4c59-9e61-2a7b8c9d0e1f"),
		Name:       "Admin Jávea",
		Email:      "admin@javea.es",
		Role:       role,
		Language:   models.LanguageSpanish,
		CreatedAt:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		LastActive: &lastActive,
		IsActive:   true,
	}
}

func assertSameUser(t *testing.T, got, want *models.User) {
	t.Helper()
	if got == nil {
		t.Fatal("Expected a user, got nil")
	}
	if got.ID != want.ID || got.Name != want.Name || got.Email != want.Email ||
		got.Role != want.Role || got.Language != want.Language || got.IsActive != want.IsActive {
		t.Errorf("User mismatch: got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %s, want %s", got.CreatedAt, want.CreatedAt)
	}
	switch {
	case (got.LastActive == nil) != (want.LastActive == nil):
		t.Errorf("LastActive presence mismatch: got %v, want %v", got.LastActive, want.LastActive)
	case got.LastActive != nil && !got.LastActive.Equal(*want.LastActive):
		t.Errorf("LastActive = %s, want %s", got.LastActive, want.LastActive)
	}
}

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/findosh/tourdesk/internal/models"
)

// ErrEmptyClientID is returned when a store is requested without a client id
var ErrEmptyClientID = errors.New("session: empty client id")

// RegistryConfig configures a Registry
type RegistryConfig struct {
	Storage         Storage
	TTL             time.Duration
	Clock           Clock
	Logger          zerolog.Logger
	DefaultLanguage models.Language

	// Shared means other processes write to Storage too. Cached stores are
	// then refreshed from their record on every Get.
	Shared bool
}

// Registry owns one Store per client. A store's durable record lives under
// the "client:<id>:" namespace of the shared storage.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	cfg     RegistryConfig

	// expiry of every signed-in client seen by this registry, pruned or not
	sessions map[string]time.Time
}

type clientEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if !cfg.DefaultLanguage.Valid() {
		cfg.DefaultLanguage = models.DefaultLanguage
	}
	return &Registry{
		clients:  make(map[string]*clientEntry),
		cfg:      cfg,
		sessions: make(map[string]time.Time),
	}
}

// Get returns the hydrated store for clientID, creating it on first use
func (r *Registry) Get(ctx context.Context, clientID string) (*Store, error) {
	if clientID == "" {
		return nil, ErrEmptyClientID
	}

	now := r.cfg.Clock.Now()

	r.mu.Lock()
	if e, ok := r.clients[clientID]; ok {
		e.lastSeen = now
		r.mu.Unlock()
		if r.cfg.Shared {
			e.store.Refresh(ctx)
		}
		return e.store, nil
	}
	r.mu.Unlock()

	// hydrate unlocked; a concurrent Get for the same id may win the insert
	store := r.newStore(clientID)
	store.Hydrate(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.clients[clientID]; ok {
		e.lastSeen = now
		return e.store, nil
	}
	r.clients[clientID] = &clientEntry{store: store, lastSeen: now}
	return store, nil
}

func (r *Registry) newStore(clientID string) *Store {
	log := r.cfg.Logger.With().Str("client_id", clientID).Logger()
	p := NewPersistence(WithPrefix(r.cfg.Storage, "client:"+clientID+":"), r.cfg.TTL, r.cfg.Clock)
	store := NewStore(p, WithLogger(log), WithLanguage(r.cfg.DefaultLanguage))

	last := PhaseHydrating
	store.Subscribe(func(st State) {
		r.track(clientID, st)

		phase := PhaseOf(st)
		if phase == last {
			return
		}
		log.Debug().Str("from", string(last)).Str("to", string(phase)).Msg("session phase changed")
		last = phase
	})
	return store
}

// Prune drops stores not used for idle. Their durable records stay in
// storage and are re-hydrated on the next request. Returns the number
// of stores dropped.
func (r *Registry) Prune(idle time.Duration) int {
	cutoff := r.cfg.Clock.Now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, e := range r.clients {
		if e.lastSeen.Before(cutoff) {
			delete(r.clients, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of stores held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// track records the session expiry of clientID. It runs from the store's
// subscriber, under the store lock.
func (r *Registry) track(clientID string, st State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st.CurrentUser == nil || st.ExpiresAt == nil {
		delete(r.sessions, clientID)
		return
	}
	r.sessions[clientID] = *st.ExpiresAt
}

// ActiveSessions counts clients whose session has not yet expired,
// including clients whose store was pruned. Sessions opened through
// other processes sharing the storage are not counted.
func (r *Registry) ActiveSessions(ctx context.Context) int64 {
	now := r.cfg.Clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, expiresAt := range r.sessions {
		if !now.Before(expiresAt) {
			delete(r.sessions, id)
			continue
		}
		n++
	}
	return n
}

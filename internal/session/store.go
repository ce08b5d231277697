package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/findosh/tourdesk/internal/models"
)

// Store is the single source of truth for one client: who is logged in and
// the client's interface preferences. Actions are applied strictly in the
// order they are dispatched.
type Store struct {
	mu          sync.Mutex
	state       State
	persistence *Persistence
	clock       Clock
	log         zerolog.Logger

	listeners    []listener
	nextListener int
}

type listener struct {
	id int
	fn func(State)
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store's logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithLanguage sets the language a fresh client starts with
func WithLanguage(lang models.Language) Option {
	return func(s *Store) {
		if lang.Valid() {
			s.state.Language = lang
		}
	}
}

// WithClock overrides the clock used for expiry checks on read
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// NewStore creates an unhydrated store backed by p
func NewStore(p *Persistence, opts ...Option) *Store {
	s := &Store{
		state:       InitialState(models.DefaultLanguage),
		persistence: p,
		clock:       p.clock,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate reads the durable record and marks the store hydrated. Every
// failure degrades to "no user"; a second call is a no-op.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Hydrated {
		return
	}
	s.hydrateLocked(ctx)
}

func (s *Store) hydrateLocked(ctx context.Context) {
	user, expiresAt, err := s.persistence.Load(ctx)
	switch {
	case err == nil:
		s.log.Debug().Str("user_id", user.ID.String()).Time("expires_at", expiresAt).Msg("session restored")
		s.apply(Action{Type: actionHydrated, User: user, ExpiresAt: &expiresAt})
		return
	case errors.Is(err, ErrNoSession):
	case errors.Is(err, ErrCorruptSession), errors.Is(err, ErrExpiredSession):
		s.log.Debug().Err(err).Msg("session record discarded")
	default:
		s.log.Warn().Err(err).Msg("session record unreadable")
	}
	s.apply(Action{Type: actionHydrated})
}

// Refresh re-reads the durable record of a hydrated store and adopts it,
// so a login or logout written by another store over the same storage
// takes effect here. A storage failure keeps the current state.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Hydrated {
		s.hydrateLocked(ctx)
		return
	}

	user, expiresAt, err := s.persistence.Load(ctx)
	switch {
	case err == nil:
		cur := s.state.CurrentUser
		if cur != nil && cur.ID == user.ID && s.state.ExpiresAt != nil && s.state.ExpiresAt.Equal(expiresAt) {
			return
		}
		s.log.Debug().Str("user_id", user.ID.String()).Msg("session replaced from storage")
		s.apply(Action{Type: actionHydrated, User: user, ExpiresAt: &expiresAt})
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrCorruptSession), errors.Is(err, ErrExpiredSession):
		if s.state.CurrentUser == nil {
			return
		}
		s.log.Info().Err(err).Str("user_id", s.state.CurrentUser.ID.String()).Msg("session ended in storage")
		s.apply(Action{Type: actionHydrated})
	default:
		s.log.Warn().Err(err).Msg("session record unreadable")
	}
}

// Dispatch validates and applies a. SET_USER writes the durable record and
// LOGOUT deletes it; the state transition happens even when that write
// fails, and the write error is returned.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, a)
}

func (s *Store) dispatchLocked(ctx context.Context, a Action) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %s", err, a.Type)
	}

	var persistErr error
	switch a.Type {
	case ActionSetUser:
		a.User = a.User.Clone()
		expiresAt := s.persistence.NextExpiry()
		a.ExpiresAt = &expiresAt
		persistErr = s.persistence.Write(ctx, a.User, expiresAt)
	case ActionLogout:
		persistErr = s.persistence.Clear(ctx)
	}

	s.apply(a)

	if persistErr != nil {
		s.log.Warn().Err(persistErr).Str("action", string(a.Type)).Msg("session persistence failed")
		return persistErr
	}
	return nil
}

func (s *Store) apply(a Action) {
	prev := s.state
	s.state = Reduce(prev, a)
	if s.state == prev {
		return
	}
	snapshot := s.snapshot()
	for _, l := range s.listeners {
		l.fn(snapshot)
	}
}

// expireLocked logs the user out once the clock has reached the expiry.
// Expiry is only ever detected here, on read.
func (s *Store) expireLocked(ctx context.Context) {
	if s.state.CurrentUser == nil || s.state.ExpiresAt == nil {
		return
	}
	if s.clock.Now().Before(*s.state.ExpiresAt) {
		return
	}
	s.log.Info().Str("user_id", s.state.CurrentUser.ID.String()).Msg("session expired")
	_ = s.dispatchLocked(ctx, Action{Type: ActionLogout})
}

func (s *Store) snapshot() State {
	st := s.state
	st.CurrentUser = st.CurrentUser.Clone()
	if st.ExpiresAt != nil {
		t := *st.ExpiresAt
		st.ExpiresAt = &t
	}
	return st
}

// State returns a copy of the current state after checking expiry
func (s *Store) State(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(ctx)
	return s.snapshot()
}

// CurrentUser returns a copy of the logged-in user, or nil
func (s *Store) CurrentUser(ctx context.Context) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(ctx)
	return s.state.CurrentUser.Clone()
}

// Phase returns the route guard phase after checking expiry
func (s *Store) Phase(ctx context.Context) Phase {
	return PhaseOf(s.State(ctx))
}

// SetUser replaces the current user and persists it with a fresh expiry.
// A nil user logs out.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.Logout(ctx)
	}
	return s.Dispatch(ctx, Action{Type: ActionSetUser, User: user})
}

// Logout clears the current user and deletes the durable record
func (s *Store) Logout(ctx context.Context) error {
	return s.Dispatch(ctx, Action{Type: ActionLogout})
}

func (s *Store) SetLanguage(lang models.Language) error {
	return s.Dispatch(context.Background(), Action{Type: ActionSetLanguage, Language: lang})
}

func (s *Store) ToggleSidebar() {
	_ = s.Dispatch(context.Background(), Action{Type: ActionToggleSidebar})
}

func (s *Store) SetLoading(loading bool) {
	_ = s.Dispatch(context.Background(), Action{Type: ActionSetLoading, Loading: loading})
}

func (s *Store) SetTheme(theme Theme) error {
	return s.Dispatch(context.Background(), Action{Type: ActionSetTheme, Theme: theme})
}

// Subscribe registers fn to receive a snapshot after every state change.
// Subscribers are called in the order they subscribed. fn runs while the
// store is locked and must not call back into it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/permissions"
	"github.com/findosh/tourdesk/internal/session"
)

type contextKey string

const (
	StoreContextKey    contextKey = "store"
	ClientIDContextKey contextKey = "client_id"
	UserContextKey     contextKey = "user"
)

// ClientCookieName is the cookie carrying the signed client token
const ClientCookieName = "ts_client"

// ClientTokenHeader returns a freshly issued token to non-browser clients
const ClientTokenHeader = "X-Client-Token"

// ClientTokens issues and verifies client identity tokens
type ClientTokens interface {
	IssueClientToken(clientID uuid.UUID) (string, time.Time, error)
	ParseClientToken(token string) (uuid.UUID, error)
}

// Clients resolves the calling client and attaches its session store
type Clients struct {
	registry *session.Registry
	tokens   ClientTokens
	secure   bool
	log      zerolog.Logger
}

// NewClients creates the client middleware. secure marks the cookie Secure.
func NewClients(registry *session.Registry, tokens ClientTokens, secure bool, log zerolog.Logger) *Clients {
	return &Clients{registry: registry, tokens: tokens, secure: secure, log: log}
}

// Attach puts the client's hydrated store into the request context. A
// request without a valid token is given a new client identity.
func (m *Clients) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := m.clientFromRequest(r)
		if !ok {
			var err error
			clientID, err = m.issue(w)
			if err != nil {
				m.log.Error().Err(err).Msg("failed to issue client token")
				writeJSONError(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}

		store, err := m.registry.Get(r.Context(), clientID.String())
		if err != nil {
			m.log.Error().Err(err).Str("client_id", clientID.String()).Msg("failed to load client store")
			writeJSONError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ClientIDContextKey, clientID)
		ctx = WithStore(ctx, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Clients) clientFromRequest(r *http.Request) (uuid.UUID, bool) {
	// Try cookie first
	if cookie, err := r.Cookie(ClientCookieName); err == nil && cookie.Value != "" {
		if id, err := m.tokens.ParseClientToken(cookie.Value); err == nil {
			return id, true
		}
	}

	// Try Authorization header
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if id, err := m.tokens.ParseClientToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
			return id, true
		}
	}

	return uuid.Nil, false
}

func (m *Clients) issue(w http.ResponseWriter) (uuid.UUID, error) {
	clientID := uuid.New()
	token, expires, err := m.tokens.IssueClientToken(clientID)
	if err != nil {
		return uuid.Nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(ClientTokenHeader, token)
	return clientID, nil
}

// WithStore returns a context carrying store
func WithStore(ctx context.Context, store *session.Store) context.Context {
	return context.WithValue(ctx, StoreContextKey, store)
}

// GetStore retrieves the client's session store from the request context
func GetStore(r *http.Request) *session.Store {
	store, ok := r.Context().Value(StoreContextKey).(*session.Store)
	if !ok {
		return nil
	}
	return store
}

// GetClientID retrieves the client id from the request context
func GetClientID(r *http.Request) uuid.UUID {
	id, ok := r.Context().Value(ClientIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetUser retrieves the user from the request context
func GetUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// Guard gates routes on the session phase and capabilities
type Guard struct {
	tr *i18n.Translator
}

// NewGuard creates a route guard that localises its error messages with tr
func NewGuard(tr *i18n.Translator) *Guard {
	return &Guard{tr: tr}
}

// Language returns the client's language, or the default one when the
// request carries no store
func (g *Guard) Language(r *http.Request) models.Language {
	if store := GetStore(r); store != nil {
		return store.State(r.Context()).Language
	}
	return g.tr.Fallback()
}

// RequireSession lets the request through only for an authenticated
// client. While the store is still hydrating it answers 503 so the caller
// retries instead of being sent to the login page.
func (g *Guard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := GetStore(r)
		if store == nil {
			g.unauthenticated(w, r)
			return
		}

		state := store.State(r.Context())
		switch session.PhaseOf(state) {
		case session.PhaseHydrating:
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"loading"}`))
			return
		case session.PhaseUnauthenticated:
			g.unauthenticated(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, state.CurrentUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Guard) unauthenticated(w http.ResponseWriter, r *http.Request) {
	// Redirect to login for HTML requests
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	// Return 401 for API requests
	writeJSONError(w, g.tr.T(g.Language(r), i18n.ErrorUnauthorized), http.StatusUnauthorized)
}

// RequireCapability answers 403 unless the session user holds capability.
// It must run after RequireSession.
func (g *Guard) RequireCapability(capability permissions.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				g.unauthenticated(w, r)
				return
			}
			if !permissions.ForUser(user).Allows(capability) {
				writeJSONError(w, g.tr.T(g.Language(r), i18n.ErrorForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 403 unless the session user has one of roles.
// It must run after RequireSession.
func (g *Guard) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				g.unauthenticated(w, r)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, g.tr.T(g.Language(r), i18n.ErrorForbidden), http.StatusForbidden)
		})
	}
}

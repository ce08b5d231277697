// Package i18n resolves interface strings for the dashboard languages.
//
// Lookups fall back from the requested language to the default language
// and finally to the key itself, so a missing entry shows up as its key
// instead of an empty string.
package i18n

import (
	"sync"

	"github.com/findosh/tourdesk/internal/models"
)

// Key identifies a translatable string
type Key string

// Navigation
const (
	NavHome          Key = "nav.home"
	NavNews          Key = "nav.news"
	NavItems         Key = "nav.items"
	NavActivities    Key = "nav.activities"
	NavEvents        Key = "nav.events"
	NavNotices       Key = "nav.notices"
	NavUsers         Key = "nav.users"
	NavAnalytics     Key = "nav.analytics"
	NavNotifications Key = "nav.notifications"
	NavSettings      Key = "nav.settings"
)

// Authentication and API errors
const (
	AuthInvalidCredentials Key = "auth.error.invalidCredentials"
	AuthInactiveUser       Key = "auth.error.inactive"
	ErrorUnauthorized      Key = "error.unauthorized"
	ErrorForbidden         Key = "error.forbidden"
	ErrorNotFound          Key = "error.notFound"
	ErrorBadRequest        Key = "error.badRequest"
	ErrorConflict          Key = "error.conflict"
	ErrorInternal          Key = "error.internal"
)

// Analytics
const (
	KPIUsers          Key = "kpi.users"
	KPIActiveSessions Key = "kpi.activeSessions"
	KPIPublishedNews  Key = "kpi.publishedNews"
	KPINotices        Key = "kpi.notices"
)

// Catalog holds the strings of each language
type Catalog map[models.Language]map[Key]string

// Translator looks up keys with a fixed fallback order. Overrides set at
// runtime win over the catalog within each language.
type Translator struct {
	fallback models.Language
	catalog  Catalog

	mu        sync.RWMutex
	overrides Catalog
}

// New creates a translator over catalog. fallback is consulted when the
// requested language has no entry for a key.
func New(fallback models.Language, catalog Catalog) *Translator {
	if !fallback.Valid() {
		fallback = models.DefaultLanguage
	}
	return &Translator{fallback: fallback, catalog: catalog}
}

// Default creates a translator over the built-in catalog
func Default(fallback models.Language) *Translator {
	return New(fallback, DefaultCatalog())
}

// Fallback returns the default language
func (t *Translator) Fallback() models.Language {
	return t.fallback
}

// SetOverrides replaces the runtime overrides. Unsupported languages and
// empty strings are ignored.
func (t *Translator) SetOverrides(overrides map[models.Language]map[string]string) {
	c := make(Catalog, len(overrides))
	for lang, entries := range overrides {
		if !lang.Valid() {
			continue
		}
		m := make(map[Key]string, len(entries))
		for k, v := range entries {
			if v != "" {
				m[Key(k)] = v
			}
		}
		c[lang] = m
	}

	t.mu.Lock()
	t.overrides = c
	t.mu.Unlock()
}

// T resolves key in lang, then in the default language, then returns the
// key itself.
func (t *Translator) T(lang models.Language, key Key) string {
	if s, ok := t.lookup(lang, key); ok {
		return s
	}
	if s, ok := t.lookup(t.fallback, key); ok {
		return s
	}
	return string(key)
}

func (t *Translator) lookup(lang models.Language, key Key) (string, bool) {
	t.mu.RLock()
	s, ok := t.overrides[lang][key]
	t.mu.RUnlock()
	if ok {
		return s, true
	}
	s, ok = t.catalog[lang][key]
	return s, ok && s != ""
}

package session

import (
	"errors"
	"time"

	"github.com/findosh/tourdesk/internal/models"
)

var (
	ErrUnknownAction  = errors.New("session: unknown action")
	ErrInvalidPayload = errors.New("session: invalid action payload")
)

// Theme is the colour scheme preference
type Theme string

// Themes
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeAuto
}

// State is everything the dashboard keeps about one client
type State struct {
	CurrentUser      *models.User    `json:"currentUser"`
	ExpiresAt        *time.Time      `json:"expiresAt"`
	Language         models.Language `json:"language"`
	SidebarCollapsed bool            `json:"sidebarCollapsed"`
	Loading          bool            `json:"loading"`
	Theme            Theme           `json:"theme"`
	Hydrated         bool            `json:"hydrated"`
}

// InitialState is the state of a client before hydration
func InitialState(lang models.Language) State {
	if !lang.Valid() {
		lang = models.DefaultLanguage
	}
	return State{
		Language: lang,
		Theme:    ThemeAuto,
	}
}

// ActionType names a state transition
type ActionType string

// Actions
const (
	ActionSetUser       ActionType = "SET_USER"
	ActionLogout        ActionType = "LOGOUT"
	ActionSetLanguage   ActionType = "SET_LANGUAGE"
	ActionToggleSidebar ActionType = "TOGGLE_SIDEBAR"
	ActionSetLoading    ActionType = "SET_LOADING"
	ActionSetTheme      ActionType = "SET_THEME"

	// emitted by the store itself once the durable record has been read
	actionHydrated ActionType = "HYDRATED"
)

// Action is a dispatched transition. Only the field matching Type is read.
type Action struct {
	Type      ActionType
	User      *models.User
	ExpiresAt *time.Time
	Language  models.Language
	Loading   bool
	Theme     Theme
}

// Validate rejects unknown types and payloads the reducer would ignore
func (a Action) Validate() error {
	switch a.Type {
	case ActionSetUser:
		if a.User == nil || a.User.Validate() != nil {
			return ErrInvalidPayload
		}
	case ActionSetLanguage:
		if !a.Language.Valid() {
			return ErrInvalidPayload
		}
	case ActionSetTheme:
		if !a.Theme.Valid() {
			return ErrInvalidPayload
		}
	case ActionLogout, ActionToggleSidebar, ActionSetLoading:
	default:
		return ErrUnknownAction
	}
	return nil
}

// Reduce applies a to s. It is total: unknown actions and invalid payloads
// return s unchanged.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionSetUser:
		if a.User == nil || a.User.Validate() != nil {
			return s
		}
		s.CurrentUser = a.User
		s.ExpiresAt = a.ExpiresAt
	case ActionLogout:
		s.CurrentUser = nil
		s.ExpiresAt = nil
	case ActionSetLanguage:
		if a.Language.Valid() {
			s.Language = a.Language
		}
	case ActionToggleSidebar:
		s.SidebarCollapsed = !s.SidebarCollapsed
	case ActionSetLoading:
		s.Loading = a.Loading
	case ActionSetTheme:
		if a.Theme.Valid() {
			s.Theme = a.Theme
		}
	case actionHydrated:
		s.Hydrated = true
		s.CurrentUser = a.User
		s.ExpiresAt = a.ExpiresAt
	}
	return s
}

// Phase is the route guard's view of a client
type Phase string

// Phases
const (
	PhaseHydrating       Phase = "hydrating"
	PhaseUnauthenticated Phase = "unauthenticated"
	PhaseAuthenticated   Phase = "authenticated"
)

// PhaseOf derives the guard phase from a state snapshot
func PhaseOf(s State) Phase {
	switch {
	case !s.Hydrated:
		return PhaseHydrating
	case s.CurrentUser == nil:
		return PhaseUnauthenticated
	default:
		return PhaseAuthenticated
	}
}

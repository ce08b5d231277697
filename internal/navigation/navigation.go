// Package navigation lists the dashboard sections a user may open
package navigation

import (
	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
)

// Section is one sidebar entry. An empty Roles list means any signed-in user.
type Section struct {
	ID    string
	Path  string
	Label i18n.Key
	Icon  string
	Roles []models.Role
}

// Item is a section resolved for one user and language
type Item struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var staff = []models.Role{models.RoleAdmin, models.RoleEditor}

// Sections returns the sidebar in display order
func Sections() []Section {
	return []Section{
		{ID: "home", Path: "/", Label: i18n.NavHome, Icon: "home"},
		{ID: "news", Path: "/news", Label: i18n.NavNews, Icon: "newspaper", Roles: staff},
		{ID: "items", Path: "/items", Label: i18n.NavItems, Icon: "map-pin", Roles: staff},
		{ID: "activities", Path: "/activities", Label: i18n.NavActivities, Icon: "activity", Roles: staff},
		{ID: "events", Path: "/events", Label: i18n.NavEvents, Icon: "calendar", Roles: staff},
		{ID: "notices", Path: "/notices", Label: i18n.NavNotices, Icon: "alert-triangle", Roles: staff},
		{ID: "users", Path: "/users", Label: i18n.NavUsers, Icon: "users", Roles: []models.Role{models.RoleAdmin}},
		{ID: "analytics", Path: "/analytics", Label: i18n.NavAnalytics, Icon: "bar-chart-3"},
		{ID: "notifications", Path: "/notifications", Label: i18n.NavNotifications, Icon: "bell", Roles: staff},
		{ID: "settings", Path: "/settings", Label: i18n.NavSettings, Icon: "settings", Roles: []models.Role{models.RoleAdmin}},
	}
}

// Visible reports whether the section is open to role
func (s Section) Visible(role models.Role) bool {
	if len(s.Roles) == 0 {
		return true
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ForUser returns the sections u may open with labels in lang. A nil user
// sees nothing.
func ForUser(u *models.User, lang models.Language, tr *i18n.Translator) []Item {
	if u == nil {
		return []Item{}
	}

	items := make([]Item, 0, len(Sections()))
	for _, s := range Sections() {
		if !s.Visible(u.Role) {
			continue
		}
		items = append(items, Item{
			ID:    s.ID,
			Path:  s.Path,
			Label: tr.T(lang, s.Label),
			Icon:  s.Icon,
		})
	}
	return items
}

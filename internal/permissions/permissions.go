// Package permissions derives what a user may do in the dashboard from
// their role. Nothing here is stored; callers recompute on every access.
package permissions

import "github.com/findosh/tourdesk/internal/models"

// Capability names a single permission a page consults
type Capability string

// Capabilities
const (
	CanCreate        Capability = "canCreate"
	CanEdit          Capability = "canEdit"
	CanDelete        Capability = "canDelete"
	CanViewAnalytics Capability = "canViewAnalytics"
	CanManageUsers   Capability = "canManageUsers"
	CanExport        Capability = "canExport"
)

// Capabilities is the full capability set of one user
type Capabilities struct {
	CanCreate        bool `json:"canCreate"`
	CanEdit          bool `json:"canEdit"`
	CanDelete        bool `json:"canDelete"`
	CanViewAnalytics bool `json:"canViewAnalytics"`
	CanManageUsers   bool `json:"canManageUsers"`
	CanExport        bool `json:"canExport"`
}

// ForRole maps a role to its capabilities. Unknown roles get nothing.
func ForRole(role models.Role) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{
			CanCreate:        true,
			CanEdit:          true,
			CanDelete:        true,
			CanViewAnalytics: true,
			CanManageUsers:   true,
			CanExport:        true,
		}
	case models.RoleEditor:
		return Capabilities{
			CanCreate:        true,
			CanEdit:          true,
			CanViewAnalytics: true,
			CanExport:        true,
		}
	case models.RoleAuditor:
		return Capabilities{
			CanViewAnalytics: true,
			CanExport:        true,
		}
	default:
		return Capabilities{}
	}
}

// ForUser returns the capabilities of u; a nil user has none
func ForUser(u *models.User) Capabilities {
	if u == nil {
		return Capabilities{}
	}
	return ForRole(u.Role)
}

// Allows reports whether c grants the named capability
func (c Capabilities) Allows(name Capability) bool {
	switch name {
	case CanCreate:
		return c.CanCreate
	case CanEdit:
		return c.CanEdit
	case CanDelete:
		return c.CanDelete
	case CanViewAnalytics:
		return c.CanViewAnalytics
	case CanManageUsers:
		return c.CanManageUsers
	case CanExport:
		return c.CanExport
	}
	return false
}

package permissions

import (
	"context"
	"testing"

	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/session"
)

func TestForRole(t *testing.T) {
	tests := []struct {
		role     models.Role
		expected Capabilities
	}{
		{models.RoleAdmin, Capabilities{true, true, true, true, true, true}},
		{models.RoleEditor, Capabilities{CanCreate: true, CanEdit: true, CanViewAnalytics: true, CanExport: true}},
		{models.RoleAuditor, Capabilities{CanViewAnalytics: true, CanExport: true}},
		{"", Capabilities{}},
		{"superuser", Capabilities{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := ForRole(tt.role); got != tt.expected {
				t.Errorf("ForRole(%q) = %+v, want %+v", tt.role, got, tt.expected)
			}
		})
	}
}

func TestForUser_NilUser(t *testing.T) {
	if got := ForUser(nil); got != (Capabilities{}) {
		t.Errorf("Expected no capabilities without a user, got %+v", got)
	}
}

func TestAllows(t *testing.T) {
	editor := ForRole(models.RoleEditor)

	tests := []struct {
		cap      Capability
		expected bool
	}{
		{CanCreate, true},
		{CanEdit, true},
		{CanDelete, false},
		{CanManageUsers, false},
		{CanViewAnalytics, true},
		{CanExport, true},
		{"canFly", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.cap), func(t *testing.T) {
			if got := editor.Allows(tt.cap); got != tt.expected {
				t.Errorf("editor.Allows(%s) = %v, want %v", tt.cap, got, tt.expected)
			}
		})
	}
}

func loggedIn(t *testing.T, role models.Role) *models.User {
	t.Helper()
	ctx := context.Background()
	store := session.NewStore(session.NewPersistence(session.NewMemoryStorage(), 0, nil))
	store.Hydrate(ctx)

	if err := store.SetUser(ctx, models.NewUser("user@javea.es", "Test User", role, models.LanguageSpanish, "")); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}
	return store.CurrentUser(ctx)
}

func TestScenario_AdminCanManageUsers(t *testing.T) {
	user := loggedIn(t, models.RoleAdmin)

	if user.Role != models.RoleAdmin {
		t.Fatalf("Expected admin, got %s", user.Role)
	}
	if !ForUser(user).CanManageUsers {
		t.Error("Expected admin to manage users")
	}
}

func TestScenario_AuditorIsReadOnly(t *testing.T) {
	caps := ForUser(loggedIn(t, models.RoleAuditor))

	if caps.CanCreate || caps.CanDelete {
		t.Errorf("Expected auditor unable to create or delete, got %+v", caps)
	}
	if !caps.CanViewAnalytics {
		t.Error("Expected auditor to view analytics")
	}
}

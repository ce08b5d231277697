package navigation

import (
	"testing"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
)

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestForUser_ByRole(t *testing.T) {
	tr := i18n.Default(models.LanguageSpanish)

	tests := []struct {
		role     models.Role
		expected []string
	}{
		{models.RoleAdmin, []string{"home", "news", "items", "activities", "events", "notices", "users", "analytics", "notifications", "settings"}},
		{models.RoleEditor, []string{"home", "news", "items", "activities", "events", "notices", "analytics", "notifications"}},
		{models.RoleAuditor, []string{"home", "analytics"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			user := models.NewUser("u@javea.es", "User", tt.role, models.LanguageSpanish, "")
			got := ids(ForUser(user, models.LanguageSpanish, tr))

			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Item %d: got %s, want %s", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestForUser_NilUser(t *testing.T) {
	if got := ForUser(nil, models.LanguageSpanish, i18n.Default(models.LanguageSpanish)); len(got) != 0 {
		t.Errorf("Expected no items without a user, got %v", got)
	}
}

func TestForUser_LocalisedLabels(t *testing.T) {
	tr := i18n.Default(models.LanguageSpanish)
	user := models.NewUser("u@javea.es", "User", models.RoleAuditor, models.LanguageSpanish, "")

	items := ForUser(user, models.LanguageValencian, tr)
	if items[0].Label != "Inici" {
		t.Errorf("Expected Valencian home label, got %q", items[0].Label)
	}
	if items[1].Label != "Estadístiques" {
		t.Errorf("Expected Valencian analytics label, got %q", items[1].Label)
	}
}

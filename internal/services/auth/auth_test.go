package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/findosh/tourdesk/internal/config"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*Service, *storage.UserRepository) {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cfg := &config.Config{
		SecretKey:           "test-secret",
		ClientTokenDuration: time.Hour,
		DefaultLanguage:     "es",
		AdminName:           "Administrador",
	}
	users := storage.NewUserRepository(db)
	return NewService(cfg, users), users
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    " Admin@Javea.es ",
		Password: "turisme-2025",
		Name:     "Admin Jávea",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.Email != "admin@javea.es" {
		t.Errorf("Expected normalised email, got %q", created.Email)
	}
	if created.Language != models.LanguageSpanish {
		t.Errorf("Expected default language, got %q", created.Language)
	}

	user, err := svc.Authenticate(ctx, "ADMIN@javea.es", "turisme-2025")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != created.ID || user.Role != models.RoleAdmin {
		t.Errorf("Unexpected user %+v", user)
	}
	if user.LastActive == nil {
		t.Error("Expected last active to be recorded")
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)

	svc.CreateUser(ctx, CreateUserInput{
		Email: "editor@javea.es", Password: "editor-pass", Name: "Editor", Role: models.RoleEditor,
	})

	if _, err := svc.Authenticate(ctx, "editor@javea.es", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@javea.es", "editor-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	user, _ := users.GetByEmail(ctx, "editor@javea.es")
	user.IsActive = false
	users.Update(ctx, user)

	if _, err := svc.Authenticate(ctx, "editor@javea.es", "editor-pass"); !errors.Is(err, ErrUserInactive) {
		t.Errorf("Expected ErrUserInactive, got %v", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name  string
		input CreateUserInput
	}{
		{"bad email", CreateUserInput{Email: "not-an-email", Password: "long-enough", Name: "A", Role: models.RoleEditor}},
		{"short password", CreateUserInput{Email: "a@javea.es", Password: "short", Name: "A", Role: models.RoleEditor}},
		{"unknown role", CreateUserInput{Email: "a@javea.es", Password: "long-enough", Name: "A", Role: "guest"}},
		{"unknown language", CreateUserInput{Email: "a@javea.es", Password: "long-enough", Name: "A", Role: models.RoleEditor, Language: "fr"}},
		{"missing name", CreateUserInput{Email: "a@javea.es", Password: "long-enough", Role: models.RoleEditor}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateUser(ctx, tt.input); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	input := CreateUserInput{Email: "a@javea.es", Password: "long-enough", Name: "A", Role: models.RoleAuditor}
	if _, err := svc.CreateUser(ctx, input); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	input.Email = "A@JAVEA.ES"
	if _, err := svc.CreateUser(ctx, input); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	user, _ := svc.CreateUser(ctx, CreateUserInput{
		Email: "a@javea.es", Password: "first-pass", Name: "A", Role: models.RoleEditor,
	})

	if err := svc.ChangePassword(ctx, user.ID, "wrong-pass", "second-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, uuid.New(), "first-pass", "second-pass"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "first-pass", "second-pass"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "a@javea.es", "first-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("Old password should no longer work")
	}
	if _, err := svc.Authenticate(ctx, "a@javea.es", "second-pass"); err != nil {
		t.Errorf("New password should work, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestService(t)

	created, err := svc.EnsureAdmin(ctx)
	if err != nil || created != nil {
		t.Fatalf("Expected no-op without credentials, got %v, %v", created, err)
	}

	svc.cfg.AdminEmail = "admin@javea.es"
	svc.cfg.AdminPassword = "bootstrap-pass"

	created, err = svc.EnsureAdmin(ctx)
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if created == nil || created.Role != models.RoleAdmin || created.Name != "Administrador" {
		t.Fatalf("Expected bootstrap admin, got %+v", created)
	}

	again, err := svc.EnsureAdmin(ctx)
	if err != nil || again != nil {
		t.Errorf("Expected no-op once users exist, got %v, %v", again, err)
	}

	count, _ := users.Count(ctx)
	if count != 1 {
		t.Errorf("Expected exactly 1 user, got %d", count)
	}
}

func TestClientToken(t *testing.T) {
	svc, _ := newTestService(t)
	clientID := uuid.New()

	token, expires, err := svc.IssueClientToken(clientID)
	if err != nil {
		t.Fatalf("IssueClientToken failed: %v", err)
	}
	if time.Until(expires) < 59*time.Minute {
		t.Errorf("Expected expiry about an hour out, got %s", expires)
	}

	got, err := svc.ParseClientToken(token)
	if err != nil {
		t.Fatalf("ParseClientToken failed: %v", err)
	}
	if got != clientID {
		t.Errorf("Expected client id %s, got %s", clientID, got)
	}
}

func TestParseClientToken_Invalid(t *testing.T) {
	svc, _ := newTestService(t)

	sign := func(claims jwt.Claims, secret string) string {
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		return s
	}
	now := time.Now()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", sign(jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}, "other-secret")},
		{"expired", sign(jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		}, "test-secret")},
		{"no expiry", sign(jwt.RegisteredClaims{Subject: uuid.NewString()}, "test-secret")},
		{"subject not a uuid", sign(jwt.RegisteredClaims{
			Subject:   "client-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}, "test-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ParseClientToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

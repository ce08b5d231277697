// Package auth provides authentication services
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/findosh/tourdesk/internal/config"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is inactive")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

// Authenticator resolves credentials to a user
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Service handles authentication operations
type Service struct {
	cfg   *config.Config
	users *storage.UserRepository

	// compared against for unknown emails
	dummyHash []byte
}

var _ Authenticator = (*Service)(nil)

// NewService creates a new auth service
func NewService(cfg *config.Config, users *storage.UserRepository) *Service {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("tourdesk-dummy-password"), bcrypt.DefaultCost)
	return &Service{
		cfg:       cfg,
		users:     users,
		dummyHash: dummy,
	}
}

// Authenticate checks an email/password pair against the stored hash and
// records the sign-in time
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastActive(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record sign-in: %w", err)
	}
	user.LastActive = &now

	return user, nil
}

// CreateUserInput contains the data for a new dashboard account
type CreateUserInput struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Name     string          `json:"name" validate:"required,max=120"`
	Role     models.Role     `json:"role" validate:"required,oneof=admin editor auditor"`
	Language models.Language `json:"language" validate:"omitempty,oneof=es va en"`
}

// CreateUser validates the input, hashes the password and stores the user
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if err := models.Validate(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, input.Name, input.Role, input.Language, string(hash))
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ChangePassword updates a user's password after verifying the old one
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin when no users exist and admin
// credentials are configured. It returns the created user, or nil when
// nothing was done.
func (s *Service) EnsureAdmin(ctx context.Context) (*models.User, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil, nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	return s.CreateUser(ctx, CreateUserInput{
		Email:    s.cfg.AdminEmail,
		Password: s.cfg.AdminPassword,
		Name:     s.cfg.AdminName,
		Role:     models.RoleAdmin,
		Language: models.Language(s.cfg.DefaultLanguage),
	})
}

// IssueClientToken signs a token identifying a browser client
func (s *Service) IssueClientToken(clientID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.cfg.ClientTokenDuration)

	claims := jwt.RegisteredClaims{
		Subject:   clientID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires.UTC(), nil
}

// ParseClientToken verifies a client token and returns the client id
func (s *Service) ParseClientToken(tokenString string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateJTI() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// Package models defines core domain types
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrMissingID is returned when a record has no identifier
var ErrMissingID = errors.New("id is required")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags on any model or input payload
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// Role is the access level of a dashboard user
type Role string

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleEditor  Role = "editor"
	RoleAuditor Role = "auditor"
)

// AllRoles returns every known role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleAuditor}
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleAuditor:
		return true
	}
	return false
}

// Language is a supported interface language
type Language string

// Languages
const (
	LanguageSpanish   Language = "es"
	LanguageValencian Language = "va"
	LanguageEnglish   Language = "en"
)

// DefaultLanguage is used when no preference is known
const DefaultLanguage = LanguageSpanish

// AllLanguages returns every supported language
func AllLanguages() []Language {
	return []Language{LanguageSpanish, LanguageValencian, LanguageEnglish}
}

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	switch l {
	case LanguageSpanish, LanguageValencian, LanguageEnglish:
		return true
	}
	return false
}

// User represents a dashboard account. The JSON shape is the one the
// front end stores and the durable session record carries.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name" validate:"required,max=120"`
	Email        string     `json:"email" validate:"required,email"`
	Role         Role       `json:"role" validate:"required,oneof=admin editor auditor"`
	Language     Language   `json:"language" validate:"required,oneof=es va en"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActive   *time.Time `json:"lastActive,omitempty"`
	IsActive     bool       `json:"isActive"`
	PasswordHash string     `json:"-"` // Never serialize to JSON
}

// NewUser creates a new active user with generated ID and timestamp
func NewUser(email, name string, role Role, lang Language, passwordHash string) *User {
	if !lang.Valid() {
		lang = DefaultLanguage
	}
	return &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		Role:         role,
		Language:     lang,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
		PasswordHash: passwordHash,
	}
}

// Validate checks that the user is a complete record
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrMissingID
	}
	return validate.Struct(u)
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastActive != nil {
		t := *u.LastActive
		c.LastActive = &t
	}
	return &c
}

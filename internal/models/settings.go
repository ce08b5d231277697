package models

import (
	"errors"
	"time"
)

// AIProvider names the text assistant used by the editors
type AIProvider string

// AI providers
const (
	AIDeepseek AIProvider = "deepseek"
	AIGemini   AIProvider = "gemini"
)

// Branding is the logo and title of the public app
type Branding struct {
	Logo  string `json:"logo" validate:"omitempty,url"`
	Title string `json:"title" validate:"required,max=120"`
}

// HomeBlock is one section of the app's home screen
type HomeBlock struct {
	ID       string `json:"id" validate:"required,max=60"`
	Type     string `json:"type" validate:"required,max=40"`
	Title    string `json:"title" validate:"required,max=120"`
	IsActive bool   `json:"isActive"`
	Order    int    `json:"order" validate:"min=0"`
}

// Settings is the single app-wide configuration document
type Settings struct {
	Branding     Branding                       `json:"branding"`
	HomeBlocks   []HomeBlock                    `json:"homeBlocks" validate:"max=30,dive"`
	Translations map[Language]map[string]string `json:"translations"`
	AIProvider   AIProvider                     `json:"aiProvider" validate:"required,oneof=deepseek gemini"`
	UpdatedAt    time.Time                      `json:"updatedAt"`
}

var (
	ErrUnknownTranslationLanguage = errors.New("translations for an unsupported language")
	ErrDuplicateHomeBlock         = errors.New("duplicate home block id")
)

// DefaultSettings is what the dashboard starts with
func DefaultSettings() *Settings {
	return &Settings{
		Branding: Branding{Title: "TourDesk"},
		HomeBlocks: []HomeBlock{
			{ID: "news", Type: "news", Title: "Noticias", IsActive: true, Order: 0},
			{ID: "events", Type: "events", Title: "Eventos", IsActive: true, Order: 1},
			{ID: "places", Type: "places", Title: "Lugares", IsActive: true, Order: 2},
		},
		Translations: map[Language]map[string]string{},
		AIProvider:   AIDeepseek,
	}
}

// Validate checks tags, translation languages and block ids
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	for lang := range s.Translations {
		if !lang.Valid() {
			return ErrUnknownTranslationLanguage
		}
	}
	seen := make(map[string]bool, len(s.HomeBlocks))
	for _, b := range s.HomeBlocks {
		if seen[b.ID] {
			return ErrDuplicateHomeBlock
		}
		seen[b.ID] = true
	}
	return nil
}

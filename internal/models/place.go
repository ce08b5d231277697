package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceType is the kind of point of interest
type PlaceType string

// Place types
const (
	PlaceActivity   PlaceType = "activity"
	PlaceRestaurant PlaceType = "restaurant"
	PlaceBeach      PlaceType = "beach"
	PlaceViewpoint  PlaceType = "viewpoint"
	PlaceShop       PlaceType = "shop"
	PlacePark       PlaceType = "park"
	PlaceSports     PlaceType = "sports"
)

// Occupancy bands used by the dashboard filters
const (
	OccupancyLow    = "low"
	OccupancyMedium = "medium"
	OccupancyHigh   = "high"
)

// Place is a point of interest shown on the municipal map
type Place struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name" validate:"required,max=200"`
	Type          PlaceType `json:"type" validate:"required,oneof=activity restaurant beach viewpoint shop park sports"`
	Category      string    `json:"category" validate:"required,max=60"`
	Description   string    `json:"description" validate:"max=4000"`
	Address       string    `json:"address" validate:"max=300"`
	Latitude      float64   `json:"latitude" validate:"min=-90,max=90"`
	Longitude     float64   `json:"longitude" validate:"min=-180,max=180"`
	Occupancy     int       `json:"occupancy" validate:"min=0,max=100"`
	FeaturedImage string    `json:"featuredImage" validate:"omitempty,url"`
	Gallery       []string  `json:"gallery" validate:"max=30,dive,url"`
	Features      []string  `json:"features" validate:"max=30,dive,required,max=60"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewPlace creates an active place with empty lists
func NewPlace(name string, typ PlaceType, category string) *Place {
	now := time.Now().UTC()
	return &Place{
		ID:        uuid.New(),
		Name:      name,
		Type:      typ,
		Category:  category,
		Gallery:   []string{},
		Features:  []string{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OccupancyLevel returns the band of the current occupancy percentage
func (p *Place) OccupancyLevel() string {
	switch {
	case p.Occupancy <= 30:
		return OccupancyLow
	case p.Occupancy <= 70:
		return OccupancyMedium
	}
	return OccupancyHigh
}

// ActivitySchedule is one weekly slot. DayOfWeek 0 is Sunday.
type ActivitySchedule struct {
	DayOfWeek   int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime   string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime     string `json:"endTime" validate:"required,datetime=15:04"`
	IsAvailable bool   `json:"isAvailable"`
}

// Activity is a bookable place with a price and a weekly schedule
type Activity struct {
	Place
	Price               decimal.Decimal    `json:"price"`
	Duration            int                `json:"duration" validate:"min=0"` // minutes
	MaxCapacity         int                `json:"maxCapacity" validate:"min=0"`
	RequiresReservation bool               `json:"requiresReservation"`
	ReservationURL      string             `json:"reservationUrl,omitempty" validate:"omitempty,url"`
	Schedule            []ActivitySchedule `json:"schedule" validate:"max=50,dive"`
}

var (
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrReservationURL      = errors.New("reservation url is required when reservation is required")
	ErrScheduleSlotInverse = errors.New("schedule slot ends before it starts")
)

// NewActivity creates an active activity
func NewActivity(name, category string, price decimal.Decimal) *Activity {
	return &Activity{
		Place:    *NewPlace(name, PlaceActivity, category),
		Price:    price,
		Schedule: []ActivitySchedule{},
	}
}

// Validate checks tags plus the rules tags cannot express
func (a *Activity) Validate() error {
	if err := validate.Struct(a); err != nil {
		return err
	}
	if a.Price.IsNegative() {
		return ErrNegativePrice
	}
	if a.RequiresReservation && a.ReservationURL == "" {
		return ErrReservationURL
	}
	for _, slot := range a.Schedule {
		// zero-padded HH:MM compares correctly as text
		if slot.EndTime <= slot.StartTime {
			return ErrScheduleSlotInverse
		}
	}
	return nil
}

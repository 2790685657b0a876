package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SalonTypeMen    = "men"
	SalonTypeWomen  = "women"
	SalonTypeUnisex = "unisex"
)

type Salon struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID        uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name           string    `gorm:"not null;index" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Address        string    `gorm:"not null" json:"address"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	OperatingHours string    `gorm:"type:text" json:"operating_hours"` // JSON: weekday -> open/close
	SalonType      string    `gorm:"not null;default:'unisex'" json:"salon_type"`
	RatingAvg      float64   `json:"rating_avg"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Services []SalonService `gorm:"foreignKey:SalonID" json:"services,omitempty"`
	Photos   []SalonPhoto   `gorm:"foreignKey:SalonID" json:"photos,omitempty"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SalonService is a catalog entry: one bookable service offered by a salon.
type SalonService struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Duration    int       `gorm:"not null" json:"duration"` // minutes
	Category    string    `gorm:"index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *SalonService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SalonPhoto struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID   uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	URL       string    `gorm:"not null" json:"url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *SalonPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

type Offer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SalonID        *uuid.UUID `gorm:"type:uuid;index" json:"salon_id,omitempty"` // nil = platform-wide
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	DiscountType   string     `gorm:"not null" json:"discount_type"`
	DiscountAmount float64    `gorm:"not null" json:"discount_amount"`
	ValidFrom      time.Time  `gorm:"not null" json:"valid_from"`
	ValidTo        time.Time  `gorm:"not null" json:"valid_to"`
	Terms          string     `gorm:"type:text" json:"terms,omitempty"`
	Active         bool       `gorm:"default:true" json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsCurrent reports whether the offer is active at the given time.
func (o *Offer) IsCurrent(now time.Time) bool {
	return o.Active && !now.Before(o.ValidFrom) && !now.After(o.ValidTo)
}

type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SalonID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"salon_id"`
	CreatedAt time.Time `json:"created_at"`
}

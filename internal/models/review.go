package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID    uuid.UUID `gorm:"type:uuid;index:idx_review_salon_customer,unique;not null" json:"salon_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index:idx_review_salon_customer,unique;not null" json:"customer_id"`
	Rating     int       `gorm:"not null" json:"rating"` // 1..5
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Customer User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

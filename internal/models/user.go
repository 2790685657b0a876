package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer   = "customer"
	RoleSalonOwner = "salon_owner"
	RoleAdmin      = "admin"
)

type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	Password          string    `gorm:"not null" json:"-"`
	Phone             string    `gorm:"index" json:"phone,omitempty"`
	Role              string    `gorm:"not null;default:'customer'" json:"role"`
	LoyaltyPoints     int       `gorm:"not null;default:0" json:"loyalty_points"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	EmailVerified     bool      `gorm:"not null;default:false" json:"email_verified"`
	PhoneVerified     bool      `gorm:"not null;default:false" json:"phone_verified"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relations
	Salons  []Salon      `gorm:"foreignKey:OwnerID" json:"salons,omitempty"`
	Queues  []QueueEntry `gorm:"foreignKey:CustomerID" json:"queues,omitempty"`
	Reviews []Review     `gorm:"foreignKey:CustomerID" json:"reviews,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsSalonOwner reports whether the user may manage salons.
func (u *User) IsSalonOwner() bool {
	return u.Role == RoleSalonOwner || u.Role == RoleAdmin
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type PasswordReset struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PasswordReset) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

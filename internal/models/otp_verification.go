package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification purposes: which contact channel an OTP proves possession of.
const (
	PurposeEmail = "email"
	PurposePhone = "phone"
)

// OtpVerification stores a salted digest of a one-time passcode, never the
// plaintext. At most one row per (user_id, purpose) has verified=false at a
// time; issuing a new code marks older unverified rows verified (supersession).
type OtpVerification struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_otp_user_purpose;not null"`
	Purpose     string    `gorm:"index:idx_otp_user_purpose;not null"`
	Destination string    `gorm:"not null"`
	Digest      string    `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"index;not null"`
	Verified    bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o *OtpVerification) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

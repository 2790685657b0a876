package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/config"
	"github.com/smartq/backend/internal/models"
	"github.com/smartq/backend/pkg/validation"
	"gorm.io/gorm"
)

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	SendSMS(to, body string) (string, error)
}

// EmailSender delivers a verification code by email.
type EmailSender interface {
	SendVerificationCode(to, name, code string, expiryMinutes int) error
}

// VerificationService orchestrates the OTP flow: issue a code, deliver it
// out-of-band, and flip the user's verified flag once the code is submitted.
type VerificationService struct {
	db    *gorm.DB
	cfg   *config.Config
	otp   *OTPService
	sms   SMSSender
	email EmailSender
}

func NewVerificationService(db *gorm.DB, cfg *config.Config, otpService *OTPService, sms SMSSender, email EmailSender) *VerificationService {
	return &VerificationService{
		db:    db,
		cfg:   cfg,
		otp:   otpService,
		sms:   sms,
		email: email,
	}
}

// RequestCode issues a fresh OTP for (user, purpose) and sends it to the
// destination. The destination is validated locally before any network call;
// a delivery failure never rolls back the issued record, so the code stays
// redeemable for its full expiry window and the caller can trigger a resend.
func (s *VerificationService) RequestCode(userID uuid.UUID, purpose, destination string) (*models.OtpVerification, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOTPPersistence, err)
	}

	switch purpose {
	case models.PurposePhone:
		if destination == "" {
			destination = user.Phone
		}
		destination = validation.FormatPhoneNumber(destination, s.cfg.DefaultPhoneRegion)
		if !validation.ValidatePhoneNumber(destination, s.cfg.DefaultPhoneRegion) {
			return nil, ErrInvalidDestination
		}
	case models.PurposeEmail:
		if destination == "" {
			destination = user.Email
		}
		if !validation.ValidateEmail(destination) {
			return nil, ErrInvalidDestination
		}
	default:
		return nil, fmt.Errorf("unknown verification purpose: %s", purpose)
	}

	code, record, err := s.otp.Issue(userID, purpose, destination)
	if err != nil {
		return nil, err
	}

	expiryMinutes := int(s.cfg.OTPExpiry.Minutes())
	if purpose == models.PurposePhone {
		body := fmt.Sprintf("Your SmartQ verification code is: %s. This code will expire in %d minutes.", code, expiryMinutes)
		if _, err := s.sms.SendSMS(destination, body); err != nil {
			log.Printf("OTP SMS delivery to %s failed: %v", destination, err)
			return record, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
	} else {
		if err := s.email.SendVerificationCode(destination, user.Name, code, expiryMinutes); err != nil {
			log.Printf("OTP email delivery to %s failed: %v", destination, err)
			return record, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
	}

	return record, nil
}

// SubmitCode verifies the supplied code and marks the matching contact
// channel on the user as verified. The OTP row is consumed first; the flag
// update is idempotent and retried, since the consumed record alone proves
// the verification happened.
func (s *VerificationService) SubmitCode(userID uuid.UUID, purpose, code string) error {
	if _, err := s.otp.Verify(userID, purpose, code); err != nil {
		return err
	}

	field := "phone_verified"
	if purpose == models.PurposeEmail {
		field = "email_verified"
	}

	var updateErr error
	for attempt := 0; attempt < 2; attempt++ {
		updateErr = s.db.Model(&models.User{}).Where("id = ?", userID).Update(field, true).Error
		if updateErr == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrOTPPersistence, updateErr)
}

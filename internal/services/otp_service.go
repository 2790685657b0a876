package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartq/backend/internal/config"
	"github.com/smartq/backend/internal/models"
	"github.com/smartq/backend/pkg/otp"
	"gorm.io/gorm"
)

// OTPService owns the otp_verifications table: issuance with supersession,
// verification with a check-and-set consume, and expired-row housekeeping.
type OTPService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewOTPService(db *gorm.DB, cfg *config.Config) *OTPService {
	return &OTPService{db: db, cfg: cfg}
}

func otpContext(userID uuid.UUID, purpose string) string {
	return fmt.Sprintf("%s:%s", userID, purpose)
}

// Issue invalidates any active codes for (user, purpose) and stores a fresh
// one in the same transaction. Returns the plaintext code for immediate
// out-of-band delivery; only the digest is persisted.
func (s *OTPService) Issue(userID uuid.UUID, purpose, destination string) (string, *models.OtpVerification, error) {
	code, err := otp.Generate()
	if err != nil {
		return "", nil, err
	}

	record := &models.OtpVerification{
		UserID:      userID,
		Purpose:     purpose,
		Destination: destination,
		Digest:      otp.Digest(code, otpContext(userID, purpose), s.cfg.SessionSecret),
		ExpiresAt:   time.Now().Add(s.cfg.OTPExpiry),
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrOTPPersistence, tx.Error)
	}

	// Supersede: every still-unverified code for this user/purpose is marked
	// verified so it can never be redeemed after a newer one exists.
	if err := tx.Model(&models.OtpVerification{}).
		Where("user_id = ? AND purpose = ? AND verified = ?", userID, purpose, false).
		Update("verified", true).Error; err != nil {
		tx.Rollback()
		return "", nil, fmt.Errorf("%w: %v", ErrOTPPersistence, err)
	}

	if err := tx.Create(record).Error; err != nil {
		tx.Rollback()
		return "", nil, fmt.Errorf("%w: %v", ErrOTPPersistence, err)
	}

	if err := tx.Commit().Error; err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrOTPPersistence, err)
	}

	return code, record, nil
}

// Verify checks the supplied code against the newest active record for
// (user, purpose) and consumes it on success. The consume is a conditional
// update so two concurrent submissions of the same code cannot both succeed.
func (s *OTPService) Verify(userID uuid.UUID, purpose, code string) (*models.OtpVerification, error) {
	now := time.Now()

	var record models.OtpVerification
	err := s.db.
		Where("user_id = ? AND purpose = ? AND verified = ? AND expires_at >= ?", userID, purpose, false, now).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFoundOrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrOTPPersistence, err)
	}

	if !otp.VerifyDigest(code, record.Digest, otpContext(userID, purpose), s.cfg.SessionSecret) {
		return nil, ErrOTPInvalidCode
	}

	result := s.db.Model(&models.OtpVerification{}).
		Where("id = ? AND verified = ? AND expires_at >= ?", record.ID, false, now).
		Update("verified", true)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrOTPPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the race: someone consumed or superseded the record first.
		return nil, ErrOTPNotFoundOrExpired
	}

	record.Verified = true
	return &record, nil
}

// PurgeExpired deletes all records past their expiry, verified or not.
// Housekeeping only: Verify rejects expired rows regardless of cadence here.
func (s *OTPService) PurgeExpired() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.OtpVerification{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrOTPPersistence, result.Error)
	}
	return result.RowsAffected, nil
}

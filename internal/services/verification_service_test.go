package services

import (
	"errors"
	"regexp"
	"testing"

	"github.com/smartq/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeInBody = regexp.MustCompile(`\d{6}`)

func TestVerificationServiceRequestCode(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	otpService := NewOTPService(db, cfg)

	t.Run("sends an SMS with the code to the user's phone", func(t *testing.T) {
		sms := &fakeSMSSender{}
		svc := NewVerificationService(db, cfg, otpService, sms, &fakeEmailSender{})
		user := createTestUser(t, db, models.RoleCustomer)

		record, err := svc.RequestCode(user.ID, models.PurposePhone, "")
		require.NoError(t, err)
		assert.Equal(t, "+15551234567", record.Destination)

		require.Len(t, sms.to, 1)
		assert.Equal(t, "+15551234567", sms.to[0])
		assert.Contains(t, sms.body[0], "Your SmartQ verification code is:")
		assert.Contains(t, sms.body[0], "expire in 5 minutes")
		assert.Regexp(t, codeInBody, sms.body[0])
	})

	t.Run("formats a bare national number before sending", func(t *testing.T) {
		sms := &fakeSMSSender{}
		svc := NewVerificationService(db, cfg, otpService, sms, &fakeEmailSender{})
		user := createTestUser(t, db, models.RoleCustomer)

		record, err := svc.RequestCode(user.ID, models.PurposePhone, "(555) 987-6543")
		require.NoError(t, err)
		assert.Equal(t, "+15559876543", record.Destination)
		require.Len(t, sms.to, 1)
		assert.Equal(t, "+15559876543", sms.to[0])
	})

	t.Run("rejects an invalid phone before any delivery attempt", func(t *testing.T) {
		sms := &fakeSMSSender{}
		svc := NewVerificationService(db, cfg, otpService, sms, &fakeEmailSender{})
		user := createTestUser(t, db, models.RoleCustomer)

		_, err := svc.RequestCode(user.ID, models.PurposePhone, "abc")
		assert.ErrorIs(t, err, ErrInvalidDestination)
		assert.Empty(t, sms.to)

		var count int64
		require.NoError(t, db.Model(&models.OtpVerification{}).
			Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("emails the code for the email purpose", func(t *testing.T) {
		email := &fakeEmailSender{}
		svc := NewVerificationService(db, cfg, otpService, &fakeSMSSender{}, email)
		user := createTestUser(t, db, models.RoleCustomer)

		record, err := svc.RequestCode(user.ID, models.PurposeEmail, "")
		require.NoError(t, err)
		assert.Equal(t, user.Email, record.Destination)
		require.Len(t, email.codes, 1)
		assert.Regexp(t, codeInBody, email.codes[0])
	})

	t.Run("delivery failure keeps the issued code redeemable", func(t *testing.T) {
		sms := &fakeSMSSender{err: errors.New("provider down")}
		svc := NewVerificationService(db, cfg, otpService, sms, &fakeEmailSender{})
		user := createTestUser(t, db, models.RoleCustomer)

		record, err := svc.RequestCode(user.ID, models.PurposePhone, "")
		assert.ErrorIs(t, err, ErrDeliveryFailed)
		require.NotNil(t, record)

		var stored models.OtpVerification
		require.NoError(t, db.First(&stored, record.ID).Error)
		assert.False(t, stored.Verified)
	})
}

func TestVerificationServiceSubmitCode(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	otpService := NewOTPService(db, cfg)

	t.Run("correct code marks the phone verified", func(t *testing.T) {
		sms := &fakeSMSSender{}
		svc := NewVerificationService(db, cfg, otpService, sms, &fakeEmailSender{})
		user := createTestUser(t, db, models.RoleCustomer)

		_, err := svc.RequestCode(user.ID, models.PurposePhone, "")
		require.NoError(t, err)
		code := codeInBody.FindString(sms.body[0])
		require.NotEmpty(t, code)

		require.NoError(t, svc.SubmitCode(user.ID, models.PurposePhone, code))

		var updated models.User
		require.NoError(t, db.First(&updated, user.ID).Error)
		assert.True(t, updated.PhoneVerified)
		assert.False(t, updated.EmailVerified)
	})

	t.Run("correct code marks the email verified", func(t *testing.T) {
		email := &fakeEmailSender{}
		svc := NewVerificationService(db, cfg, otpService, &fakeSMSSender{}, email)
		user := createTestUser(t, db, models.RoleCustomer)

		_, err := svc.RequestCode(user.ID, models.PurposeEmail, "")
		require.NoError(t, err)

		require.NoError(t, svc.SubmitCode(user.ID, models.PurposeEmail, email.codes[0]))

		var updated models.User
		require.NoError(t, db.First(&updated, user.ID).Error)
		assert.True(t, updated.EmailVerified)
		assert.False(t, updated.PhoneVerified)
	})

	t.Run("wrong code leaves the flag untouched", func(t *testing.T) {
		sms := &fakeSMSSender{}
		svc := NewVerificationService(db, cfg, otpService, sms, &fakeEmailSender{})
		user := createTestUser(t, db, models.RoleCustomer)

		_, err := svc.RequestCode(user.ID, models.PurposePhone, "")
		require.NoError(t, err)
		code := codeInBody.FindString(sms.body[0])

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		err = svc.SubmitCode(user.ID, models.PurposePhone, wrong)
		assert.ErrorIs(t, err, ErrOTPInvalidCode)

		var updated models.User
		require.NoError(t, db.First(&updated, user.ID).Error)
		assert.False(t, updated.PhoneVerified)
	})

	t.Run("a failed flag update surfaces a persistence error and consumes the code", func(t *testing.T) {
		isolated := setupTestDB(t)
		isolatedOTP := NewOTPService(isolated, cfg)
		sms := &fakeSMSSender{}
		svc := NewVerificationService(isolated, cfg, isolatedOTP, sms, &fakeEmailSender{})
		user := createTestUser(t, isolated, models.RoleCustomer)

		record, err := svc.RequestCode(user.ID, models.PurposePhone, "")
		require.NoError(t, err)
		code := codeInBody.FindString(sms.body[0])

		// Make the flag update fail after the OTP row has been consumed
		require.NoError(t, isolated.Migrator().DropTable(&models.User{}))

		err = svc.SubmitCode(user.ID, models.PurposePhone, code)
		assert.ErrorIs(t, err, ErrOTPPersistence)

		// The record is consumed regardless; recovery is a reissue
		var stored models.OtpVerification
		require.NoError(t, isolated.First(&stored, record.ID).Error)
		assert.True(t, stored.Verified)
	})

	t.Run("only the latest code is accepted after a resend", func(t *testing.T) {
		sms := &fakeSMSSender{}
		svc := NewVerificationService(db, cfg, otpService, sms, &fakeEmailSender{})
		user := createTestUser(t, db, models.RoleCustomer)

		_, err := svc.RequestCode(user.ID, models.PurposePhone, "")
		require.NoError(t, err)
		_, err = svc.RequestCode(user.ID, models.PurposePhone, "")
		require.NoError(t, err)
		require.Len(t, sms.body, 2)

		first := codeInBody.FindString(sms.body[0])
		second := codeInBody.FindString(sms.body[1])
		if first == second {
			t.Skip("generated codes collided")
		}

		err = svc.SubmitCode(user.ID, models.PurposePhone, first)
		assert.Error(t, err)

		require.NoError(t, svc.SubmitCode(user.ID, models.PurposePhone, second))
	})
}

package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/smartq/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestOTPServiceIssue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPService(db, testConfig())
	user := createTestUser(t, db, models.RoleCustomer)

	t.Run("returns a 6-digit code and persists only a digest", func(t *testing.T) {
		code, record, err := svc.Issue(user.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		assert.NotContains(t, record.Digest, code)
		assert.False(t, record.Verified)
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), record.ExpiresAt, 5*time.Second)
	})

	t.Run("reissue supersedes the previous code", func(t *testing.T) {
		oldCode, _, err := svc.Issue(user.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)
		newCode, _, err := svc.Issue(user.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)

		_, err = svc.Verify(user.ID, models.PurposePhone, oldCode)
		if oldCode == newCode {
			t.Skip("generated codes collided")
		}
		assert.Error(t, err)

		_, err = svc.Verify(user.ID, models.PurposePhone, newCode)
		assert.NoError(t, err)
	})

	t.Run("only one unverified row per user and purpose", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, _, err := svc.Issue(user.ID, models.PurposeEmail, "user@example.com")
			require.NoError(t, err)
		}

		var count int64
		require.NoError(t, db.Model(&models.OtpVerification{}).
			Where("user_id = ? AND purpose = ? AND verified = ?", user.ID, models.PurposeEmail, false).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("purposes are independent", func(t *testing.T) {
		phoneCode, _, err := svc.Issue(user.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)
		_, _, err = svc.Issue(user.ID, models.PurposeEmail, "user@example.com")
		require.NoError(t, err)

		// The email reissue must not invalidate the phone code
		_, err = svc.Verify(user.ID, models.PurposePhone, phoneCode)
		assert.NoError(t, err)
	})
}

func TestOTPServiceVerify(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPService(db, testConfig())
	user := createTestUser(t, db, models.RoleCustomer)

	t.Run("accepts the correct code once", func(t *testing.T) {
		code, _, err := svc.Issue(user.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)

		record, err := svc.Verify(user.ID, models.PurposePhone, code)
		require.NoError(t, err)
		assert.True(t, record.Verified)

		// Second submission of the same code must fail
		_, err = svc.Verify(user.ID, models.PurposePhone, code)
		assert.ErrorIs(t, err, ErrOTPNotFoundOrExpired)
	})

	t.Run("wrong code fails but does not consume", func(t *testing.T) {
		code, _, err := svc.Issue(user.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		_, err = svc.Verify(user.ID, models.PurposePhone, wrong)
		assert.ErrorIs(t, err, ErrOTPInvalidCode)

		// The correct code is still redeemable
		_, err = svc.Verify(user.ID, models.PurposePhone, code)
		assert.NoError(t, err)
	})

	t.Run("rejects an expired code", func(t *testing.T) {
		code, record, err := svc.Issue(user.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)

		require.NoError(t, db.Model(&models.OtpVerification{}).
			Where("id = ?", record.ID).
			Update("expires_at", time.Now().Add(-time.Minute)).Error)

		_, err = svc.Verify(user.ID, models.PurposePhone, code)
		assert.ErrorIs(t, err, ErrOTPNotFoundOrExpired)
	})

	t.Run("rejects when no code was ever issued", func(t *testing.T) {
		other := createTestUser(t, db, models.RoleCustomer)
		_, err := svc.Verify(other.ID, models.PurposePhone, "123456")
		assert.ErrorIs(t, err, ErrOTPNotFoundOrExpired)
	})

	t.Run("code issued for another user is rejected", func(t *testing.T) {
		other := createTestUser(t, db, models.RoleCustomer)
		code, _, err := svc.Issue(other.ID, models.PurposePhone, "+15551234567")
		require.NoError(t, err)

		victim := createTestUser(t, db, models.RoleCustomer)
		_, _, err = svc.Issue(victim.ID, models.PurposePhone, "+15557654321")
		require.NoError(t, err)

		// Digest is bound to the user, so the other user's code never matches
		_, err = svc.Verify(victim.ID, models.PurposePhone, code)
		assert.Error(t, err)
	})
}

func TestOTPServicePurgeExpired(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOTPService(db, testConfig())
	user := createTestUser(t, db, models.RoleCustomer)

	_, expired, err := svc.Issue(user.ID, models.PurposeEmail, "user@example.com")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.OtpVerification{}).
		Where("id = ?", expired.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, _, err = svc.Issue(user.ID, models.PurposePhone, "+15551234567")
	require.NoError(t, err)

	purged, err := svc.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var remaining int64
	require.NoError(t, db.Model(&models.OtpVerification{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

package services

import (
	"testing"

	"github.com/smartq/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, nil, testConfig())

	t.Run("creates a customer account", func(t *testing.T) {
		user, err := svc.Register("Amira", "amira@example.com", "Sup3rSecret", "+15551234567", models.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, models.RoleCustomer, user.Role)
		assert.NotEqual(t, "Sup3rSecret", user.Password)
		assert.False(t, user.EmailVerified)
		assert.False(t, user.PhoneVerified)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		_, err := svc.Register("Other", "amira@example.com", "Sup3rSecret", "", models.RoleCustomer)
		assert.Error(t, err)
	})

	t.Run("rejects self-registration as admin", func(t *testing.T) {
		_, err := svc.Register("Evil", "evil@example.com", "Sup3rSecret", "", models.RoleAdmin)
		assert.Error(t, err)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, nil, testConfig())

	_, err := svc.Register("Amira", "amira@example.com", "Sup3rSecret", "", models.RoleCustomer)
	require.NoError(t, err)

	t.Run("returns tokens for valid credentials", func(t *testing.T) {
		access, refresh, user, err := svc.Login("amira@example.com", "Sup3rSecret")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, "amira@example.com", user.Email)
	})

	t.Run("repeated logins within the same second both succeed", func(t *testing.T) {
		// A second device or a double-clicked login lands inside the same
		// second; each attempt must persist its own refresh token row.
		_, firstRefresh, _, err := svc.Login("amira@example.com", "Sup3rSecret")
		require.NoError(t, err)
		_, secondRefresh, _, err := svc.Login("amira@example.com", "Sup3rSecret")
		require.NoError(t, err)
		assert.NotEqual(t, firstRefresh, secondRefresh)

		// Both sessions stay usable
		_, err = svc.RefreshToken(firstRefresh)
		assert.NoError(t, err)
		_, err = svc.RefreshToken(secondRefresh)
		assert.NoError(t, err)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login("amira@example.com", "WrongPass1")
		assert.Error(t, err)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login("nobody@example.com", "Sup3rSecret")
		assert.Error(t, err)
	})

	t.Run("refresh token mints a new access token", func(t *testing.T) {
		_, refresh, _, err := svc.Login("amira@example.com", "Sup3rSecret")
		require.NoError(t, err)

		access, err := svc.RefreshToken(refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)

		// Access tokens are not refresh tokens
		_, err = svc.RefreshToken(access)
		assert.Error(t, err)
	})
}

func TestAuthServicePasswordReset(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, nil, testConfig())

	user, err := svc.Register("Amira", "amira@example.com", "Sup3rSecret", "", models.RoleCustomer)
	require.NoError(t, err)

	t.Run("unknown email returns not found", func(t *testing.T) {
		_, _, err := svc.CreatePasswordReset("nobody@example.com")
		assert.Error(t, err)
	})

	t.Run("token resets the password once", func(t *testing.T) {
		resetUser, token, err := svc.CreatePasswordReset("amira@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, resetUser.ID)

		require.NoError(t, svc.ResetPassword(token, "N3wPassword"))

		_, _, _, err = svc.Login("amira@example.com", "Sup3rSecret")
		assert.Error(t, err)
		_, _, _, err = svc.Login("amira@example.com", "N3wPassword")
		assert.NoError(t, err)

		// Token is single use
		assert.Error(t, svc.ResetPassword(token, "An0therPass"))
	})

	t.Run("password change revokes refresh tokens", func(t *testing.T) {
		_, refresh, _, err := svc.Login("amira@example.com", "N3wPassword")
		require.NoError(t, err)

		_, token, err := svc.CreatePasswordReset("amira@example.com")
		require.NoError(t, err)
		require.NoError(t, svc.ResetPassword(token, "Fin4lPass"))

		_, err = svc.RefreshToken(refresh)
		assert.Error(t, err)
	})
}

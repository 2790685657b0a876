package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("  First.Last+tag@sub.example.co  "))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestFormatPhoneNumber(t *testing.T) {
	t.Run("bare 10-digit gets default region", func(t *testing.T) {
		assert.Equal(t, "+15551234567", FormatPhoneNumber("5551234567", "1"))
		assert.Equal(t, "+15551234567", FormatPhoneNumber("(555) 123-4567", "1"))
	})

	t.Run("already E.164 stays unchanged", func(t *testing.T) {
		assert.Equal(t, "+15551234567", FormatPhoneNumber("+1 (555) 123-4567", "1"))
		assert.Equal(t, "+4915112345678", FormatPhoneNumber("+49 151 12345678", "1"))
	})

	t.Run("international without plus", func(t *testing.T) {
		assert.Equal(t, "+4915112345678", FormatPhoneNumber("4915112345678", "1"))
	})
}

func TestValidatePhoneNumber(t *testing.T) {
	assert.True(t, ValidatePhoneNumber("+15551234567", "1"))
	assert.True(t, ValidatePhoneNumber("5551234567", "1"))
	assert.False(t, ValidatePhoneNumber("+0123456789", "1"))
	assert.False(t, ValidatePhoneNumber("12345", "1"))
	assert.False(t, ValidatePhoneNumber("", "1"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Password123"))
	assert.False(t, ValidatePassword("short1A"))
	assert.False(t, ValidatePassword("alllowercase1"))
	assert.False(t, ValidatePassword("ALLUPPERCASE1"))
	assert.False(t, ValidatePassword("NoNumbersHere"))
}

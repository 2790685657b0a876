package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	e164Regex  = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
	digitRegex = regexp.MustCompile(`\D`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return emailRegex.MatchString(email)
}

// ValidatePassword validates password strength
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	return hasUpper && hasLower && hasNumber
}

// FormatPhoneNumber canonicalizes a phone number into E.164 form. Bare
// 10-digit numbers get the default region prefix; anything else keeps its
// digits with a leading +.
func FormatPhoneNumber(phone, defaultRegion string) string {
	phone = strings.TrimSpace(phone)
	digitsOnly := digitRegex.ReplaceAllString(phone, "")

	if len(digitsOnly) == 10 && !strings.HasPrefix(phone, "+") {
		return "+" + defaultRegion + digitsOnly
	}
	if !strings.HasPrefix(phone, "+") {
		return "+" + digitsOnly
	}
	return "+" + digitsOnly
}

// ValidatePhoneNumber reports whether the number, after canonicalization,
// is a valid E.164 number.
func ValidatePhoneNumber(phone, defaultRegion string) bool {
	return e164Regex.MatchString(FormatPhoneNumber(phone, defaultRegion))
}

// SanitizeString removes potentially harmful characters
func SanitizeString(input string) string {
	// Basic sanitization
	input = strings.TrimSpace(input)
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}

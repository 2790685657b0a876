package services

import "errors"

// Verification flow errors. Handlers collapse the verify-path errors into a
// single external "invalid or expired code" response so callers cannot probe
// whether a code was never issued, expired, or already consumed.
var (
	ErrInvalidDestination   = errors.New("invalid destination address")
	ErrOTPPersistence       = errors.New("could not persist verification code")
	ErrOTPNotFoundOrExpired = errors.New("no valid code found or code has expired")
	ErrOTPInvalidCode       = errors.New("invalid code")
	ErrDeliveryFailed       = errors.New("code delivery failed")
)

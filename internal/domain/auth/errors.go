package auth

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrNoPendingVerification = errors.New("no email is waiting for verification")
	ErrInvalidCode           = errors.New("incorrect or expired verification code")
	ErrTooManyCodeAttempts   = errors.New("too many incorrect codes, request a new one")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrNotAuthenticated      = errors.New("not signed in")
)

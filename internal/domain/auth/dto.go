package auth

import (
	"strings"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Normalize trims names and lowercases the email. The password is kept as typed.
func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = validator.NormalizeEmail(r.Email)
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) || validator.IsEmpty(r.LastName) ||
		validator.IsEmpty(r.Email) || r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "fields",
			Message: "All fields are required.",
		})
		return errs
	}

	if !validator.IsValidEmail(validator.NormalizeEmail(r.Email)) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}
	if len(r.Password) < account.MinPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "Password must be at least 6 characters.",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = validator.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) || r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "fields",
			Message: "Email and password are required.",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type VerifyEmailRequest struct {
	Code string `json:"code"`
}

func (r *VerifyEmailRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "Please enter the verification code.",
		})
	} else if !validator.IsNumeric(strings.TrimSpace(r.Code)) || len(strings.TrimSpace(r.Code)) != CodeLength {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "verification code must be 6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

// AuthResponse tells the client where to go after an auth action.
type AuthResponse struct {
	Next      router.Location          `json:"next"`
	Email     string                   `json:"email,omitempty"`
	Token     string                   `json:"token,omitempty"`
	ExpiresAt int64                    `json:"expires_at,omitempty"`
	Account   *account.AccountResponse `json:"account,omitempty"`
}

type ProfileResponse struct {
	account.AccountResponse
	FullName string `json:"full_name"`
}

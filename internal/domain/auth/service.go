package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-portal-go/internal/session"
)

type AuthService interface {
	// Register creates an unverified user account and starts its verification.
	Register(ctx context.Context, s *session.Session, req RegisterRequest) (AuthResponse, error)
	// VerifyEmail checks the code sent to the session's pending email.
	VerifyEmail(ctx context.Context, s *session.Session, req VerifyEmailRequest) (AuthResponse, error)
	ResendCode(ctx context.Context, s *session.Session) (AuthResponse, error)
	Login(ctx context.Context, s *session.Session, req LoginRequest) (AuthResponse, error)
	Logout(ctx context.Context, s *session.Session) (AuthResponse, error)
	Profile(ctx context.Context, s *session.Session) (ProfileResponse, error)
	// RefreshIdentity signs the session out when its account was deleted or
	// its email or role changed, reporting whether it did.
	RefreshIdentity(ctx context.Context, s *session.Session) (bool, error)
}

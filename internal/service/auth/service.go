package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/password"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
)

type AuthServiceImpl struct {
	store  *store.Store
	hasher password.Hasher
	jwt.Service
	email.EmailService
	codes *codeStore
}

func NewAuthService(st *store.Store, hasher password.Hasher, jwtService jwt.Service, emailService email.EmailService, slot kv.Slot, codeTTL time.Duration) auth.AuthService {
	return &AuthServiceImpl{
		store:        st,
		hasher:       hasher,
		Service:      jwtService,
		EmailService: emailService,
		codes:        &codeStore{slot: slot, ttl: codeTTL, now: st.Now},
	}
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, s *session.Session, req auth.RegisterRequest) (auth.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return auth.AuthResponse{}, err
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return auth.AuthResponse{}, err
	}

	var created account.Account
	err = a.store.Mutate(ctx, func() error {
		var err error
		created, err = a.store.Accounts.Insert(account.Account{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         account.RoleUser,
			Verified:     false,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return auth.AuthResponse{}, account.ErrEmailExists
		}
		return auth.AuthResponse{}, fmt.Errorf("failed to create account: %w", err)
	}

	if err := a.startVerification(ctx, s, created); err != nil {
		return auth.AuthResponse{}, err
	}

	slog.Info("Account registered", "account_id", created.ID, "email", created.Email)
	return auth.AuthResponse{Next: router.VerifyEmail, Email: created.Email}, nil
}

// VerifyEmail implements auth.AuthService.
func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, s *session.Session, req auth.VerifyEmailRequest) (auth.AuthResponse, error) {
	pendingEmail, ok, err := s.PendingEmail(ctx)
	if err != nil {
		return auth.AuthResponse{}, err
	}
	if !ok {
		return auth.AuthResponse{}, auth.ErrNoPendingVerification
	}

	if err := req.Validate(); err != nil {
		return auth.AuthResponse{}, err
	}
	if err := a.codes.check(ctx, pendingEmail, strings.TrimSpace(req.Code)); err != nil {
		return auth.AuthResponse{}, err
	}

	err = a.store.Mutate(ctx, func() error {
		found, ok := a.store.Accounts.Find(byEmail(pendingEmail))
		if !ok {
			return account.ErrAccountNotFound
		}
		_, err := a.store.Accounts.Update(found.ID, func(acc *account.Account) error {
			acc.Verified = true
			return nil
		})
		return err
	})
	if errors.Is(err, account.ErrAccountNotFound) {
		slog.Warn("Pending account removed before verification", "email", pendingEmail)
		if err := a.endVerification(ctx, s, pendingEmail); err != nil {
			return auth.AuthResponse{}, err
		}
		return auth.AuthResponse{}, account.ErrAccountNotFound
	}
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to verify account: %w", err)
	}

	if err := a.endVerification(ctx, s, pendingEmail); err != nil {
		return auth.AuthResponse{}, err
	}

	slog.Info("Email verified", "email", pendingEmail)
	return auth.AuthResponse{Next: router.Login, Email: pendingEmail}, nil
}

// ResendCode implements auth.AuthService.
func (a *AuthServiceImpl) ResendCode(ctx context.Context, s *session.Session) (auth.AuthResponse, error) {
	pendingEmail, ok, err := s.PendingEmail(ctx)
	if err != nil {
		return auth.AuthResponse{}, err
	}
	if !ok {
		return auth.AuthResponse{}, auth.ErrNoPendingVerification
	}

	var acc account.Account
	_ = a.store.Read(func() error {
		acc, ok = a.store.Accounts.Find(byEmail(pendingEmail))
		return nil
	})
	if !ok {
		slog.Warn("Pending account removed before resend", "email", pendingEmail)
		if err := a.endVerification(ctx, s, pendingEmail); err != nil {
			return auth.AuthResponse{}, err
		}
		return auth.AuthResponse{}, auth.ErrNoPendingVerification
	}

	if err := a.startVerification(ctx, s, acc); err != nil {
		return auth.AuthResponse{}, err
	}
	return auth.AuthResponse{Next: router.VerifyEmail, Email: pendingEmail}, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, s *session.Session, req auth.LoginRequest) (auth.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return auth.AuthResponse{}, err
	}

	var (
		acc   account.Account
		found bool
	)
	_ = a.store.Read(func() error {
		acc, found = a.store.Accounts.Find(byEmail(req.Email))
		return nil
	})

	// Unknown email and wrong password look the same to the caller
	if !found || !a.hasher.Compare(acc.PasswordHash, req.Password) {
		return auth.AuthResponse{}, auth.ErrInvalidCredentials
	}

	if !acc.Verified {
		if err := a.startVerification(ctx, s, acc); err != nil {
			return auth.AuthResponse{}, err
		}
		return auth.AuthResponse{Next: router.VerifyEmail, Email: acc.Email}, nil
	}

	if previous, ok, err := s.Token(ctx); err == nil && ok {
		a.Service.RevokeToken(previous)
	}

	token, expiresAt, err := a.Service.GenerateSessionToken(acc.Email, acc.Role)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	if err := s.SetToken(ctx, token); err != nil {
		return auth.AuthResponse{}, err
	}
	s.SetIdentity(account.NewIdentity(acc))

	slog.Info("Login succeeded", "account_id", acc.ID, "role", acc.Role)
	resp := account.NewAccountResponse(acc)
	return auth.AuthResponse{
		Next:      router.Profile,
		Email:     acc.Email,
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   &resp,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, s *session.Session) (auth.AuthResponse, error) {
	token, ok, err := s.Token(ctx)
	if err != nil {
		return auth.AuthResponse{}, err
	}
	if ok {
		a.Service.RevokeToken(token)
	}
	if err := s.ClearToken(ctx); err != nil {
		return auth.AuthResponse{}, err
	}
	s.ClearIdentity()

	return auth.AuthResponse{Next: router.Home}, nil
}

// Profile implements auth.AuthService.
func (a *AuthServiceImpl) Profile(ctx context.Context, s *session.Session) (auth.ProfileResponse, error) {
	identity, ok := s.Identity()
	if !ok {
		return auth.ProfileResponse{}, auth.ErrNotAuthenticated
	}

	var acc account.Account
	err := a.store.Read(func() error {
		var err error
		acc, err = a.store.Accounts.Get(identity.AccountID)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		if _, err := a.Logout(ctx, s); err != nil {
			return auth.ProfileResponse{}, err
		}
		return auth.ProfileResponse{}, auth.ErrNotAuthenticated
	}
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	return auth.ProfileResponse{
		AccountResponse: account.NewAccountResponse(acc),
		FullName:        acc.FullName(),
	}, nil
}

// RefreshIdentity implements auth.AuthService. A session whose account was
// deleted, or had its email or role changed, is signed out and reports true.
func (a *AuthServiceImpl) RefreshIdentity(ctx context.Context, s *session.Session) (bool, error) {
	identity, ok := s.Identity()
	if !ok {
		return false, nil
	}

	var acc account.Account
	err := a.store.Read(func() error {
		var err error
		acc, err = a.store.Accounts.Get(identity.AccountID)
		return err
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	if err == nil && validator.NormalizeEmail(acc.Email) == validator.NormalizeEmail(identity.Email) && acc.Role == identity.Role {
		if acc.FirstName != identity.FirstName || acc.LastName != identity.LastName {
			s.SetIdentity(account.NewIdentity(acc))
		}
		return false, nil
	}

	if _, err := a.Logout(ctx, s); err != nil {
		return false, err
	}
	slog.Info("Session signed out after account change", "account_id", identity.AccountID, "deleted", err != nil)
	return true, nil
}

// endVerification drops the pending email marker and its code.
func (a *AuthServiceImpl) endVerification(ctx context.Context, s *session.Session, email string) error {
	if err := s.ClearPendingEmail(ctx); err != nil {
		return err
	}
	if err := a.codes.clear(ctx, email); err != nil {
		slog.Warn("Failed to clear verification code", "email", email, "error", err)
	}
	return nil
}

// startVerification marks the email as pending on the session and mails it a new code.
func (a *AuthServiceImpl) startVerification(ctx context.Context, s *session.Session, acc account.Account) error {
	if err := s.SetPendingEmail(ctx, acc.Email); err != nil {
		return err
	}

	vc, err := a.codes.issue(ctx, acc.Email)
	if err != nil {
		return err
	}

	to, firstName, code := acc.Email, acc.FirstName, vc.Code
	expiresAt := vc.ExpiresAt.Format("15:04 MST")
	go func() {
		if err := a.EmailService.SendVerificationCode(to, firstName, code, expiresAt); err != nil {
			slog.Error("Failed to send verification code", "email", to, "error", err)
		}
	}()
	return nil
}

func byEmail(email string) func(account.Account) bool {
	email = validator.NormalizeEmail(email)
	return func(acc account.Account) bool {
		return validator.NormalizeEmail(acc.Email) == email
	}
}

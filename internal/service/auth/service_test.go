package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/password"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type nopMailer struct{}

func (nopMailer) SendVerificationCode(to, firstName, code, expiresAt string) error { return nil }

type authFixture struct {
	svc      auth.AuthService
	store    *store.Store
	slot     kv.Slot
	sessions *session.Manager
	jwt      jwt.Service
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		slot: kv.NewMemorySlot(),
		jwt:  jwt.NewJWTService(testSecret, "1h"),
		now:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	f.store = store.New(f.slot, fixtures.PortalDefaults(hasher), store.WithClock(func() time.Time { return f.now }))
	require.NoError(t, f.store.Restore(context.Background()))

	f.sessions = session.NewManager(f.slot)
	f.svc = NewAuthService(f.store, hasher, f.jwt, nopMailer{}, f.slot, 15*time.Minute)
	return f
}

func (f *authFixture) code(t *testing.T, email string) string {
	t.Helper()
	raw, err := f.slot.Get(context.Background(), "verify_code:"+email)
	require.NoError(t, err)
	var vc verificationCode
	require.NoError(t, json.Unmarshal([]byte(raw), &vc))
	return vc.Code
}

func (f *authFixture) account(t *testing.T, email string) account.Account {
	t.Helper()
	acc, ok := f.store.Accounts.Find(func(a account.Account) bool { return a.Email == email })
	require.True(t, ok, "account %s", email)
	return acc
}

func TestRegister_CreatesUnverifiedAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	resp, err := f.svc.Register(ctx, s, auth.RegisterRequest{
		FirstName: " Alice ", LastName: "Doe", Email: " Alice@X.com", Password: "abcdef",
	})
	require.NoError(t, err)
	assert.Equal(t, router.VerifyEmail, resp.Next)
	assert.Equal(t, "alice@x.com", resp.Email)

	acc := f.account(t, "alice@x.com")
	assert.Equal(t, "Alice", acc.FirstName)
	assert.Equal(t, account.RoleUser, acc.Role)
	assert.False(t, acc.Verified)
	assert.NotEqual(t, "abcdef", acc.PasswordHash)

	pending, ok, err := s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice@x.com", pending)
	assert.Len(t, f.code(t, "alice@x.com"), auth.CodeLength)
	assert.False(t, s.IsAuthenticated())
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)
	s := f.sessions.New()

	_, err := f.svc.Register(context.Background(), s, auth.RegisterRequest{FirstName: "Alice", Email: "alice@x.com", Password: "abcdef"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "All fields are required.", verrs[0].Message)

	_, err = f.svc.Register(context.Background(), s, auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abc"})
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("password"))

	assert.Equal(t, 1, f.store.Accounts.Len())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	s := f.sessions.New()

	_, err := f.svc.Register(context.Background(), s, auth.RegisterRequest{
		FirstName: "Other", LastName: "Admin", Email: "ADMIN@example.com", Password: "abcdef",
	})
	assert.ErrorIs(t, err, account.ErrEmailExists)
	assert.Equal(t, 1, f.store.Accounts.Len())

	_, ok, err := s.PendingEmail(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	_, err := f.svc.Register(ctx, s, auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)
	code := f.code(t, "alice@x.com")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: wrong})
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
	assert.False(t, f.account(t, "alice@x.com").Verified)

	resp, err := f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: " " + code + " "})
	require.NoError(t, err)
	assert.Equal(t, router.Login, resp.Next)
	assert.True(t, f.account(t, "alice@x.com").Verified)

	_, ok, err := s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = f.slot.Get(ctx, "verify_code:alice@x.com")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestVerifyEmail_RequiresPendingMarker(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.VerifyEmail(context.Background(), f.sessions.New(), auth.VerifyEmailRequest{Code: "123456"})
	assert.ErrorIs(t, err, auth.ErrNoPendingVerification)
}

func TestVerifyEmail_ExpiredCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	_, err := f.svc.Register(ctx, s, auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)
	code := f.code(t, "alice@x.com")

	f.now = f.now.Add(16 * time.Minute)
	_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: code})
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestVerifyEmail_TooManyWrongCodes(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	_, err := f.svc.Register(ctx, s, auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)
	code := f.code(t, "alice@x.com")

	for i := 1; i < maxCodeAttempts; i++ {
		_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: wrongCode(code)})
		require.ErrorIs(t, err, auth.ErrInvalidCode, "attempt %d", i)
	}
	_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: wrongCode(code)})
	assert.ErrorIs(t, err, auth.ErrTooManyCodeAttempts)

	// The right code no longer works once the limit is hit
	_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: code})
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
	assert.False(t, f.account(t, "alice@x.com").Verified)

	_, err = f.svc.ResendCode(ctx, s)
	require.NoError(t, err)
	_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: f.code(t, "alice@x.com")})
	require.NoError(t, err)
	assert.True(t, f.account(t, "alice@x.com").Verified)
}

func TestVerifyEmail_AccountDeletedWhilePending(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	_, err := f.svc.Register(ctx, s, auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)
	code := f.code(t, "alice@x.com")
	require.NoError(t, f.store.Mutate(ctx, func() error {
		return f.store.Accounts.Delete(f.account(t, "alice@x.com").ID)
	}))

	_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: code})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)

	_, ok, err := s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = f.slot.Get(ctx, "verify_code:alice@x.com")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestResendCode_AccountDeletedWhilePending(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	_, err := f.svc.Register(ctx, s, auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)
	require.NoError(t, f.store.Mutate(ctx, func() error {
		return f.store.Accounts.Delete(f.account(t, "alice@x.com").ID)
	}))

	_, err = f.svc.ResendCode(ctx, s)
	assert.ErrorIs(t, err, auth.ErrNoPendingVerification)

	_, ok, err := s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = f.slot.Get(ctx, "verify_code:alice@x.com")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestResendCode_ReplacesCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	_, err := f.svc.ResendCode(ctx, s)
	assert.ErrorIs(t, err, auth.ErrNoPendingVerification)

	_, err = f.svc.Register(ctx, s, auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)

	f.now = f.now.Add(time.Minute)
	resp, err := f.svc.ResendCode(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, router.VerifyEmail, resp.Next)

	raw, err := f.slot.Get(ctx, "verify_code:alice@x.com")
	require.NoError(t, err)
	var vc verificationCode
	require.NoError(t, json.Unmarshal([]byte(raw), &vc))
	assert.Equal(t, f.now.Add(15*time.Minute), vc.ExpiresAt)

	_, err = f.svc.VerifyEmail(ctx, s, auth.VerifyEmailRequest{Code: vc.Code})
	assert.NoError(t, err)
}

func TestLogin_Admin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	resp, err := f.svc.Login(ctx, s, auth.LoginRequest{Email: fixtures.AdminEmail, Password: fixtures.AdminPassword})
	require.NoError(t, err)
	assert.Equal(t, router.Profile, resp.Next)
	require.NotNil(t, resp.Account)
	assert.Equal(t, "admin", resp.Account.Role)

	identity, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, account.RoleAdmin, identity.Role)

	token, ok, err := s.Token(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp.Token, token)

	claims, err := f.jwt.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, fixtures.AdminEmail, claims.Email)
	assert.Equal(t, account.RoleAdmin, claims.Role)

	// Admins asking for my-requests land on admin-requests with an info notice
	var notices router.Notices
	res, err := router.New().Navigate(ctx, s, "my-requests", &notices)
	require.NoError(t, err)
	assert.Equal(t, router.AdminRequests, res.Page.Location)
	require.Len(t, notices, 1)
	assert.Equal(t, router.SeverityInfo, notices[0].Severity)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	s := f.sessions.New()

	_, err := f.svc.Login(context.Background(), s, auth.LoginRequest{Email: fixtures.AdminEmail, Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), s, auth.LoginRequest{Email: "nobody@x.com", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), s, auth.LoginRequest{Email: "", Password: ""})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	assert.False(t, s.IsAuthenticated())
}

func TestLogin_UnverifiedGoesToVerification(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.sessions.New(), auth.RegisterRequest{FirstName: "Alice", LastName: "Doe", Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)

	s := f.sessions.New()
	resp, err := f.svc.Login(ctx, s, auth.LoginRequest{Email: "alice@x.com", Password: "abcdef"})
	require.NoError(t, err)
	assert.Equal(t, router.VerifyEmail, resp.Next)
	assert.Empty(t, resp.Token)
	assert.False(t, s.IsAuthenticated())

	pending, ok, err := s.PendingEmail(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice@x.com", pending)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	login, err := f.svc.Login(ctx, s, auth.LoginRequest{Email: fixtures.AdminEmail, Password: fixtures.AdminPassword})
	require.NoError(t, err)

	resp, err := f.svc.Logout(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, router.Home, resp.Next)
	assert.False(t, s.IsAuthenticated())
	assert.True(t, f.jwt.IsTokenRevoked(login.Token))

	_, ok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	_, err := f.svc.Profile(ctx, s)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)

	_, err = f.svc.Login(ctx, s, auth.LoginRequest{Email: fixtures.AdminEmail, Password: fixtures.AdminPassword})
	require.NoError(t, err)

	profile, err := f.svc.Profile(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Admin User", profile.FullName)
	assert.Equal(t, fixtures.AdminEmail, profile.Email)
}

func TestProfile_DeletedAccountSignsOut(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	acc, err := f.store.Accounts.Insert(account.Account{FirstName: "Bob", LastName: "Smith", Email: "bob@y.io", Role: account.RoleUser, Verified: true})
	require.NoError(t, err)
	s.SetIdentity(account.NewIdentity(acc))
	require.NoError(t, f.store.Mutate(ctx, func() error { return f.store.Accounts.Delete(acc.ID) }))

	_, err = f.svc.Profile(ctx, s)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	assert.False(t, s.IsAuthenticated())
}

func TestRefreshIdentity(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	s := f.sessions.New()

	ended, err := f.svc.RefreshIdentity(ctx, s)
	require.NoError(t, err)
	assert.False(t, ended)

	login, err := f.svc.Login(ctx, s, auth.LoginRequest{Email: fixtures.AdminEmail, Password: fixtures.AdminPassword})
	require.NoError(t, err)
	admin := f.account(t, fixtures.AdminEmail)

	// A renamed account keeps its sign-in and the identity picks up the name
	require.NoError(t, f.store.Mutate(ctx, func() error {
		_, err := f.store.Accounts.Update(admin.ID, func(a *account.Account) error {
			a.FirstName = "Ada"
			return nil
		})
		return err
	}))
	ended, err = f.svc.RefreshIdentity(ctx, s)
	require.NoError(t, err)
	assert.False(t, ended)
	identity, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, "Ada", identity.FirstName)

	// A role change signs the session out and revokes its token
	require.NoError(t, f.store.Mutate(ctx, func() error {
		_, err := f.store.Accounts.Update(admin.ID, func(a *account.Account) error {
			a.Role = account.RoleUser
			return nil
		})
		return err
	}))
	ended, err = f.svc.RefreshIdentity(ctx, s)
	require.NoError(t, err)
	assert.True(t, ended)
	assert.False(t, s.IsAuthenticated())
	assert.True(t, f.jwt.IsTokenRevoked(login.Token))
}

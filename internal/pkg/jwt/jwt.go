package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is what a session token says about its bearer.
type SessionClaims struct {
	Email     string
	Role      account.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Service interface {
	GenerateSessionToken(email string, role account.Role) (token string, expiresAt int64, err error)
	ParseSessionToken(tokenString string) (SessionClaims, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
	PruneRevoked() int
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateSessionToken(email string, role account.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	now := j.now()
	expiresAt = now.Add(expDuration).Unix()

	// jti keeps tokens minted within the same second distinct
	claims := map[string]interface{}{
		"jti":   uuid.NewString(),
		"email": email,
		"role":  string(role),
		"type":  "session",
		"iat":   now.Unix(),
		"exp":   expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseSessionToken verifies signature and expiry and rejects revoked tokens.
func (j *JWTService) ParseSessionToken(tokenString string) (SessionClaims, error) {
	if j.IsTokenRevoked(tokenString) {
		return SessionClaims{}, ErrInvalidToken
	}

	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return SessionClaims{}, ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "session" {
		return SessionClaims{}, ErrInvalidToken
	}

	emailVal, ok := token.Get("email")
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	email, ok := emailVal.(string)
	if !ok || email == "" {
		return SessionClaims{}, ErrInvalidToken
	}

	roleVal, ok := token.Get("role")
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	role, ok := roleVal.(string)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}

	return SessionClaims{
		Email:     email,
		Role:      account.Role(role),
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}, nil
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = j.now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// PruneRevoked forgets revoked tokens that have expired on their own since.
func (j *JWTService) PruneRevoked() int {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return 0
	}
	cutoff := j.now().Add(-expDuration).Unix()

	j.mu.Lock()
	defer j.mu.Unlock()
	pruned := 0
	for token, revokedAt := range j.revokedTokens {
		if revokedAt < cutoff {
			delete(j.revokedTokens, token)
			pruned++
		}
	}
	return pruned
}

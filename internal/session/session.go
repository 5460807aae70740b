// Package session tracks what each connected client is: who is signed in,
// which location they are on, and the markers kept for them in the slot.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
)

const (
	markerUnverifiedEmail = "unverified_email"
	markerToken           = "token"
)

// Session is one client's state. Identity and location live in memory only;
// the pending-verification email and the session token are slot markers.
type Session struct {
	ID string

	mu       sync.RWMutex
	identity *account.Identity
	location string
	slot     kv.Slot
}

func newSession(id string, slot kv.Slot) *Session {
	return &Session{ID: id, slot: slot}
}

func (s *Session) Identity() (account.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return account.Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) SetIdentity(identity account.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &identity
}

func (s *Session) ClearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.Identity()
	return ok
}

func (s *Session) IsAdmin() bool {
	identity, ok := s.Identity()
	return ok && identity.IsAdmin()
}

// Location is the last location the session was admitted to.
func (s *Session) Location() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

func (s *Session) SetLocation(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = location
}

// PendingEmail returns the email awaiting verification, if any.
func (s *Session) PendingEmail(ctx context.Context) (string, bool, error) {
	return s.marker(ctx, markerUnverifiedEmail)
}

func (s *Session) SetPendingEmail(ctx context.Context, email string) error {
	return s.setMarker(ctx, markerUnverifiedEmail, email)
}

func (s *Session) ClearPendingEmail(ctx context.Context) error {
	return s.clearMarker(ctx, markerUnverifiedEmail)
}

// Token returns the session token issued at login, if any.
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	return s.marker(ctx, markerToken)
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	return s.setMarker(ctx, markerToken, token)
}

func (s *Session) ClearToken(ctx context.Context) error {
	return s.clearMarker(ctx, markerToken)
}

func (s *Session) markerKey(name string) string {
	return "session:" + s.ID + ":" + name
}

func (s *Session) marker(ctx context.Context, name string) (string, bool, error) {
	value, err := s.slot.Get(ctx, s.markerKey(name))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s marker: %w", name, err)
	}
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

func (s *Session) setMarker(ctx context.Context, name, value string) error {
	if err := s.slot.Set(ctx, s.markerKey(name), value); err != nil {
		return fmt.Errorf("failed to write %s marker: %w", name, err)
	}
	return nil
}

func (s *Session) clearMarker(ctx context.Context, name string) error {
	if err := s.slot.Delete(ctx, s.markerKey(name)); err != nil {
		return fmt.Errorf("failed to clear %s marker: %w", name, err)
	}
	return nil
}

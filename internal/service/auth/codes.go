package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
)

// maxCodeAttempts is how many wrong guesses a code survives.
const maxCodeAttempts = 5

type verificationCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// codeStore keeps the one outstanding verification code per email in the slot.
type codeStore struct {
	mu   sync.Mutex
	slot kv.Slot
	ttl  time.Duration
	now  func() time.Time
}

func codeKey(email string) string {
	return "verify_code:" + email
}

// issue replaces any earlier code for email with a fresh one.
func (c *codeStore) issue(ctx context.Context, email string) (verificationCode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, err := generateCode()
	if err != nil {
		return verificationCode{}, err
	}

	vc := verificationCode{Code: code, ExpiresAt: c.now().Add(c.ttl)}
	if err := c.save(ctx, email, vc); err != nil {
		return verificationCode{}, err
	}
	return vc, nil
}

func (c *codeStore) save(ctx context.Context, email string, vc verificationCode) error {
	data, err := json.Marshal(vc)
	if err != nil {
		return err
	}
	if err := c.slot.Set(ctx, codeKey(email), string(data)); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// check compares code with the stored one. Every miss is counted and the
// code is dropped once maxCodeAttempts misses have been made against it.
func (c *codeStore) check(ctx context.Context, email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.slot.Get(ctx, codeKey(email))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return auth.ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("failed to read verification code: %w", err)
	}

	var vc verificationCode
	if err := json.Unmarshal([]byte(raw), &vc); err != nil {
		return auth.ErrInvalidCode
	}
	if !c.now().Before(vc.ExpiresAt) {
		return auth.ErrInvalidCode
	}
	if vc.Code == code {
		return nil
	}

	vc.Attempts++
	if vc.Attempts >= maxCodeAttempts {
		if err := c.slot.Delete(ctx, codeKey(email)); err != nil {
			return fmt.Errorf("failed to drop verification code: %w", err)
		}
		return auth.ErrTooManyCodeAttempts
	}
	if err := c.save(ctx, email, vc); err != nil {
		return err
	}
	return auth.ErrInvalidCode
}

func (c *codeStore) clear(ctx context.Context, email string) error {
	return c.slot.Delete(ctx, codeKey(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

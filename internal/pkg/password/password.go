package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and checks account passwords with bcrypt.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash string, plain string) bool
}

type bcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Compare(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

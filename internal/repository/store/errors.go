package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrKeyChanged     = errors.New("record key cannot change")
	ErrStorageCorrupt = errors.New("stored document is corrupt")
)

// KeyError carries the kind and key behind a lookup or uniqueness failure.
type KeyError struct {
	Kind   Kind
	ID     int64
	Unique string
	Err    error
}

func (e *KeyError) Error() string {
	if e.Unique != "" {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Unique, e.Err)
	}
	return fmt.Sprintf("%s %d: %v", e.Kind, e.ID, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

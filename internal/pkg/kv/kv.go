// Package kv provides the durable key-value slots the portal document and
// session markers are written to.
package kv

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Slot is a string-valued key-value store. Get returns ErrKeyNotFound for
// absent keys; Delete of an absent key is not an error.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

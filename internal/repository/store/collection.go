package store

import (
	"time"
)

// Record is implemented by pointers to the entities a Collection holds.
type Record[T any] interface {
	*T
	Key() int64
	Stamp(id int64, createdAt time.Time)
}

// Schema describes the per-kind rules of a Collection.
type Schema[T any] struct {
	Kind Kind
	// UniqueKey returns the normalised value that must be unique within the kind; "" opts a record out.
	UniqueKey func(*T) string
	// Clone deep-copies a record so callers never share slices or pointers with the store.
	Clone func(T) T
}

// Collection is an insertion-ordered list of one kind of record. It does no
// locking of its own; Store.Read and Store.Mutate serialise access.
type Collection[T any, P Record[T]] struct {
	schema Schema[T]
	items  []T
	now    func() time.Time
}

func NewCollection[T any, P Record[T]](schema Schema[T], now func() time.Time) *Collection[T, P] {
	if schema.Clone == nil {
		schema.Clone = func(v T) T { return v }
	}
	return &Collection[T, P]{schema: schema, now: now}
}

func (c *Collection[T, P]) Kind() Kind {
	return c.schema.Kind
}

func (c *Collection[T, P]) Len() int {
	return len(c.items)
}

// List returns copies of every record in insertion order.
func (c *Collection[T, P]) List() []T {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, c.schema.Clone(item))
	}
	return out
}

func (c *Collection[T, P]) Find(pred func(T) bool) (T, bool) {
	for _, item := range c.items {
		if pred(item) {
			return c.schema.Clone(item), true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T, P]) FindAll(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range c.items {
		if pred(item) {
			out = append(out, c.schema.Clone(item))
		}
	}
	return out
}

func (c *Collection[T, P]) Get(id int64) (T, error) {
	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, &KeyError{Kind: c.schema.Kind, ID: id, Err: ErrNotFound}
	}
	return c.schema.Clone(c.items[idx]), nil
}

// Insert stamps rec with a fresh surrogate key and creation time and appends it.
func (c *Collection[T, P]) Insert(rec T) (T, error) {
	if key := c.uniqueKey(&rec); key != "" && c.uniqueTaken(key, -1) {
		var zero T
		return zero, &KeyError{Kind: c.schema.Kind, Unique: key, Err: ErrDuplicateKey}
	}

	now := c.now()
	id := now.UnixMilli()
	for c.indexOf(id) >= 0 {
		id++
	}
	P(&rec).Stamp(id, now)

	stored := c.schema.Clone(rec)
	c.items = append(c.items, stored)
	return c.schema.Clone(stored), nil
}

// Update applies mutate to the stored record in place. A mutate error or a
// unique key collision leaves the record as it was.
func (c *Collection[T, P]) Update(id int64, mutate func(*T) error) (T, error) {
	var zero T
	idx := c.indexOf(id)
	if idx < 0 {
		return zero, &KeyError{Kind: c.schema.Kind, ID: id, Err: ErrNotFound}
	}

	original := c.schema.Clone(c.items[idx])
	if err := mutate(&c.items[idx]); err != nil {
		c.items[idx] = original
		return zero, err
	}

	if P(&c.items[idx]).Key() != id {
		c.items[idx] = original
		return zero, &KeyError{Kind: c.schema.Kind, ID: id, Err: ErrKeyChanged}
	}
	if key := c.uniqueKey(&c.items[idx]); key != "" && c.uniqueTaken(key, idx) {
		c.items[idx] = original
		return zero, &KeyError{Kind: c.schema.Kind, ID: id, Unique: key, Err: ErrDuplicateKey}
	}
	return c.schema.Clone(c.items[idx]), nil
}

func (c *Collection[T, P]) Delete(id int64) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return &KeyError{Kind: c.schema.Kind, ID: id, Err: ErrNotFound}
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return nil
}

func (c *Collection[T, P]) replace(items []T) {
	c.items = make([]T, 0, len(items))
	for _, item := range items {
		c.items = append(c.items, c.schema.Clone(item))
	}
}

func (c *Collection[T, P]) indexOf(id int64) int {
	for i := range c.items {
		if P(&c.items[i]).Key() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T, P]) uniqueKey(rec *T) string {
	if c.schema.UniqueKey == nil {
		return ""
	}
	return c.schema.UniqueKey(rec)
}

func (c *Collection[T, P]) uniqueTaken(key string, skip int) bool {
	for i := range c.items {
		if i == skip {
			continue
		}
		if c.uniqueKey(&c.items[i]) == key {
			return true
		}
	}
	return false
}

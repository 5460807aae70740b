package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/department"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
)

type Kind string

const (
	KindAccounts    Kind = "accounts"
	KindDepartments Kind = "departments"
	KindEmployees   Kind = "employees"
	KindRequests    Kind = "requests"
)

const DefaultKey = "hris_db"

// Document is the single JSON value persisted under the store key.
type Document struct {
	Accounts    []account.Account       `json:"accounts"`
	Departments []department.Department `json:"departments"`
	Employees   []employee.Employee     `json:"employees"`
	Requests    []request.Request       `json:"requests"`
}

// Seeder builds the document used when nothing usable is stored yet.
type Seeder func(now time.Time) (Document, error)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// Store owns every collection and writes them back to the slot as one document.
type Store struct {
	mu   sync.RWMutex
	slot kv.Slot
	key  string
	seed Seeder
	now  func() time.Time

	Accounts    *Collection[account.Account, *account.Account]
	Departments *Collection[department.Department, *department.Department]
	Employees   *Collection[employee.Employee, *employee.Employee]
	Requests    *Collection[request.Request, *request.Request]
}

func New(slot kv.Slot, seed Seeder, opts ...Option) *Store {
	s := &Store{
		slot: slot,
		key:  DefaultKey,
		seed: seed,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	// Collections read the clock through s so WithClock applies to them too
	clock := func() time.Time { return s.now() }

	s.Accounts = NewCollection[account.Account](Schema[account.Account]{
		Kind:      KindAccounts,
		UniqueKey: func(a *account.Account) string { return validator.NormalizeEmail(a.Email) },
	}, clock)
	s.Departments = NewCollection[department.Department](Schema[department.Department]{
		Kind:  KindDepartments,
		Clone: cloneDepartment,
	}, clock)
	s.Employees = NewCollection[employee.Employee](Schema[employee.Employee]{
		Kind:      KindEmployees,
		UniqueKey: func(e *employee.Employee) string { return strings.ToUpper(strings.TrimSpace(e.EmployeeCode)) },
		Clone:     cloneEmployee,
	}, clock)
	s.Requests = NewCollection[request.Request](Schema[request.Request]{
		Kind:  KindRequests,
		Clone: cloneRequest,
	}, clock)

	return s
}

// Now is the store clock, shared with services that date records.
func (s *Store) Now() time.Time {
	return s.now()
}

// Read runs fn while holding the read lock.
func (s *Store) Read(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

// Mutate runs fn under the write lock and persists once afterwards. When fn or
// the write fails, every collection goes back to what it held before fn ran.
func (s *Store) Mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	if err := fn(); err != nil {
		s.loadLocked(before)
		return err
	}
	if err := s.persistLocked(ctx); err != nil {
		s.loadLocked(before)
		return err
	}
	return nil
}

// Snapshot returns a deep copy of every collection.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Persist writes the current document to the slot.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked(ctx)
}

// Restore loads the document from the slot. An absent or unreadable document
// is replaced by the seed, which is written back immediately.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.slot.Get(ctx, s.key)
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
		return s.reseedLocked(ctx, "absent")
	case err != nil:
		return fmt.Errorf("failed to read store document: %w", err)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		slog.Warn("Store document unreadable, reseeding", "key", s.key, "error", err)
		return s.reseedLocked(ctx, "corrupt")
	}

	s.loadLocked(doc)
	slog.Info("Store restored",
		"key", s.key,
		"accounts", s.Accounts.Len(),
		"departments", s.Departments.Len(),
		"employees", s.Employees.Len(),
		"requests", s.Requests.Len(),
	)
	return nil
}

func (s *Store) reseedLocked(ctx context.Context, reason string) error {
	if s.seed == nil {
		return errors.New("store has no seeder")
	}
	doc, err := s.seed(s.now())
	if err != nil {
		return fmt.Errorf("failed to build seed document: %w", err)
	}

	s.loadLocked(normalize(doc))
	metrics.StoreReseeds.WithLabelValues(reason).Inc()
	slog.Info("Store seeded", "key", s.key, "reason", reason)

	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.StorePersistLatency.Observe(time.Since(start).Seconds())
	}()

	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		metrics.StorePersists.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to encode store document: %w", err)
	}
	if err := s.slot.Set(ctx, s.key, string(data)); err != nil {
		metrics.StorePersists.WithLabelValues("error").Inc()
		slog.Error("Store persist failed", "key", s.key, "error", err)
		return fmt.Errorf("failed to write store document: %w", err)
	}
	metrics.StorePersists.WithLabelValues("ok").Inc()
	return nil
}

func (s *Store) snapshotLocked() Document {
	return Document{
		Accounts:    s.Accounts.List(),
		Departments: s.Departments.List(),
		Employees:   s.Employees.List(),
		Requests:    s.Requests.List(),
	}
}

func (s *Store) loadLocked(doc Document) {
	s.Accounts.replace(doc.Accounts)
	s.Departments.replace(doc.Departments)
	s.Employees.replace(doc.Employees)
	s.Requests.replace(doc.Requests)
}

func decodeDocument(raw string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	return normalize(doc), nil
}

// normalize turns missing collections into empty ones.
func normalize(doc Document) Document {
	if doc.Accounts == nil {
		doc.Accounts = []account.Account{}
	}
	if doc.Departments == nil {
		doc.Departments = []department.Department{}
	}
	if doc.Employees == nil {
		doc.Employees = []employee.Employee{}
	}
	if doc.Requests == nil {
		doc.Requests = []request.Request{}
	}
	return doc
}

func cloneDepartment(d department.Department) department.Department {
	if d.Description != nil {
		desc := *d.Description
		d.Description = &desc
	}
	return d
}

func cloneEmployee(e employee.Employee) employee.Employee {
	if e.DepartmentID != nil {
		id := *e.DepartmentID
		e.DepartmentID = &id
	}
	return e
}

func cloneRequest(r request.Request) request.Request {
	if r.Items != nil {
		r.Items = append([]request.LineItem(nil), r.Items...)
	}
	return r
}

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const createSlotTable = `
	CREATE TABLE IF NOT EXISTS kv_slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresSlot stores each key as a row of the kv_slots table.
type PostgresSlot struct {
	q database.Querier
}

func NewPostgresSlot(q database.Querier) *PostgresSlot {
	return &PostgresSlot{q: q}
}

// EnsureSchema creates the kv_slots table when it does not exist yet.
func (s *PostgresSlot) EnsureSchema(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, createSlotTable); err != nil {
		return fmt.Errorf("create kv_slots: %w", err)
	}
	return nil
}

func (s *PostgresSlot) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.q.QueryRow(ctx, `SELECT value FROM kv_slots WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("get slot %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresSlot) Set(ctx context.Context, key string, value string) error {
	query := `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}
	return nil
}

func (s *PostgresSlot) Delete(ctx context.Context, key string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM kv_slots WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/database"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseSlot runs the behaviour every backend must share.
func exerciseSlot(t *testing.T, slot Slot) {
	t.Helper()
	ctx := context.Background()

	_, err := slot.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, slot.Set(ctx, "hris_db", `{"accounts":[]}`))
	value, err := slot.Get(ctx, "hris_db")
	require.NoError(t, err)
	assert.Equal(t, `{"accounts":[]}`, value)

	require.NoError(t, slot.Set(ctx, "hris_db", `{"accounts":[{"id":1}]}`))
	value, err = slot.Get(ctx, "hris_db")
	require.NoError(t, err)
	assert.Equal(t, `{"accounts":[{"id":1}]}`, value)

	// Markers are independent of each other
	require.NoError(t, slot.Set(ctx, "session:abc:token", "t1"))
	require.NoError(t, slot.Set(ctx, "session:abc:unverified_email", "alice@x.com"))
	require.NoError(t, slot.Delete(ctx, "session:abc:token"))

	_, err = slot.Get(ctx, "session:abc:token")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	value, err = slot.Get(ctx, "session:abc:unverified_email")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", value)

	// Deleting an absent key is fine
	assert.NoError(t, slot.Delete(ctx, "session:abc:token"))
}

func TestMemorySlot(t *testing.T) {
	exerciseSlot(t, NewMemorySlot())
}

func TestLocalSlot(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewLocalSlot(dir)
	require.NoError(t, err)

	exerciseSlot(t, slot)

	// No temp files are left behind after writes
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".slot-")
	}
}

func TestLocalSlot_KeyStaysInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewLocalSlot(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, slot.Set(ctx, "../escape", "x"))

	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.json"))
	assert.True(t, os.IsNotExist(err))

	value, err := slot.Get(ctx, "../escape")
	require.NoError(t, err)
	assert.Equal(t, "x", value)

	_, err = slot.Get(ctx, "")
	assert.Error(t, err)
}

func TestRedisSlot(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	slot := NewRedisSlot(client, "hris:")
	exerciseSlot(t, slot)

	// Keys are namespaced by the prefix
	assert.True(t, mr.Exists("hris:hris_db"))
	assert.False(t, mr.Exists("hris_db"))
}

func TestNewRedisClient_URL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	assert.IsType(t, &redis.Client{}, client)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisClient(context.Background(), addr)
	assert.Error(t, err)
}

func TestPostgresSlot(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	slot := NewPostgresSlot(db)
	require.NoError(t, slot.EnsureSchema(ctx))
	_, err = db.Exec(ctx, `TRUNCATE TABLE kv_slots`)
	require.NoError(t, err)

	exerciseSlot(t, slot)
}

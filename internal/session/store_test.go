package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	sessionID, err := store.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	userID, ok, err := store.Resolve(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)

	require.NoError(t, store.Delete(ctx, sessionID))

	_, ok, err = store.Resolve(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_UnknownSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	userID, ok, err := store.Resolve(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, userID)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	sessionID, err := store.Create(ctx, 7)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	_, ok, err := store.Resolve(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	first, err := store.Create(ctx, 1)
	require.NoError(t, err)
	second, err := store.Create(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, store.Delete(ctx, first))

	userID, ok, err := store.Resolve(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), userID)
}

func TestMemoryStore_CreateSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		_, err := store.Create(ctx, i)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Len())

	now = now.Add(2 * time.Minute)

	fresh, err := store.Create(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	userID, ok, err := store.Resolve(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(4), userID)
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore(t *testing.T) {
	store, mr := newMiniredisStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	userID := int64(7)
	sess := &Session{ID: "abc", UserID: &userID, CreatedAt: time.Now().UTC(), Token: "signed"}
	require.NoError(t, store.Save(ctx, sess, time.Minute))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Minute, mr.TTL("session:abc"))

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	id, ok := loaded.CurrentUserID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Empty(t, loaded.Token, "token is not persisted")

	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, "missing"))
}

func TestNewRedisClientAcceptsPlainAddress(t *testing.T) {
	client, err := NewRedisClient("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	_ = client.Close()

	_, err = NewRedisClient("redis://%zz")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	userID := int64(3)
	require.NoError(t, store.Save(ctx, &Session{ID: "s1", UserID: &userID, Token: "t"}, time.Hour))
	require.NoError(t, store.Save(ctx, &Session{ID: "s2", UserID: &userID}, 0))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, loaded.Authenticated())
	assert.Empty(t, loaded.Token)

	now = now.Add(2 * time.Hour)
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Load(ctx, "s2")
	assert.NoError(t, err, "zero ttl never expires")

	require.NoError(t, store.Delete(ctx, "s2"))
	_, err = store.Load(ctx, "s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

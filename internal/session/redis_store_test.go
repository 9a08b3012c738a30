package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), srv
}

func TestRedisStore_SaveLoad(t *testing.T) {
	store, srv := newRedisStore(t, time.Hour)
	ctx := context.Background()
	expires := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &Session{ID: "s1", Token: "tok", Role: RoleOperator, Username: "ravi", UserID: 12, ExpiresAt: expires}))

	s, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, RoleOperator, s.Role)
	assert.Equal(t, "ravi", s.Username)
	assert.Equal(t, int64(12), s.UserID)
	assert.True(t, expires.Equal(s.ExpiresAt))

	assert.Equal(t, "OPERATOR", srv.HGet(sessionKey("s1"), "role"))
	assert.Equal(t, time.Hour, srv.TTL(sessionKey("s1")))

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_SessionExpiresWithTTL(t *testing.T) {
	store, srv := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &Session{ID: "s1", Token: "tok", Role: RoleUser}))

	srv.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_LoadRejectsUnknownRole(t *testing.T) {
	store, srv := newRedisStore(t, 0)
	srv.HSet(sessionKey("s1"), "token", "tok", "role", "ROOT")

	_, err := store.Load(context.Background(), "s1")
	assert.Error(t, err)
}

func TestRedisStore_Flashes(t *testing.T) {
	store, srv := newRedisStore(t, time.Hour)
	ctx := context.Background()

	assert.ErrorIs(t, store.PushFlash(ctx, "nobody", "booking_success", "x"), ErrNotFound)

	require.NoError(t, store.Save(ctx, &Session{ID: "s1", Token: "tok", Role: RoleUser}))
	require.NoError(t, store.PushFlash(ctx, "s1", "booking_success", "Booking #101 confirmed."))
	require.NoError(t, store.PushFlash(ctx, "s1", "cancel_success", "Booking #101 cancelled."))
	assert.Equal(t, time.Hour, srv.TTL(flashKey("s1")))

	msg, ok, err := store.PopFlash(ctx, "s1", "booking_success")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Booking #101 confirmed.", msg)

	_, ok, err = store.PopFlash(ctx, "s1", "booking_success")
	require.NoError(t, err)
	assert.False(t, ok, "flash messages are read once")

	all, err := store.PopAllFlashes(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cancel_success": "Booking #101 cancelled."}, all)
	assert.False(t, srv.Exists(flashKey("s1")))
}

func TestRedisStore_DeleteDropsSessionAndFlashes(t *testing.T) {
	store, srv := newRedisStore(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &Session{ID: "s1", Token: "tok", Role: RoleAdmin}))
	require.NoError(t, store.PushFlash(ctx, "s1", "booking_success", "x"))

	require.NoError(t, store.Delete(ctx, "s1"))

	assert.False(t, srv.Exists(sessionKey("s1")))
	assert.False(t, srv.Exists(flashKey("s1")))
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgcamps/trip-planner/internal/cache"
)

func newTestCache(t *testing.T) (*cache.ReplyCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewReplyCache(client), mr
}

const sampleReply = "Day 1: Arrive in Manali\nDay 2: Solang Valley"

func TestReplyCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := cache.Key("system", "user", "gemini-1.5-flash")

	require.NoError(t, c.Set(ctx, key, sampleReply))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, sampleReply, got)
}

func TestReplyCache_Get_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), cache.Key("s", "u", "m"))
	require.NoError(t, err)
	assert.Empty(t, got, "cache miss should return empty string, nil error")
}

func TestReplyCache_Set_EmptyReplyIsNoop(t *testing.T) {
	c, _ := newTestCache(t)
	key := cache.Key("s", "u", "m")

	require.NoError(t, c.Set(context.Background(), key, ""))

	got, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplyCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := cache.Key("s", "u", "m")

	require.NoError(t, c.Set(ctx, key, sampleReply))
	require.NoError(t, c.Delete(ctx, key))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, got, "entry should be gone after delete")
}

func TestReplyCache_Delete_NonExistent(t *testing.T) {
	c, _ := newTestCache(t)
	// Deleting a key that doesn't exist should not error.
	require.NoError(t, c.Delete(context.Background(), cache.Key("s", "u", "m")))
}

func TestReplyCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := cache.Key("s", "u", "m")

	require.NoError(t, c.Set(ctx, key, sampleReply))

	mr.FastForward(2 * time.Hour)

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, got, "entry should be expired after TTL")
}

func TestKey_SensitiveToEveryInput(t *testing.T) {
	base := cache.Key("system", "user", "model")
	assert.Equal(t, base, cache.Key("system", "user", "model"))
	assert.NotEqual(t, base, cache.Key("system2", "user", "model"))
	assert.NotEqual(t, base, cache.Key("system", "user2", "model"))
	assert.NotEqual(t, base, cache.Key("system", "user", "model2"))

	// Field boundaries matter: shifting text across the separator must not collide.
	assert.NotEqual(t, cache.Key("ab", "c", "m"), cache.Key("a", "bc", "m"))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := cache.Connect(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}

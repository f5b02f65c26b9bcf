package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := Connect(context.Background(), "redis://"+addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestResponseCache_GetSet(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewResponseCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "heatmap:1,2,3,4")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "heatmap:1,2,3,4", []byte(`{"points":[]}`)))

	b, ok, err := cache.Get(ctx, "heatmap:1,2,3,4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"points":[]}`, string(b))

	assert.Equal(t, time.Minute, s.TTL(responsePrefix+"heatmap:1,2,3,4"))
	require.NoError(t, cache.Ping(ctx))
}

func TestResponseCache_Expiry(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewResponseCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v")))
	s.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAlertDeduper_UnseenAndMark(t *testing.T) {
	s, client := newTestClient(t)
	dedup := NewAlertDeduper(client, time.Hour)
	ctx := context.Background()

	unseen, err := dedup.Unseen(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, unseen)

	require.NoError(t, dedup.MarkSeen(ctx, []string{"a", "c"}))

	unseen, err = dedup.Unseen(ctx, []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, unseen)

	assert.Equal(t, time.Hour, s.TTL(alertPrefix+"a"))

	s.FastForward(2 * time.Hour)
	unseen, err = dedup.Unseen(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, unseen, "marks expire")
}

func TestAlertDeduper_Empty(t *testing.T) {
	_, client := newTestClient(t)
	dedup := NewAlertDeduper(client, time.Hour)

	unseen, err := dedup.Unseen(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, unseen)
	require.NoError(t, dedup.MarkSeen(context.Background(), nil))
}

package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name  string   `json:"name"`
	Notes string   `json:"notes"`
	Tags  []string `json:"tags"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c, err := NewRedisCache(client, WithPrefix("test:"))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		value      profile
		wantMarker byte
	}{
		{"small value stays plain", profile{Name: "Acme", Tags: []string{"a"}}, markerPlain},
		{"large value is compressed", profile{Name: "Acme", Notes: strings.Repeat("lorem ipsum ", 1000)}, markerZstd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mr := newTestCache(t)

			require.NoError(t, c.Set(ctx, "k", tt.value, time.Minute))

			raw, err := mr.Get("test:k")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMarker, raw[0])

			var got profile
			found, err := c.Get(ctx, "k", &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestRedisCache_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got profile
	found, err := c.Get(ctx, "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "short", profile{Name: "x"}, time.Second))
	mr.FastForward(2 * time.Second)

	found, err = c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "a", profile{Name: "a"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "a", "missing"))
	assert.False(t, mr.Exists("test:a"))
}

func TestRedisCache_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set("test:bad", "\x00garbage"))

	var got profile
	found, err := c.Get(ctx, "bad", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	var got profile
	_, err := c.Get(ctx, "k", &got)
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "k", profile{}, time.Minute))
}

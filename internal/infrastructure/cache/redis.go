// Package cache provides a Redis-backed cache for short-lived per-owner lookups.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"
)

// DefaultCompressThreshold is the payload size above which values are stored
// zstd-compressed.
const DefaultCompressThreshold = 4 * 1024

// Payload markers. Every stored value starts with one of them.
const (
	markerPlain byte = 'j'
	markerZstd  byte = 'z'
)

// NewClient creates a Redis client and checks connectivity.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// RedisCache stores JSON values in Redis. Large payloads are compressed.
type RedisCache struct {
	client    redis.UniversalClient
	prefix    string
	threshold int
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithPrefix namespaces every key.
func WithPrefix(prefix string) Option {
	return func(c *RedisCache) { c.prefix = prefix }
}

// WithCompressThreshold overrides DefaultCompressThreshold.
func WithCompressThreshold(n int) Option {
	return func(c *RedisCache) { c.threshold = n }
}

// NewRedisCache creates a cache on top of client.
func NewRedisCache(client redis.UniversalClient, opts ...Option) (*RedisCache, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	c := &RedisCache{
		client:    client,
		prefix:    "docengine:",
		threshold: DefaultCompressThreshold,
		encoder:   encoder,
		decoder:   decoder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get decodes the value under key into dest. A miss returns false, nil.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	payload, err := c.unpack(raw)
	if err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, c.pack(payload), ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

// Close releases the codec resources. The Redis client is owned by the caller.
func (c *RedisCache) Close() {
	c.decoder.Close()
	_ = c.encoder.Close()
}

func (c *RedisCache) pack(payload []byte) []byte {
	if len(payload) <= c.threshold {
		return append([]byte{markerPlain}, payload...)
	}
	out := make([]byte, 1, len(payload)/2)
	out[0] = markerZstd
	return c.encoder.EncodeAll(payload, out)
}

func (c *RedisCache) unpack(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty payload")
	}
	switch raw[0] {
	case markerPlain:
		return raw[1:], nil
	case markerZstd:
		return c.decoder.DecodeAll(raw[1:], nil)
	default:
		// Values written without a marker are treated as plain JSON.
		if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) || bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			return raw, nil
		}
		return nil, fmt.Errorf("unknown payload marker %q", raw[0])
	}
}

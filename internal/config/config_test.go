package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/docengine")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.RenderCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.DBStatementTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.True(t, cfg.AllowAllOrigins())
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/docengine")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RENDER_CACHE_TTL", "5m")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.AllowAllOrigins())
	assert.Equal(t, 5*time.Minute, cfg.RenderCacheTTL)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}},
		{"production without secret", map[string]string{
			"DATABASE_URL": "postgres://x", "APP_ENV": "production", "JWT_SECRET": "",
		}},
		{"production short secret", map[string]string{
			"DATABASE_URL": "postgres://x", "APP_ENV": "production", "JWT_SECRET": "short",
		}},
		{"bad duration", map[string]string{"DATABASE_URL": "postgres://x", "JWT_TTL": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

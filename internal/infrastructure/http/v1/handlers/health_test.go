package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/internal/infrastructure/http/v1/handlers"
)

func TestHealthHandler(t *testing.T) {
	ok := handlers.PingFunc(func(context.Context) error { return nil })
	down := handlers.PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		checks map[string]handlers.Pinger
		status int
		want   map[string]string
	}{
		{"no dependencies", nil, http.StatusOK, map[string]string{}},
		{"all healthy", map[string]handlers.Pinger{"postgres": ok, "redis": ok}, http.StatusOK,
			map[string]string{"postgres": "healthy", "redis": "healthy"}},
		{"nil check skipped", map[string]handlers.Pinger{"postgres": ok, "redis": nil}, http.StatusOK,
			map[string]string{"postgres": "healthy"}},
		{"redis down", map[string]handlers.Pinger{"postgres": ok, "redis": down}, http.StatusServiceUnavailable,
			map[string]string{"postgres": "healthy", "redis": "unhealthy: connection refused"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine()
			r.GET("/health", handlers.NewHealthHandler(tt.checks).Health)

			w := do(t, r, http.MethodGet, "/health", nil, "")

			require.Equal(t, tt.status, w.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Checks)
		})
	}
}

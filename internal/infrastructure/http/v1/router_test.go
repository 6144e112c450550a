package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"docengine/internal/domain/auth"
	"docengine/pkg/logger"
)

func newTestRouter() http.Handler {
	authService := auth.NewService(nil, auth.NewJWTService(auth.DefaultJWTConfig("test-secret")), auth.DefaultServiceConfig())
	return NewRouter(RouterConfig{
		Logger: logger.Nop(),
		Auth:   authService,
	})
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/invoices", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/quotations/0192a4f2-0000-7000-8000-000000000001/convert-to-invoice", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/templates/job-orders/default", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/bank-accounts/0192a4f2-0000-7000-8000-000000000001/set-default", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/company", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/invoices/0192a4f2-0000-7000-8000-000000000001/convert-to-invoice", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/invoices", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

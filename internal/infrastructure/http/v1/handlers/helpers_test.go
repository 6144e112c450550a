package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"docengine/internal/domain/doctype"
	"docengine/internal/infrastructure/http/v1/handlers"
	"docengine/internal/infrastructure/http/v1/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine returns an engine with the production error envelope.
func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Trace(), middleware.ErrorHandler(), middleware.Recovery())
	return r
}

func withDocType(t doctype.Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handlers.DocTypeKey, t)
		c.Next()
	}
}

func do(t *testing.T, r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return do(t, r, method, path, body, "application/json")
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func fieldErrors(t *testing.T, body errorBody) map[string]any {
	t.Helper()
	fields, ok := body.Details["fields"].(map[string]any)
	require.True(t, ok, "details.fields missing: %v", body.Details)
	return fields
}

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/domain/catalogs/client"
	"docengine/internal/infrastructure/http/v1/handlers"
	"docengine/internal/infrastructure/http/v1/middleware"
)

// tokenAuth maps fixed bearer tokens to operators.
type tokenAuth map[string]id.ID

func (a tokenAuth) Authenticate(token string) (id.ID, string, error) {
	owner, ok := a[token]
	if !ok {
		return id.Nil(), "", apperror.NewAuthRequired("invalid or expired token")
	}
	return owner, token + "@example.com", nil
}

// ownerScopedClients stores clients per owner the way the repository does.
type ownerScopedClients struct {
	rows map[id.ID]*client.Client
}

func (s *ownerScopedClients) owned(ctx context.Context, clientID id.ID) (*client.Client, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	cl, ok := s.rows[clientID]
	if !ok || cl.OwnerID != owner {
		return nil, apperror.NewNotFound("client", clientID)
	}
	return cl, nil
}

func (s *ownerScopedClients) Create(ctx context.Context, in client.Input) (*client.Client, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	cl := &client.Client{OwnedEntity: entity.OwnedEntity{ID: id.New(), OwnerID: owner}, Name: in.Name, Email: in.Email}
	s.rows[cl.ID] = cl
	return cl, nil
}

func (s *ownerScopedClients) Update(ctx context.Context, clientID id.ID, in client.Input) (*client.Client, error) {
	cl, err := s.owned(ctx, clientID)
	if err != nil {
		return nil, err
	}
	cl.Name = in.Name
	return cl, nil
}

func (s *ownerScopedClients) GetByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	return s.owned(ctx, clientID)
}

func (s *ownerScopedClients) Delete(ctx context.Context, clientID id.ID) error {
	if _, err := s.owned(ctx, clientID); err != nil {
		return err
	}
	delete(s.rows, clientID)
	return nil
}

func (s *ownerScopedClients) List(ctx context.Context, search string) ([]*client.Client, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	out := []*client.Client{}
	for _, cl := range s.rows {
		if cl.OwnerID == owner && strings.Contains(strings.ToLower(cl.Name), strings.ToLower(search)) {
			out = append(out, cl)
		}
	}
	return out, nil
}

func clientRouter(svc handlers.ClientService, auth middleware.Authenticator) *gin.Engine {
	r := newEngine()
	h := handlers.NewClientHandler(handlers.NewBaseHandler(), svc)
	g := r.Group("/api/v1/clients")
	g.Use(middleware.Auth(auth))
	g.GET("", h.List)
	g.POST("/create", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/edit", h.Update)
	g.POST("/:id/delete", h.Delete)
	return r
}

func authed(t *testing.T, r http.Handler, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClientHandler_TenantIsolation(t *testing.T) {
	auth := tokenAuth{"alice": id.New(), "bob": id.New()}
	svc := &ownerScopedClients{rows: map[id.ID]*client.Client{}}
	r := clientRouter(svc, auth)

	w := authed(t, r, "alice", http.MethodPost, "/api/v1/clients/create", `{"name":"Acme Ltd","email":"ap@acme.test"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created client.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := "/api/v1/clients/" + created.ID.String()

	assert.Equal(t, http.StatusOK, authed(t, r, "alice", http.MethodGet, path, "").Code)

	for _, call := range []struct{ method, path, body string }{
		{http.MethodGet, path, ""},
		{http.MethodPost, path + "/edit", `{"name":"Hijacked"}`},
		{http.MethodPost, path + "/delete", ""},
	} {
		w := authed(t, r, "bob", call.method, call.path, call.body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", call.method, call.path)
	}
	assert.Equal(t, "Acme Ltd", svc.rows[created.ID].Name)

	w = authed(t, r, "bob", http.MethodGet, "/api/v1/clients", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestClientHandler_Validation(t *testing.T) {
	auth := tokenAuth{"alice": id.New()}
	r := clientRouter(&ownerScopedClients{rows: map[id.ID]*client.Client{}}, auth)

	w := authed(t, r, "alice", http.MethodPost, "/api/v1/clients/create", `{"name":"","email":"not-an-email"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeValidation, body.Code)
	fields := fieldErrors(t, body)
	assert.Equal(t, "this field is required", fields["name"])
	assert.Equal(t, "a valid email is required", fields["email"])
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	r := clientRouter(&ownerScopedClients{rows: map[id.ID]*client.Client{}}, tokenAuth{"alice": id.New()})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer  "},
		{"unknown token", "Bearer mallory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, apperror.CodeAuthRequired, decodeError(t, w).Code)
		})
	}
}

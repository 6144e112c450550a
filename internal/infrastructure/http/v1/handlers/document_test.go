package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
	"docengine/internal/domain/render"
	"docengine/internal/infrastructure/http/v1/handlers"
)

type fakeDocuments struct {
	docs      map[id.ID]*documents.Document
	lastInput documents.Input
	lastType  doctype.Type
	converted map[id.ID]*documents.Document
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{
		docs:      map[id.ID]*documents.Document{},
		converted: map[id.ID]*documents.Document{},
	}
}

func (f *fakeDocuments) Create(_ context.Context, t doctype.Type, in documents.Input) (*documents.Document, error) {
	f.lastInput, f.lastType = in, t
	if len(in.Items) == 0 {
		return nil, apperror.NewFieldError("items", "at least one item is required")
	}
	doc := &documents.Document{OwnedEntity: entity.OwnedEntity{ID: id.New()}, DocType: t, Number: "INV-2026-10-0001"}
	f.docs[doc.ID] = doc
	return doc, nil
}

func (f *fakeDocuments) Update(_ context.Context, t doctype.Type, docID id.ID, in documents.Input) (*documents.Document, error) {
	f.lastInput, f.lastType = in, t
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID)
	}
	return doc, nil
}

func (f *fakeDocuments) UpdateStatus(_ context.Context, _ doctype.Type, docID id.ID, status string) (*documents.Document, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID)
	}
	doc.Status = status
	return doc, nil
}

func (f *fakeDocuments) Get(_ context.Context, _ doctype.Type, docID id.ID) (*documents.Document, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID)
	}
	return doc, nil
}

func (f *fakeDocuments) Delete(_ context.Context, _ doctype.Type, docID id.ID) error {
	if _, ok := f.docs[docID]; !ok {
		return apperror.NewNotFound("document", docID)
	}
	delete(f.docs, docID)
	return nil
}

func (f *fakeDocuments) List(_ context.Context, _ doctype.Type, _ documents.ListFilter) (documents.Page, error) {
	return documents.Page{}, nil
}

func (f *fakeDocuments) ConvertQuotation(_ context.Context, quotationID id.ID) (*documents.Document, bool, error) {
	if _, ok := f.docs[quotationID]; !ok {
		return nil, false, apperror.NewNotFound("quotation", quotationID)
	}
	if inv, ok := f.converted[quotationID]; ok {
		return inv, false, nil
	}
	inv := &documents.Document{OwnedEntity: entity.OwnedEntity{ID: id.New()}, DocType: doctype.Invoice, Number: "INV-2026-10-0002"}
	f.converted[quotationID] = inv
	return inv, true, nil
}

type fakeBuilder struct{ docs *fakeDocuments }

func (b fakeBuilder) Build(ctx context.Context, t doctype.Type, docID id.ID) (*render.Context, error) {
	doc, err := b.docs.Get(ctx, t, docID)
	if err != nil {
		return nil, err
	}
	return &render.Context{Document: doc, CurrencySymbol: "₦"}, nil
}

type fakeRenderer struct{ err error }

func (r fakeRenderer) HTML(_ context.Context, rc *render.Context) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("<h1>" + rc.Document.Number + "</h1>"), nil
}

func (r fakeRenderer) PDF(_ context.Context, _ *render.Context) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.7"), nil
}

func documentRouter(svc *fakeDocuments, renderer render.Renderer, t doctype.Type) *gin.Engine {
	r := newEngine()
	h := handlers.NewDocumentHandler(handlers.NewBaseHandler(), svc, fakeBuilder{docs: svc}, renderer)
	g := r.Group("/api/v1/" + doctype.MustLookup(t).Slug)
	g.Use(withDocType(t))
	g.GET("", h.List)
	g.POST("/create", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/edit", h.Update)
	g.POST("/:id/delete", h.Delete)
	g.POST("/:id/update-status", h.UpdateStatus)
	g.GET("/:id/html", h.HTML)
	g.GET("/:id/pdf", h.PDF)
	g.POST("/:id/convert-to-invoice", h.Convert)
	return r
}

func TestDocumentHandler_CreateJSON(t *testing.T) {
	svc := newFakeDocuments()
	r := documentRouter(svc, fakeRenderer{}, doctype.Invoice)

	w := doJSON(t, r, http.MethodPost, "/api/v1/invoices/create", map[string]any{
		"date":     "2026-10-19",
		"dueDate":  "2026-11-19",
		"totalTax": 7.5,
		"items": []map[string]any{
			{"description": "Design", "quantity": 2, "unitPrice": "5000"},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, doctype.Invoice, svc.lastType)
	require.NotNil(t, svc.lastInput.SecondaryDate)
	assert.Equal(t, "2026-11-19", svc.lastInput.SecondaryDate.Format("2006-01-02"))
	assert.Equal(t, "7.5", svc.lastInput.TotalTax)
	require.Len(t, svc.lastInput.Items, 1)
	assert.Equal(t, "Design", svc.lastInput.Items[0].Values["description"])
}

func TestDocumentHandler_CreateForm(t *testing.T) {
	svc := newFakeDocuments()
	r := documentRouter(svc, fakeRenderer{}, doctype.Quotation)

	form := url.Values{}
	form.Set("date", "2026-10-19")
	form.Set("valid_until", "2026-11-02")
	form.Set("client_name", "Acme Ltd")
	form.Set("items[4][description]", "Second")
	form.Set("items[4][id]", "0190b0c4-0000-7000-8000-000000000004")
	form.Set("items[0][description]", "First")
	form.Set("items[0][quantity]", "3")

	w := do(t, r, http.MethodPost, "/api/v1/quotations/create",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Acme Ltd", svc.lastInput.ClientName)
	require.NotNil(t, svc.lastInput.SecondaryDate)
	assert.Equal(t, "2026-11-02", svc.lastInput.SecondaryDate.Format("2006-01-02"))
	require.Len(t, svc.lastInput.Items, 2)
	assert.Equal(t, "First", svc.lastInput.Items[0].Values["description"])
	assert.Equal(t, "Second", svc.lastInput.Items[1].Values["description"])
	assert.Equal(t, 4, svc.lastInput.Items[1].Index)
	assert.Equal(t, "0190b0c4-0000-7000-8000-000000000004", svc.lastInput.Items[1].ID)
}

func TestDocumentHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"no items", map[string]any{"date": "2026-10-19"}, "items"},
		{"bad client email", map[string]any{"clientEmail": "nope", "items": []map[string]any{{"description": "x"}}}, "clientEmail"},
		{"bad template id", map[string]any{"templateId": "abc", "items": []map[string]any{{"description": "x"}}}, "templateId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := documentRouter(newFakeDocuments(), fakeRenderer{}, doctype.Invoice)

			w := doJSON(t, r, http.MethodPost, "/api/v1/invoices/create", tt.payload)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, apperror.CodeValidation, body.Code)
			assert.Contains(t, fieldErrors(t, body), tt.field)
		})
	}
}

func TestDocumentHandler_NotFound(t *testing.T) {
	svc := newFakeDocuments()
	r := documentRouter(svc, fakeRenderer{}, doctype.Invoice)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/invoices/not-a-uuid"},
		{http.MethodGet, "/api/v1/invoices/" + id.New().String()},
		{http.MethodPost, "/api/v1/invoices/" + id.New().String() + "/delete"},
		{http.MethodGet, "/api/v1/invoices/" + id.New().String() + "/pdf"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := do(t, r, p.method, p.path, nil, "")

			require.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, apperror.CodeNotFound, decodeError(t, w).Code)
		})
	}
}

func TestDocumentHandler_Render(t *testing.T) {
	svc := newFakeDocuments()
	doc := &documents.Document{OwnedEntity: entity.OwnedEntity{ID: id.New()}, Number: "INV-2026-10-0007"}
	svc.docs[doc.ID] = doc

	t.Run("html", func(t *testing.T) {
		r := documentRouter(svc, fakeRenderer{}, doctype.Invoice)
		w := do(t, r, http.MethodGet, "/api/v1/invoices/"+doc.ID.String()+"/html", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "INV-2026-10-0007")
	})

	t.Run("pdf", func(t *testing.T) {
		r := documentRouter(svc, fakeRenderer{}, doctype.Invoice)
		w := do(t, r, http.MethodGet, "/api/v1/invoices/"+doc.ID.String()+"/pdf", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-2026-10-0007.pdf")
	})

	t.Run("engine failure answers plain text", func(t *testing.T) {
		r := documentRouter(svc, fakeRenderer{err: errors.New("chromium crashed")}, doctype.Invoice)
		w := do(t, r, http.MethodGet, "/api/v1/invoices/"+doc.ID.String()+"/pdf", nil, "")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Equal(t, "failed to render document", w.Body.String())
	})
}

func TestDocumentHandler_UpdateStatus(t *testing.T) {
	svc := newFakeDocuments()
	doc := &documents.Document{OwnedEntity: entity.OwnedEntity{ID: id.New()}, Status: "unpaid"}
	svc.docs[doc.ID] = doc
	r := documentRouter(svc, fakeRenderer{}, doctype.Invoice)

	w := doJSON(t, r, http.MethodPost, "/api/v1/invoices/"+doc.ID.String()+"/update-status", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldErrors(t, decodeError(t, w)), "status")

	w = doJSON(t, r, http.MethodPost, "/api/v1/invoices/"+doc.ID.String()+"/update-status", map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", doc.Status)
}

func TestDocumentHandler_Convert(t *testing.T) {
	svc := newFakeDocuments()
	quote := &documents.Document{OwnedEntity: entity.OwnedEntity{ID: id.New()}, DocType: doctype.Quotation}
	svc.docs[quote.ID] = quote
	r := documentRouter(svc, fakeRenderer{}, doctype.Quotation)
	path := "/api/v1/quotations/" + quote.ID.String() + "/convert-to-invoice"

	first := do(t, r, http.MethodPost, path, nil, "")
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(t, r, http.MethodPost, path, nil, "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), strings.Replace(second.Body.String(), `"created":false`, `"created":true`, 1))
}

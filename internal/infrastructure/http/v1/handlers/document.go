package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/documents"
	"docengine/internal/domain/render"
	"docengine/internal/infrastructure/http/v1/dto"
)

// DocumentService is the document aggregate surface used by DocumentHandler.
type DocumentService interface {
	Create(ctx context.Context, docType doctype.Type, in documents.Input) (*documents.Document, error)
	Update(ctx context.Context, docType doctype.Type, docID id.ID, in documents.Input) (*documents.Document, error)
	UpdateStatus(ctx context.Context, docType doctype.Type, docID id.ID, status string) (*documents.Document, error)
	Get(ctx context.Context, docType doctype.Type, docID id.ID) (*documents.Document, error)
	Delete(ctx context.Context, docType doctype.Type, docID id.ID) error
	List(ctx context.Context, docType doctype.Type, filter documents.ListFilter) (documents.Page, error)
	ConvertQuotation(ctx context.Context, quotationID id.ID) (*documents.Document, bool, error)
}

// ContextBuilder assembles render contexts.
type ContextBuilder interface {
	Build(ctx context.Context, docType doctype.Type, docID id.ID) (*render.Context, error)
}

// DocumentHandler serves the documents of one type per route group.
type DocumentHandler struct {
	*BaseHandler
	service  DocumentService
	builder  ContextBuilder
	renderer render.Renderer
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(base *BaseHandler, service DocumentService, builder ContextBuilder, renderer render.Renderer) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: base,
		service:     service,
		builder:     builder,
		renderer:    renderer,
	}
}

// List handles GET /<type>
func (h *DocumentHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	page, err := h.service.List(c.Request.Context(), h.DocType(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, page)
}

// Create handles POST /<type>/create
func (h *DocumentHandler) Create(c *gin.Context) {
	in, ok := h.bindDocument(c)
	if !ok {
		return
	}
	doc, err := h.service.Create(c.Request.Context(), h.DocType(c), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Get handles GET /<type>/:id and returns the document with its render context.
func (h *DocumentHandler) Get(c *gin.Context) {
	rc, ok := h.renderContext(c)
	if !ok {
		return
	}
	h.OK(c, dto.DocumentDetailResponse{Document: rc.Document, Render: rc})
}

// Update handles POST /<type>/:id/edit
func (h *DocumentHandler) Update(c *gin.Context) {
	docID, ok := h.ParamID(c, "id", h.entity(c))
	if !ok {
		return
	}
	in, ok := h.bindDocument(c)
	if !ok {
		return
	}
	doc, err := h.service.Update(c.Request.Context(), h.DocType(c), docID, in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles POST /<type>/:id/delete
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := h.ParamID(c, "id", h.entity(c))
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), h.DocType(c), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateStatus handles POST /<type>/:id/update-status
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	docID, ok := h.ParamID(c, "id", h.entity(c))
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !h.Bind(c, &req) {
		return
	}
	doc, err := h.service.UpdateStatus(c.Request.Context(), h.DocType(c), docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// HTML handles GET /<type>/:id/html
func (h *DocumentHandler) HTML(c *gin.Context) {
	rc, ok := h.renderContext(c)
	if !ok {
		return
	}
	out, err := h.renderer.HTML(c.Request.Context(), rc)
	if err != nil {
		h.Error(c, asRenderError(err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", out)
}

// PDF handles GET /<type>/:id/pdf
func (h *DocumentHandler) PDF(c *gin.Context) {
	rc, ok := h.renderContext(c)
	if !ok {
		return
	}
	out, err := h.renderer.PDF(c.Request.Context(), rc)
	if err != nil {
		h.Error(c, asRenderError(err))
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+rc.Document.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

// Convert handles POST /quotations/:id/convert-to-invoice. A repeated call
// answers 200 with the invoice created the first time.
func (h *DocumentHandler) Convert(c *gin.Context) {
	quotationID, ok := h.ParamID(c, "id", "quotation")
	if !ok {
		return
	}
	inv, created, err := h.service.ConvertQuotation(c.Request.Context(), quotationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ConversionResponse{
		InvoiceID:     inv.ID.String(),
		InvoiceNumber: inv.Number,
		Created:       created,
	})
}

func (h *DocumentHandler) renderContext(c *gin.Context) (*render.Context, bool) {
	docID, ok := h.ParamID(c, "id", h.entity(c))
	if !ok {
		return nil, false
	}
	rc, err := h.builder.Build(c.Request.Context(), h.DocType(c), docID)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return rc, true
}

// bindDocument decodes a JSON or form body.
func (h *DocumentHandler) bindDocument(c *gin.Context) (documents.Input, bool) {
	var req *dto.DocumentRequest
	if isForm(c) {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			h.Error(c, apperror.NewValidation("invalid form body").WithDetail("error", err.Error()))
			return documents.Input{}, false
		}
		r, err := dto.DocumentRequestFromForm(c.Request.PostForm, h.DocType(c))
		if err != nil {
			h.Error(c, err)
			return documents.Input{}, false
		}
		if !h.Validate(c, r) {
			return documents.Input{}, false
		}
		req = r
	} else {
		req = &dto.DocumentRequest{}
		if !h.BindJSON(c, req) {
			return documents.Input{}, false
		}
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return documents.Input{}, false
	}
	return in, true
}

func (h *DocumentHandler) entity(c *gin.Context) string {
	return doctype.MustLookup(h.DocType(c)).Title
}

// asRenderError keeps domain errors and wraps anything else as a render failure.
func asRenderError(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewRender(err)
}

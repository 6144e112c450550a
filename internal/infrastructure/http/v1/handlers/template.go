package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/templates"
	"docengine/internal/infrastructure/http/v1/dto"
)

// TemplateService is the template surface used by TemplateHandler.
type TemplateService interface {
	Create(ctx context.Context, t *templates.Template) error
	Update(ctx context.Context, t *templates.Template) error
	Get(ctx context.Context, docType doctype.Type, templateID id.ID) (*templates.Template, error)
	List(ctx context.Context, docType doctype.Type) ([]*templates.Template, error)
	Delete(ctx context.Context, docType doctype.Type, templateID id.ID) error
	Duplicate(ctx context.Context, docType doctype.Type, templateID id.ID) (*templates.Template, error)
	ApplyToAll(ctx context.Context, docType doctype.Type, templateID id.ID) (int64, error)
	GetDefault(ctx context.Context, docType doctype.Type) (*templates.Template, error)
}

// TemplateHandler serves the templates of one document type per route group.
type TemplateHandler struct {
	*BaseHandler
	service TemplateService
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(base *BaseHandler, service TemplateService) *TemplateHandler {
	return &TemplateHandler{BaseHandler: base, service: service}
}

// List handles GET /templates/<type>
func (h *TemplateHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), h.DocType(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}

// Default handles GET /templates/<type>/default
func (h *TemplateHandler) Default(c *gin.Context) {
	t, err := h.service.GetDefault(c.Request.Context(), h.DocType(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// Create handles POST /templates/<type>/create
func (h *TemplateHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.TemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	t := templates.NewTemplate(owner, h.DocType(c))
	req.ApplyTo(t)
	if err := h.service.Create(ctx, t); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, t)
}

// Get handles GET /templates/<type>/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	templateID, ok := h.ParamID(c, "id", "template")
	if !ok {
		return
	}
	t, err := h.service.Get(c.Request.Context(), h.DocType(c), templateID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// Update handles POST /templates/<type>/:id/edit
func (h *TemplateHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	templateID, ok := h.ParamID(c, "id", "template")
	if !ok {
		return
	}
	var req dto.TemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.Get(ctx, h.DocType(c), templateID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(t)
	if err := h.service.Update(ctx, t); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// Delete handles POST /templates/<type>/:id/delete
func (h *TemplateHandler) Delete(c *gin.Context) {
	templateID, ok := h.ParamID(c, "id", "template")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), h.DocType(c), templateID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Duplicate handles POST /templates/<type>/:id/duplicate
func (h *TemplateHandler) Duplicate(c *gin.Context) {
	templateID, ok := h.ParamID(c, "id", "template")
	if !ok {
		return
	}
	dup, err := h.service.Duplicate(c.Request.Context(), h.DocType(c), templateID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dup)
}

// ApplyToAll handles POST /templates/<type>/:id/apply-to-all
func (h *TemplateHandler) ApplyToAll(c *gin.Context) {
	templateID, ok := h.ParamID(c, "id", "template")
	if !ok {
		return
	}
	n, err := h.service.ApplyToAll(c.Request.Context(), h.DocType(c), templateID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ApplyToAllResponse{TemplateID: templateID.String(), Updated: n})
}

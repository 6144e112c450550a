package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"docengine/internal/core/id"
	"docengine/internal/domain/catalogs/client"
	"docengine/internal/infrastructure/http/v1/dto"
)

// ClientService is the client directory surface used by ClientHandler.
type ClientService interface {
	Create(ctx context.Context, in client.Input) (*client.Client, error)
	Update(ctx context.Context, clientID id.ID, in client.Input) (*client.Client, error)
	GetByID(ctx context.Context, clientID id.ID) (*client.Client, error)
	Delete(ctx context.Context, clientID id.ID) error
	List(ctx context.Context, search string) ([]*client.Client, error)
}

// ClientHandler serves the client directory.
type ClientHandler struct {
	*BaseHandler
	service ClientService
}

// NewClientHandler creates a new client handler.
func NewClientHandler(base *BaseHandler, service ClientService) *ClientHandler {
	return &ClientHandler{BaseHandler: base, service: service}
}

// List handles GET /clients?search=
func (h *ClientHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}

// Create handles POST /clients/create
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if !h.Bind(c, &req) {
		return
	}
	cl, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cl)
}

// Get handles GET /clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	clientID, ok := h.ParamID(c, "id", "client")
	if !ok {
		return
	}
	cl, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cl)
}

// Update handles POST /clients/:id/edit
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := h.ParamID(c, "id", "client")
	if !ok {
		return
	}
	var req dto.ClientRequest
	if !h.Bind(c, &req) {
		return
	}
	cl, err := h.service.Update(c.Request.Context(), clientID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cl)
}

// Delete handles POST /clients/:id/delete
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, ok := h.ParamID(c, "id", "client")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), clientID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

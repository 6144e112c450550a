package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"docengine/internal/domain/catalogs/company"
	"docengine/internal/infrastructure/http/v1/dto"
)

// CompanyService is the profile use-case surface used by CompanyHandler.
type CompanyService interface {
	Get(ctx context.Context) (*company.Profile, error)
	Save(ctx context.Context, in company.Input) (*company.Profile, error)
}

// CompanyHandler serves the operator's company profile.
type CompanyHandler struct {
	*BaseHandler
	service CompanyService
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(base *BaseHandler, service CompanyService) *CompanyHandler {
	return &CompanyHandler{BaseHandler: base, service: service}
}

// Get handles GET /company
func (h *CompanyHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, profile)
}

// Save handles PUT /company
func (h *CompanyHandler) Save(c *gin.Context) {
	var req dto.CompanyRequest
	if !h.Bind(c, &req) {
		return
	}
	profile, err := h.service.Save(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, profile)
}

// RegisterRoutes registers the profile routes on rg.
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("", h.Save)
}

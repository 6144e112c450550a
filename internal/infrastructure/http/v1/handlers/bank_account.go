package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"docengine/internal/core/id"
	"docengine/internal/domain/catalogs/bankaccount"
	"docengine/internal/infrastructure/http/v1/dto"
)

// BankAccountService is the bank account surface used by BankAccountHandler.
type BankAccountService interface {
	Create(ctx context.Context, in bankaccount.Input) (*bankaccount.BankAccount, error)
	Update(ctx context.Context, accountID id.ID, in bankaccount.Input) (*bankaccount.BankAccount, error)
	SetDefault(ctx context.Context, accountID id.ID) (*bankaccount.BankAccount, error)
	GetByID(ctx context.Context, accountID id.ID) (*bankaccount.BankAccount, error)
	Delete(ctx context.Context, accountID id.ID) error
	List(ctx context.Context) ([]*bankaccount.BankAccount, error)
}

// BankAccountHandler serves the company's bank accounts.
type BankAccountHandler struct {
	*BaseHandler
	service BankAccountService
}

// NewBankAccountHandler creates a new bank account handler.
func NewBankAccountHandler(base *BaseHandler, service BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{BaseHandler: base, service: service}
}

// List handles GET /bank-accounts
func (h *BankAccountHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}

// Create handles POST /bank-accounts/create
func (h *BankAccountHandler) Create(c *gin.Context) {
	var req dto.BankAccountRequest
	if !h.Bind(c, &req) {
		return
	}
	acc, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, acc)
}

// Get handles GET /bank-accounts/:id
func (h *BankAccountHandler) Get(c *gin.Context) {
	accountID, ok := h.ParamID(c, "id", "bank account")
	if !ok {
		return
	}
	acc, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, acc)
}

// Update handles POST /bank-accounts/:id/edit
func (h *BankAccountHandler) Update(c *gin.Context) {
	accountID, ok := h.ParamID(c, "id", "bank account")
	if !ok {
		return
	}
	var req dto.BankAccountRequest
	if !h.Bind(c, &req) {
		return
	}
	acc, err := h.service.Update(c.Request.Context(), accountID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, acc)
}

// Delete handles POST /bank-accounts/:id/delete
func (h *BankAccountHandler) Delete(c *gin.Context) {
	accountID, ok := h.ParamID(c, "id", "bank account")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), accountID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// SetDefault handles POST /bank-accounts/:id/set-default
func (h *BankAccountHandler) SetDefault(c *gin.Context) {
	accountID, ok := h.ParamID(c, "id", "bank account")
	if !ok {
		return
	}
	acc, err := h.service.SetDefault(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, acc)
}

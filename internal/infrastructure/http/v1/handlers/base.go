// Package handlers provides HTTP request handlers.
package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/domain/doctype"
	"docengine/internal/infrastructure/http/v1/dto"
)

// DocTypeKey is the gin context key holding the doctype.Type of a route group.
const DocTypeKey = "doc_type"

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	validate *validator.Validate
}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	v := validator.New()
	// Report JSON names so field errors match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &BaseHandler{validate: v}
}

// BindJSON binds a JSON body and checks its validate tags.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return h.Validate(c, obj)
}

// Bind binds a JSON or form body by content type and checks its validate tags.
func (h *BaseHandler) Bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return h.Validate(c, obj)
}

// BindQuery binds query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Validate runs the validate tags of obj and reports per-field messages.
func (h *BaseHandler) Validate(c *gin.Context, obj any) bool {
	err := h.validate.Struct(obj)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.Error(c, apperror.NewValidation(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	h.Error(c, apperror.NewFieldValidation(fields))
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "a valid email is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "uuid":
		return "invalid id"
	case "hexcolor":
		return "must be a hex color"
	}
	return "invalid value"
}

// Error processes error and sends appropriate response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	h.HandleError(c, err)
}

// HandleError registers error on Gin context and aborts request.
// Actual response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParamID parses a UUID path parameter. Malformed ids are reported as not
// found so they are indistinguishable from foreign ones.
func (h *BaseHandler) ParamID(c *gin.Context, name, entity string) (id.ID, bool) {
	raw := c.Param(name)
	v, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewNotFound(entity, raw))
		return id.Nil(), false
	}
	return v, true
}

// DocType returns the document type bound to the route group.
func (h *BaseHandler) DocType(c *gin.Context) doctype.Type {
	return c.MustGet(DocTypeKey).(doctype.Type)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}

// isForm reports whether the request carries a form body.
func isForm(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEPOSTForm || ct == gin.MIMEMultipartPOSTForm
}

package v1

import (
	"github.com/gin-gonic/gin"

	"docengine/internal/domain/doctype"
	"docengine/internal/infrastructure/http/v1/handlers"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers the standard CRUD routes:
//
//	GET  /            list
//	POST /create      create
//	GET  /:id         detail
//	POST /:id/edit    update
//	POST /:id/delete  delete
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("/create", handler.Create)
	group.GET("/:id", handler.Get)
	group.POST("/:id/edit", handler.Update)
	group.POST("/:id/delete", handler.Delete)
}

// RegisterDocumentRoutes registers CRUD, status and render routes for one
// document type. Quotations additionally get the conversion route.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler *handlers.DocumentHandler, docType doctype.Type) {
	group.Use(bindDocType(docType))

	RegisterCatalogRoutes(group, handler)
	group.POST("/:id/update-status", handler.UpdateStatus)
	group.GET("/:id/html", handler.HTML)
	group.GET("/:id/pdf", handler.PDF)

	if docType == doctype.Quotation {
		group.POST("/:id/convert-to-invoice", handler.Convert)
	}
}

// RegisterTemplateRoutes registers the template routes of one document type.
func RegisterTemplateRoutes(group *gin.RouterGroup, handler *handlers.TemplateHandler, docType doctype.Type) {
	group.Use(bindDocType(docType))

	group.GET("/default", handler.Default)
	RegisterCatalogRoutes(group, handler)
	group.POST("/:id/duplicate", handler.Duplicate)
	group.POST("/:id/apply-to-all", handler.ApplyToAll)
}

func bindDocType(docType doctype.Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handlers.DocTypeKey, docType)
		c.Next()
	}
}

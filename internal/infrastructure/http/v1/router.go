// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"docengine/internal/domain/auth"
	"docengine/internal/domain/doctype"
	"docengine/internal/domain/render"
	"docengine/internal/infrastructure/http/v1/handlers"
	"docengine/internal/infrastructure/http/v1/middleware"
	"docengine/pkg/logger"
)

// RouterConfig holds the collaborators the router exposes.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Auth issues and validates operator tokens
	Auth *auth.Service

	Company      handlers.CompanyService
	Clients      handlers.ClientService
	BankAccounts handlers.BankAccountService
	Templates    handlers.TemplateService
	Documents    handlers.DocumentService

	RenderContexts handlers.ContextBuilder
	Renderer       render.Renderer

	// HealthChecks are probed by GET /health
	HealthChecks map[string]handlers.Pinger

	// CORSOrigins lists allowed origins; empty or "*" allows any.
	CORSOrigins []string

	// Debug keeps gin in debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Order matters: Recovery sits inside ErrorHandler so a recovered
	// panic still gets an error envelope.
	router.Use(corsMiddleware(cfg.CORSOrigins))
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	router.GET("/health", healthHandler.Health)

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, cfg.Auth)
		protectedAuth := api.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.Auth))
		authHandler.RegisterRoutes(api.Group("/auth"), protectedAuth)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.Auth))

		registerCatalogRoutes(protected, base, cfg)
		registerTemplateRoutes(protected, base, cfg)
		registerDocumentRoutes(protected, base, cfg)
	}

	return router
}

// registerCatalogRoutes registers company, client and bank account endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handlers.NewCompanyHandler(base, cfg.Company).RegisterRoutes(rg.Group("/company"))

	RegisterCatalogRoutes(rg.Group("/clients"), handlers.NewClientHandler(base, cfg.Clients))

	bank := handlers.NewBankAccountHandler(base, cfg.BankAccounts)
	bankGroup := rg.Group("/bank-accounts")
	RegisterCatalogRoutes(bankGroup, bank)
	bankGroup.POST("/:id/set-default", bank.SetDefault)
}

// registerTemplateRoutes registers /templates/<type>/... for every document type.
func registerTemplateRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewTemplateHandler(base, cfg.Templates)
	group := rg.Group("/templates")
	for _, t := range doctype.All() {
		RegisterTemplateRoutes(group.Group("/"+doctype.MustLookup(t).Slug), handler, t)
	}
}

// registerDocumentRoutes registers /<type>/... for every document type.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewDocumentHandler(base, cfg.Documents, cfg.RenderContexts, cfg.Renderer)
	for _, t := range doctype.All() {
		RegisterDocumentRoutes(rg.Group("/"+doctype.MustLookup(t).Slug), handler, t)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, middleware.HeaderTraceID, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

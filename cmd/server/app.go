package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"docengine/internal/config"
	"docengine/internal/core/numerator"
	"docengine/internal/domain/auth"
	"docengine/internal/domain/catalogs/bankaccount"
	"docengine/internal/domain/catalogs/client"
	"docengine/internal/domain/catalogs/company"
	"docengine/internal/domain/documents"
	"docengine/internal/domain/documents/waybill"
	"docengine/internal/domain/identity"
	domrender "docengine/internal/domain/render"
	"docengine/internal/domain/templates"
	"docengine/internal/infrastructure/cache"
	v1 "docengine/internal/infrastructure/http/v1"
	"docengine/internal/infrastructure/http/v1/handlers"
	"docengine/internal/infrastructure/render"
	"docengine/internal/infrastructure/storage/postgres"
	"docengine/internal/infrastructure/storage/postgres/auth_repo"
	"docengine/internal/infrastructure/storage/postgres/catalog_repo"
	"docengine/internal/infrastructure/storage/postgres/document_repo"
	"docengine/pkg/logger"
)

// app owns the long-lived resources of the server.
type app struct {
	pool   *postgres.Pool
	redis  *redis.Client
	cache  *cache.RedisCache
	router *gin.Engine
}

// newApp connects to the stores and wires repositories, services and the router.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.pool = pool
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool).WithStatementTimeout(cfg.DBStatementTimeout)

	// --- Optional render cache ---
	var renderCache domrender.Cache
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = rdb
		rc, err := cache.NewRedisCache(rdb)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.cache = rc
		renderCache = rc
		log.Infow("render cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RenderCacheTTL)
	}

	// --- Repositories ---
	userRepo := auth_repo.NewUserRepo(txManager)
	companyRepo := catalog_repo.NewCompanyRepo(txManager)
	clientRepo := catalog_repo.NewClientRepo(txManager)
	bankRepo := catalog_repo.NewBankAccountRepo(txManager)
	templateRepo := catalog_repo.NewTemplateRepo(txManager)
	documentRepo := document_repo.NewDocumentRepo(txManager)

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.JWTTTL
	authService := auth.NewService(userRepo, auth.NewJWTService(jwtConfig), auth.DefaultServiceConfig())

	facade := identity.NewFacade(companyRepo)
	companyService := company.NewService(companyRepo, txManager)
	clientService := client.NewService(clientRepo, facade, txManager)
	bankService := bankaccount.NewService(bankRepo, facade, txManager)

	rules, err := waybill.NewRuleEngine()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init rule engine: %w", err)
	}
	templateService := templates.NewService(templateRepo, templateRepo, txManager).WithRules(rules)

	documentService := documents.NewService(documents.ServiceConfig{
		Repo:      documentRepo,
		Identity:  facade,
		Templates: templateService,
		Clients:   clientService,
		Allocator: numerator.NewAllocator(documentRepo, txManager),
		Validator: waybill.NewValidator(rules),
		TxManager: txManager,
	})

	builder := domrender.NewBuilder(domrender.BuilderConfig{
		Documents:    documentService,
		Companies:    facade,
		BankAccounts: bankService,
		Templates:    templateService,
		Cache:        renderCache,
		CacheTTL:     cfg.RenderCacheTTL,
		MediaBaseURL: cfg.MediaBaseURL,
	})

	// --- Renderers ---
	htmlRenderer, err := render.NewHTMLRenderer()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init html renderer: %w", err)
	}
	var pdf render.PDFConverter
	health := map[string]handlers.Pinger{"postgres": pool}
	if cfg.GotenbergURL != "" {
		gotenberg := render.NewGotenbergClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
		pdf = gotenberg
		health["gotenberg"] = gotenberg
	} else {
		log.Warn("GOTENBERG_URL is not set, PDF rendering is disabled")
	}
	if a.redis != nil {
		rdb := a.redis
		health["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// --- Router ---
	a.router = v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		Auth:           authService,
		Company:        companyService,
		Clients:        clientService,
		BankAccounts:   bankService,
		Templates:      templateService,
		Documents:      documentService,
		RenderContexts: builder,
		Renderer:       render.NewEngine(htmlRenderer, pdf),
		HealthChecks:   health,
		CORSOrigins:    cfg.CORSOrigins,
		Debug:          !cfg.IsProduction(),
	})

	return a, nil
}

// Close releases every resource newApp acquired.
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

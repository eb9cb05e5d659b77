package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	activityapp "github.com/hotel/backend/internal/application/activity"
	budgetapp "github.com/hotel/backend/internal/application/budget"
	identityapp "github.com/hotel/backend/internal/application/identity"
	inventoryapp "github.com/hotel/backend/internal/application/inventory"
	menuapp "github.com/hotel/backend/internal/application/menu"
	partnerapp "github.com/hotel/backend/internal/application/partner"
	procurementapp "github.com/hotel/backend/internal/application/procurement"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/infrastructure/auth"
	"github.com/hotel/backend/internal/infrastructure/config"
	"github.com/hotel/backend/internal/infrastructure/event"
	"github.com/hotel/backend/internal/infrastructure/logger"
	"github.com/hotel/backend/internal/infrastructure/mailer"
	"github.com/hotel/backend/internal/infrastructure/persistence"
	"github.com/hotel/backend/internal/infrastructure/printing"
	"github.com/hotel/backend/internal/infrastructure/store"
	"github.com/hotel/backend/internal/infrastructure/telemetry"
	"github.com/hotel/backend/internal/interfaces/http/handler"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
	"github.com/hotel/backend/internal/interfaces/http/router"

	_ "github.com/hotel/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Hotel Inventory API
//	@version		1.0
//	@description	Inventory, purchasing and receiving backend for hotel kitchens.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  logger.DefaultTimeFormat,
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting hotel inventory backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing and profiling
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	metrics := telemetry.NewMetrics()

	// Document store
	gw, err := store.Open(ctx, cfg, log,
		store.WithDatabaseHook(telemetry.DBHook(cfg.Telemetry, cfg.Database.Driver, log)))
	if err != nil {
		log.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() {
		if err := gw.Close(); err != nil {
			log.Error("Error closing document store", zap.Error(err))
		}
	}()

	if cfg.Store.Seed {
		result, err := persistence.Seed(ctx, gw, time.Now().UTC(), log)
		if err != nil {
			log.Fatal("Failed to seed document store", zap.Error(err))
		}
		log.Info("Seed fixtures applied",
			zap.Int("items", result.Items),
			zap.Int("suppliers", result.Suppliers),
			zap.Int("orders", result.Orders))
	}

	// Repositories
	itemRepo := persistence.NewDocumentInventoryItemRepository(gw)
	txRepo := persistence.NewDocumentTransactionRepository(gw)
	orderRepo := persistence.NewDocumentPurchaseOrderRepository(gw)
	supplierRepo := persistence.NewDocumentSupplierRepository(gw)
	menuRepo := persistence.NewDocumentMenuItemRepository(gw)
	budgetRepo := persistence.NewDocumentBudgetRepository(gw)
	activityRepo := persistence.NewDocumentActivityLogRepository(gw)
	operatorRepo, err := persistence.NewConfigOperatorRepository(cfg.Operators)
	if err != nil {
		log.Fatal("Invalid operator configuration", zap.Error(err))
	}

	// Outbound collaborators
	var orderMailer procurementapp.OrderMailer
	if cfg.Mailer.Endpoint != "" {
		orderMailer = mailer.NewHTTPMailer(cfg.Mailer, log)
	} else {
		log.Warn("Mailer endpoint not configured; order email is disabled")
	}

	var pdfRenderer printing.PDFRenderer
	if cfg.Printing.PDFEnabled {
		chrome := printing.NewChromedpRenderer(cfg.Printing, log)
		defer func() {
			if err := chrome.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		pdfRenderer = chrome
	}
	receiptPrinter, err := printing.NewReceiptPrinter(cfg.Printing, pdfRenderer, log)
	if err != nil {
		log.Fatal("Failed to initialize receipt printer", zap.Error(err))
	}

	// Token revocation
	var blacklist auth.TokenBlacklist
	if cfg.Store.Driver == config.StoreDriverRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient, cfg.Store.KeyPrefix)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Application services
	policy := identity.DefaultPolicy()
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(operatorRepo, policy, jwtService, blacklist, log)
	inventoryService := inventoryapp.NewInventoryService(itemRepo, txRepo, persistence.NewDocumentTransactionScope(gw), log)
	orderScope := persistence.NewDocumentOrderScope(gw)
	orderService := procurementapp.NewPurchaseOrderService(orderRepo, supplierRepo, itemRepo, orderScope, orderMailer, log)
	receivingService := procurementapp.NewReceivingService(orderRepo, orderScope, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, itemRepo, log)
	menuService := menuapp.NewMenuService(menuRepo, itemRepo, log)
	budgetService := budgetapp.NewBudgetService(budgetRepo, orderRepo, log)
	activityService := activityapp.NewActivityService(activityRepo)

	// Event bus: activity log, supplier scorecards, monthly spend, menu
	// availability and domain counters all react to published events
	eventBus := event.NewInMemoryEventBus(log)
	activityRecorder := activityapp.NewRecorder(activityRepo, log)
	performanceHandler := partnerapp.NewSupplierPerformanceHandler(supplierRepo, log)
	spendHandler := budgetapp.NewSpendHandler(budgetService)
	availabilityHandler := menuapp.NewAvailabilityHandler(menuService, log)
	eventBus.Subscribe(activityRecorder)
	eventBus.Subscribe(performanceHandler)
	eventBus.Subscribe(spendHandler)
	eventBus.Subscribe(availabilityHandler)
	eventBus.Subscribe(metrics.EventRecorder())

	log.Info("Event handlers registered",
		zap.Strings("supplier_performance_events", performanceHandler.EventTypes()),
		zap.Strings("budget_spend_events", spendHandler.EventTypes()),
		zap.Strings("menu_availability_events", availabilityHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	inventoryService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	receivingService.SetEventPublisher(eventBus)
	supplierService.SetEventPublisher(eventBus)
	menuService.SetEventPublisher(eventBus)
	budgetService.SetEventPublisher(eventBus)

	// HTTP handlers
	streamHandler := handler.NewStreamHandler(gw,
		handler.WithStreamHeartbeat(cfg.HTTP.StreamHeartbeat),
		handler.WithAllowedOrigins(cfg.HTTP.CORSAllowOrigins),
	)
	handlers := router.Handlers{
		System:        handler.NewSystemHandler(cfg.App.Name, version, cfg.Store.Driver, gw),
		Auth:          handler.NewAuthHandler(authService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService, receivingService, receiptPrinter),
		Supplier:      handler.NewSupplierHandler(supplierService),
		Menu:          handler.NewMenuHandler(menuService),
		Budget:        handler.NewBudgetHandler(budgetService),
		Activity:      handler.NewActivityHandler(activityService),
		Stream:        streamHandler,
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, "/api/v1/health", cfg.Metrics.Path))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/api/v1/health", cfg.Metrics.Path))
	if cfg.Metrics.Enabled {
		engine.Use(middleware.Metrics(metrics, "/api/v1/health", cfg.Metrics.Path))
	}
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	stopSweeper := make(chan struct{})
	defer close(stopSweeper)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go rateLimiter.RunSweeper(cfg.HTTP.RateLimitWindow, stopSweeper)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}
	authenticate := middleware.JWTAuthMiddleware(jwtConfig)
	streamConfig := jwtConfig
	streamConfig.QueryTokenParam = "access_token"

	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, authenticate),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	groups := router.APIGroups(handlers, router.Security{
		Policy:             policy,
		Authenticate:       []gin.HandlerFunc{authenticate, middleware.SpanEnricher()},
		AuthenticateStream: []gin.HandlerFunc{middleware.JWTAuthMiddleware(streamConfig), middleware.SpanEnricher()},
	})
	routeCount := 0
	for _, g := range groups {
		r.Register(g)
		routeCount += len(g.Routes(r.BasePath()))
	}
	r.Setup()
	log.Info("Routes registered", zap.Int("groups", len(groups)), zap.Int("routes", routeCount))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	// open streams never go idle on their own
	srv.RegisterOnShutdown(streamHandler.Close)

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...", zap.Int("open_streams", streamHandler.ClientCount()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

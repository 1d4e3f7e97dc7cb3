package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/ecofoods/backend/internal/application/identity"
	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	supplierapp "github.com/ecofoods/backend/internal/application/supplier"
	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/infrastructure/auth"
	"github.com/ecofoods/backend/internal/infrastructure/config"
	"github.com/ecofoods/backend/internal/infrastructure/event"
	"github.com/ecofoods/backend/internal/infrastructure/logger"
	"github.com/ecofoods/backend/internal/infrastructure/metrics"
	"github.com/ecofoods/backend/internal/infrastructure/migration"
	"github.com/ecofoods/backend/internal/infrastructure/persistence"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/ecofoods/backend/internal/infrastructure/spreadsheet"
	"github.com/ecofoods/backend/internal/infrastructure/telemetry"
	"github.com/ecofoods/backend/internal/interfaces/http/handler"
	"github.com/ecofoods/backend/internal/interfaces/http/middleware"
	"github.com/ecofoods/backend/internal/interfaces/http/router"
	"github.com/ecofoods/backend/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting EcoFoods backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing must be installed before the database so otelgorm picks up the provider
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := prepareSchema(db, log); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	statusRepo := persistence.NewGormBatchStatusRepository(db.DB)
	requestRepo := persistence.NewGormProductionRequestRepository(db.DB)
	productionStockRepo := persistence.NewGormProductionStockRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)
	ratingRepo := persistence.NewGormRatingRepository(db.DB)
	materialRequestRepo := persistence.NewGormMaterialRequestRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	inventoryTx := persistence.NewGormInventoryTransactionScope(db.DB)
	supplierTx := persistence.NewGormSupplierTransactionScope(db.DB)

	// Event bus: committed changes feed the SSE broadcaster and the metrics registry
	eventBus := event.NewInMemoryEventBus(log)
	broadcaster := event.NewRefreshBroadcaster(log)
	eventBus.Subscribe(broadcaster)

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
		eventBus.Subscribe(registry)
	}

	log.Info("Event handlers registered",
		zap.Strings("refresh_events", broadcaster.EventTypes()),
		zap.Bool("metrics_enabled", registry != nil),
	)

	// Initialize application services
	thresholds := inventory.ExpiryThresholds{
		Window:     cfg.Inventory.ExpiryWindowDays,
		Prioritize: cfg.Inventory.PrioritizeDays,
		Immediate:  cfg.Inventory.ImmediateDays,
	}
	defaultStrategy, err := inventory.ParseAllocationStrategyType(cfg.Inventory.DefaultStrategy)
	if err != nil {
		log.Fatal("Invalid inventory.default_strategy", zap.Error(err))
	}

	batchService := inventoryapp.NewBatchService(batchRepo, statusRepo)
	batchStatusService := inventoryapp.NewBatchStatusService(batchRepo, statusRepo, inventoryTx)
	stockService := inventoryapp.NewStockService(batchRepo, statusRepo)
	productionRequestService := inventoryapp.NewProductionRequestService(requestRepo, inventoryTx, defaultStrategy)
	productionStockService := inventoryapp.NewProductionStockService(productionStockRepo)
	expiryService := inventoryapp.NewExpiryService(batchRepo, statusRepo, thresholds)
	dashboardService := inventoryapp.NewDashboardService(batchRepo, statusRepo, requestRepo, productionStockRepo, thresholds)

	supplierService := supplierapp.NewSupplierService(supplierRepo, submissionRepo, supplierTx, log)
	submissionService := supplierapp.NewSubmissionService(submissionRepo, supplierTx, log)
	ratingService := supplierapp.NewRatingService(ratingRepo, supplierTx)
	materialRequestService := supplierapp.NewMaterialRequestService(materialRequestRepo)

	// Inject event bus into services that publish events
	batchService.SetEventPublisher(eventBus)
	batchStatusService.SetEventPublisher(eventBus)
	productionRequestService.SetEventPublisher(eventBus)
	submissionService.SetEventPublisher(eventBus)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := newTokenBlacklist(rootCtx, cfg.Redis, log)
	if closer, ok := blacklist.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}
	authService := identityapp.NewAuthService(adminRepo, supplierRepo, jwtService, blacklist, log)

	if cfg.Admin.SeedEnabled {
		if _, err := authService.SeedDefaultAdmin(rootCtx, cfg.Admin.SeedEmail, cfg.Admin.SeedPassword); err != nil {
			log.Fatal("Failed to seed default admin", zap.Error(err))
		}
	}

	// Initialize HTTP handlers
	excel := spreadsheet.NewExcel()
	handlers := router.Handlers{
		Inventory:         handler.NewInventoryHandler(batchService, excel),
		BatchStatus:       handler.NewBatchStatusHandler(batchStatusService),
		MaterialStock:     handler.NewMaterialStockHandler(stockService),
		ProductionRequest: handler.NewProductionRequestHandler(productionRequestService),
		ProductionStock:   handler.NewProductionStockHandler(productionStockService),
		Expiry:            handler.NewExpiryHandler(expiryService, excel, spreadsheet.ContentType),
		Dashboard:         handler.NewDashboardHandler(dashboardService),
		Events:            handler.NewEventStreamHandler(broadcaster, handler.WithStreamLogger(log)),
		Auth:              handler.NewAuthHandler(authService),
		Supplier:          handler.NewSupplierHandler(supplierService, ratingService, authService),
		MaterialRequest:   handler.NewMaterialRequestHandler(materialRequestService),
		Submission:        handler.NewSubmissionHandler(submissionService),
		SupplierPortal:    handler.NewSupplierPortalHandler(supplierService, authService),
		System:            handler.NewSystemHandler(cfg.App.Name, version, db),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Server spans (if enabled)
	// 4. Logger - Log requests with trace and request IDs
	// 5. Metrics - Count requests per route
	// 6. Security, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled())...)
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(registry, cfg.Metrics.Path, "/health"))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(rootCtx, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health and metrics stay outside the base path
	engine.GET("/health", handlers.System.Health)
	if registry != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(registry.Handler()))
	}

	guards := router.Guards{
		Authenticate: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		AuthenticateStream: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:      jwtService,
			TokenBlacklist:  blacklist,
			AllowQueryToken: true,
			Logger:          log,
		}),
		RequireAdmin:     middleware.RequireRole(string(identity.RoleAdmin)),
		RequireSupplier:  middleware.RequireRole(string(identity.RoleSupplier)),
		ProtectInventory: cfg.HTTP.InventoryAuth,
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		loginLimiter := middleware.NewRateLimiter(rootCtx, cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		guards.LoginLimit = middleware.RateLimit(loginLimiter)
	}

	r := router.NewRouter(engine, router.WithBasePath(cfg.App.BasePath))
	router.RegisterAPI(r, handlers, guards)
	r.Setup()

	log.Info("Routes registered",
		zap.String("base_path", r.BasePath()),
		zap.Int("routes", len(engine.Routes())),
		zap.Bool("inventory_auth", cfg.HTTP.InventoryAuth),
	)

	// Cancelling the base context ends open event streams on shutdown
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	// Create HTTP server with config
	srv := &http.Server{
		BaseContext:    func(net.Listener) context.Context { return baseCtx },
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-rootCtx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srv.RegisterOnShutdown(cancelRequests)
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		_ = srv.Close()
	}

	log.Info("Server exited gracefully")
}

// prepareSchema applies the embedded PostgreSQL migrations, or creates the
// SQLite schema from the models.
func prepareSchema(db *persistence.Database, log *zap.Logger) error {
	if db.Driver == "sqlite" {
		log.Info("Creating SQLite schema from models")
		return db.DB.AutoMigrate(models.All()...)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	migrator, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return migrator.Up()
}

// newTokenBlacklist connects to Redis when configured and falls back to
// process memory otherwise.
func newTokenBlacklist(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) auth.TokenBlacklist {
	if !cfg.RedisEnabled() {
		log.Info("Redis not configured, using in-memory token blacklist")
		return auth.NewInMemoryTokenBlacklist()
	}
	blacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}
	log.Info("Using Redis token blacklist", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
	return blacklist
}

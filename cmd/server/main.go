package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contractapp "github.com/helpdesk/backend/internal/application/contract"
	ticketapp "github.com/helpdesk/backend/internal/application/ticket"
	"github.com/helpdesk/backend/internal/infrastructure/auth"
	"github.com/helpdesk/backend/internal/infrastructure/cache"
	"github.com/helpdesk/backend/internal/infrastructure/config"
	"github.com/helpdesk/backend/internal/infrastructure/logger"
	"github.com/helpdesk/backend/internal/infrastructure/notification"
	"github.com/helpdesk/backend/internal/infrastructure/persistence"
	"github.com/helpdesk/backend/internal/infrastructure/storage"
	"github.com/helpdesk/backend/internal/interfaces/http/handler"
	"github.com/helpdesk/backend/internal/interfaces/http/middleware"
	"github.com/helpdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Helpdesk Backend API
//	@version		1.0
//	@description	Multi-tenant helpdesk backend with contract-based ticket quotas

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting Helpdesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database, with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Catalog cache: Redis when reachable, in-process fallback otherwise so a
	// cache outage never takes ticket forms down with it.
	var catalogCache contractapp.CatalogCache
	redisCache, err := cache.NewRedisCatalogCache(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CatalogTTL)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory catalog cache", zap.Error(err))
		catalogCache = cache.NewInMemoryCatalogCache(cfg.Redis.CatalogTTL)
	} else {
		catalogCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis catalog cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiry(cfg.Storage.PresignExpiry),
	)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	log.Info("Object storage ready", zap.String("bucket", objectStorage.GetBucket()))

	notifier := notification.NewLogNotifier(log, cfg.Notification.OpsMailbox)

	// Repositories
	ticketRepo := persistence.NewTicketRepository(db.DB)
	contractRepo := persistence.NewContractRepository(db.DB)
	tenantRepo := persistence.NewTenantRepository(db.DB)
	userRepo := persistence.NewUserRepository(db.DB)
	activityRepo := persistence.NewActivityRepository(db.DB)

	// Application services
	limitService := ticketapp.NewLimitService(contractRepo, ticketRepo, log)
	ticketService := ticketapp.NewService(ticketRepo, contractRepo, userRepo, tenantRepo, activityRepo,
		limitService, notifier, objectStorage, log)
	usageService := ticketapp.NewUsageService(contractRepo, ticketRepo, log)
	contractService := contractapp.NewService(contractRepo, activityRepo, catalogCache, objectStorage, log)
	catalogService := contractapp.NewCatalogService(contractRepo, catalogCache, log)

	verifier := auth.NewTokenVerifier(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.JWTMiddlewareConfig{
		Verifier: verifier,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db.Ping))
	r.Register(handler.NewTicketHandler(ticketService, limitService))
	r.Register(handler.NewContractHandler(contractService, catalogService))
	r.Register(handler.NewUsageHandler(usageService))
	r.Register(handler.NewActivityHandler(activityRepo))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

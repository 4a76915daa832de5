package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/retailscan/backend/internal/application/catalog"
	feedapp "github.com/retailscan/backend/internal/application/feed"
	scanapp "github.com/retailscan/backend/internal/application/scan"
	"github.com/retailscan/backend/internal/infrastructure/config"
	feedinfra "github.com/retailscan/backend/internal/infrastructure/feed"
	"github.com/retailscan/backend/internal/infrastructure/history"
	"github.com/retailscan/backend/internal/infrastructure/logger"
	"github.com/retailscan/backend/internal/infrastructure/lookup"
	"github.com/retailscan/backend/internal/infrastructure/persistence"
	"github.com/retailscan/backend/internal/interfaces/http/handler"
	"github.com/retailscan/backend/internal/interfaces/http/middleware"
	"github.com/retailscan/backend/internal/interfaces/http/router"
)

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting scan backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Initialize Redis (history slot + change feed)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	{
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	}
	log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))

	// Change feed publisher; repositories emit row changes through it
	publisher := feedinfra.NewRedisPublisher(redisClient, log)

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB, publisher)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB, publisher)

	// Draft default values applied when the web lookup fills in a product
	settings, err := cfg.Defaults.Settings()
	if err != nil {
		log.Fatal("Invalid draft defaults", zap.Error(err))
	}

	// External product lookup and history storage
	lookupClient := lookup.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.Timeout, log)
	historyStore := history.NewRedisHistoryStore(redisClient, cfg.History.SlotKey, log)

	// Initialize application services
	historyService := scanapp.NewHistoryService(historyStore, log)
	resolver := scanapp.NewResolver(productRepo, categoryRepo, lookupClient, cfg.Lookup.Timeout, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, historyService, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)

	// Change feed listener: consumes row changes published by other
	// instances and fans them out to in-process consumers
	subscriber := feedinfra.NewRedisSubscriber(redisClient, log)
	listener := feedapp.NewListener(subscriber, log)
	if err := listener.Start(); err != nil {
		log.Fatal("Failed to start change feed listener", zap.Error(err))
	}
	defer listener.Stop()

	notifier := feedapp.NewNotifier(log)
	listener.Subscribe(notifier.OnProductChange, notifier.OnCategoryChange)

	// Initialize HTTP handlers
	scanHandler := handler.NewScanHandler(resolver, historyService, settings)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	// Setup Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Setup API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(scanHandler).
		Register(productHandler).
		Register(categoryHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
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

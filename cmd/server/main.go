package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/Rajak13/Vyapar-sub001/internal/application/catalog"
	inventoryapp "github.com/Rajak13/Vyapar-sub001/internal/application/inventory"
	tradeapp "github.com/Rajak13/Vyapar-sub001/internal/application/trade"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/infrastructure/alert"
	"github.com/Rajak13/Vyapar-sub001/internal/infrastructure/config"
	"github.com/Rajak13/Vyapar-sub001/internal/infrastructure/event"
	"github.com/Rajak13/Vyapar-sub001/internal/infrastructure/logger"
	"github.com/Rajak13/Vyapar-sub001/internal/infrastructure/persistence"
	"github.com/Rajak13/Vyapar-sub001/internal/interfaces/http/handler"
	"github.com/Rajak13/Vyapar-sub001/internal/interfaces/http/middleware"
	"github.com/Rajak13/Vyapar-sub001/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting inventory ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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
	log.Info("Database connected")

	// Repositories and the transactional scope
	productRepo := persistence.NewGormProductRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Event bus and the low-stock alert pipeline
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Alerts.Enabled {
		var limiter inventoryapp.AlertLimiter
		redisLimiter, err := alert.NewRedisAlertLimiter(&cfg.Redis, cfg.Alerts.MinInterval)
		if err != nil {
			log.Warn("Redis unavailable, alerts will not be rate limited", zap.Error(err))
			limiter = alert.NoopAlertLimiter{}
		} else {
			limiter = redisLimiter
			defer func() {
				if err := redisLimiter.Close(); err != nil {
					log.Error("Error closing alert limiter", zap.Error(err))
				}
			}()
		}

		dispatcher := alert.NewLoggingAlertDispatcher(log)
		alertHandler := inventoryapp.NewStockAlertHandler(dispatcher, limiter, log)
		eventBus.Subscribe(alertHandler)
		log.Info("Low-stock alerts enabled",
			zap.Duration("min_interval", cfg.Alerts.MinInterval),
			zap.Strings("events", alertHandler.EventTypes()),
		)
	}

	// Application services
	thresholds := inventory.Thresholds{
		DefaultLow: cfg.Inventory.DefaultLowStock,
		Critical:   cfg.Inventory.CriticalStock,
	}
	ledgerService := inventoryapp.NewLedgerService(scope, eventBus, thresholds, log)
	adjustmentService := inventoryapp.NewAdjustmentService(ledgerService, scope, log)
	lowStockService := inventoryapp.NewLowStockService(productRepo, eventBus, thresholds, log)
	returnService := tradeapp.NewReturnService(scope, eventBus, log)
	barcodeSource := catalogapp.NewCatalogBarcodeSource(productRepo)
	productService := catalogapp.NewProductService(productRepo, barcodeSource, eventBus, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

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
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	handler.NewHealthHandler(cfg.App.Name, sqlDB).RegisterOn(engine)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewInventoryHandler(ledgerService, adjustmentService, lowStockService)).
		Register(handler.NewReturnsHandler(returnService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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

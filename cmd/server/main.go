package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/config"
	"github.com/washlane/inventory-service/internal/tenant"
	"github.com/washlane/inventory-service/pkg/broker"
	"github.com/washlane/inventory-service/pkg/cache"
	"github.com/washlane/inventory-service/pkg/logger"
	"github.com/washlane/inventory-service/pkg/postgres"
	"github.com/washlane/inventory-service/pkg/search"

	itemH "github.com/washlane/inventory-service/internal/item/handler"
	itemListenerPkg "github.com/washlane/inventory-service/internal/item/listener"
	itemRepoPkg "github.com/washlane/inventory-service/internal/item/repository"
	itemUCPkg "github.com/washlane/inventory-service/internal/item/usecase"

	poH "github.com/washlane/inventory-service/internal/purchaseorder/handler"
	poRepoPkg "github.com/washlane/inventory-service/internal/purchaseorder/repository"
	poUCPkg "github.com/washlane/inventory-service/internal/purchaseorder/usecase"

	reorderH "github.com/washlane/inventory-service/internal/reorder/handler"
	reorderUCPkg "github.com/washlane/inventory-service/internal/reorder/usecase"

	supH "github.com/washlane/inventory-service/internal/supplier/handler"
	supRepoPkg "github.com/washlane/inventory-service/internal/supplier/repository"
	supUCPkg "github.com/washlane/inventory-service/internal/supplier/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	itemRepo := itemRepoPkg.NewPGRepository(db)
	poRepo := poRepoPkg.NewPGRepository(db)
	supRepo := supRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, redisClient, esClient, &cfg.Reorder, appLogger)
	poUC := poUCPkg.NewPurchaseOrderUseCase(poRepo, appLogger)
	supUC := supUCPkg.NewSupplierUseCase(supRepo, appLogger)
	reorderUC := reorderUCPkg.NewReorderUseCase(itemRepo, poRepo, redisClient, &cfg.Reorder, appLogger)

	// 6.5 Initialize Listeners
	consumptionListener := itemListenerPkg.NewConsumptionListener(kafkaConsumer, itemUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumptionListener.Start(ctx)

	// 7. Initialize Handlers and Router
	itemHandler := itemH.NewItemHandler(itemUC, appLogger)
	poHandler := poH.NewPurchaseOrderHandler(poUC, appLogger)
	supHandler := supH.NewSupplierHandler(supUC, appLogger)
	reorderHandler := reorderH.NewReorderHandler(reorderUC, appLogger)

	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(tenant.Middleware())
	itemHandler.RegisterRoutes(api)
	poHandler.RegisterRoutes(api)
	supHandler.RegisterRoutes(api)
	reorderHandler.RegisterRoutes(api)

	// 8. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	appLogger.Info("Server stopped")
}

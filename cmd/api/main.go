package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/config"
	"github.com/sellora/pos-service/pkg/broker"
	"github.com/sellora/pos-service/pkg/cache"
	pgdb "github.com/sellora/pos-service/pkg/database/postgres"
	"github.com/sellora/pos-service/pkg/logger"
	"github.com/sellora/pos-service/pkg/search"

	catH "github.com/sellora/pos-service/internal/category/handler"
	catRepoPkg "github.com/sellora/pos-service/internal/category/repository"
	catUCPkg "github.com/sellora/pos-service/internal/category/usecase"

	custH "github.com/sellora/pos-service/internal/customer/handler"
	custRepoPkg "github.com/sellora/pos-service/internal/customer/repository"
	custUCPkg "github.com/sellora/pos-service/internal/customer/usecase"

	orderH "github.com/sellora/pos-service/internal/order/handler"
	orderRepoPkg "github.com/sellora/pos-service/internal/order/repository"
	orderUCPkg "github.com/sellora/pos-service/internal/order/usecase"

	posH "github.com/sellora/pos-service/internal/pos/handler"
	posRepoPkg "github.com/sellora/pos-service/internal/pos/repository"
	posUCPkg "github.com/sellora/pos-service/internal/pos/usecase"

	prodH "github.com/sellora/pos-service/internal/product/handler"
	prodRepoPkg "github.com/sellora/pos-service/internal/product/repository"
	prodUCPkg "github.com/sellora/pos-service/internal/product/usecase"

	sellerH "github.com/sellora/pos-service/internal/seller/handler"
	sellerRepoPkg "github.com/sellora/pos-service/internal/seller/repository"
	sellerUCPkg "github.com/sellora/pos-service/internal/seller/usecase"

	stockH "github.com/sellora/pos-service/internal/stock/handler"
	stockListenerPkg "github.com/sellora/pos-service/internal/stock/listener"
	stockRepoPkg "github.com/sellora/pos-service/internal/stock/repository"
	stockUCPkg "github.com/sellora/pos-service/internal/stock/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := pgdb.NewPostgres(&pgdb.Config{
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

	// 3.5 Run Migrations
	if err := runMigrations(db.DB, cfg.Postgres.MigrationsPath); err != nil {
		appLogger.Fatal("Could not run database migrations", zap.Error(err))
	}
	appLogger.Info("Database migrations applied", zap.String("path", cfg.Postgres.MigrationsPath))

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	posRepo := posRepoPkg.NewPGRepository(db)
	custRepo := custRepoPkg.NewPGRepository(db)
	sellerRepo := sellerRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)

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

	// 5.5 Initialize Kafka
	salesConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ExternalSalesTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer salesConsumer.Close()

	orderProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
	})
	defer orderProducer.Close()
	appLogger.Info("Connected to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("consume_topic", cfg.Kafka.ExternalSalesTopic),
		zap.String("publish_topic", cfg.Kafka.OrdersTopic))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (Search features might be limited)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, appLogger)
	posUC := posUCPkg.NewPosUseCase(posRepo, appLogger)
	custUC := custUCPkg.NewCustomerUseCase(custRepo, appLogger)
	sellerUC := sellerUCPkg.NewSellerUseCase(sellerRepo, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, redisClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, stockRepo, prodRepo, custRepo, orderProducer, appLogger)

	// 6.5 Initialize Listeners
	stockListener := stockListenerPkg.NewStockListener(salesConsumer, stockUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stockListener.Start(ctx)

	// 7. Initialize Handlers and Routes
	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	catH.NewCategoryHandler(catUC, appLogger).RegisterRoutes(router)
	prodH.NewProductHandler(prodUC, appLogger).RegisterRoutes(router)
	posH.NewPosHandler(posUC, appLogger).RegisterRoutes(router)
	custH.NewCustomerHandler(custUC, appLogger).RegisterRoutes(router)
	sellerH.NewSellerHandler(sellerUC, appLogger).RegisterRoutes(router)
	stockH.NewStockHandler(stockUC, appLogger).RegisterRoutes(router)
	orderH.NewOrderHandler(orderUC, appLogger).RegisterRoutes(router)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func runMigrations(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BryleCahapay/petstore/internal/cache"
	"github.com/BryleCahapay/petstore/internal/config"
	h "github.com/BryleCahapay/petstore/internal/http"
	"github.com/BryleCahapay/petstore/internal/publisher"
	"github.com/BryleCahapay/petstore/internal/repository"
	"github.com/BryleCahapay/petstore/internal/service"
	"github.com/BryleCahapay/petstore/internal/stock"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()

	logger, err := newLogger(cfg.Logger.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cred := &repository.Credentials{
		Host:              cfg.Postgres.Host,
		Port:              cfg.Postgres.Port,
		User:              cfg.Postgres.User,
		Password:          cfg.Postgres.Password,
		DBName:            cfg.Postgres.DBName,
		MigrationsDirPath: cfg.Postgres.MigrationsDirPath,
	}

	db, err := repository.Connect(cred)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()
	sugar.Infow("connected to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.DBName)

	if err := repository.RunMigrations(db, cred.MigrationsDirPath); err != nil {
		sugar.Fatalw("failed to run migrations", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	catalogRepo := repository.NewCatalogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	ledger := stock.NewPostgresLedger(db)
	cartCache := cache.NewRedisCache(redisClient)

	catalogSvc := service.NewCatalogService(catalogRepo, ledger, sugar)
	cartSvc := service.NewCartService(cartRepo, catalogRepo, ledger, cartCache, sugar)
	checkoutSvc := service.NewCheckoutService(cartRepo, receiptRepo, ledger, cartCache, sugar)
	receiptSvc := service.NewReceiptService(receiptRepo, sugar)

	catalogHandler := h.NewCatalogHandler(catalogSvc, cfg.Server.RequestTimeout)
	cartHandler := h.NewCartHandler(cartSvc, cfg.Server.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, cfg.Server.RequestTimeout)
	receiptHandler := h.NewReceiptHandler(receiptSvc, cfg.Server.RequestTimeout)

	router := h.NewRouter(catalogHandler, cartHandler, checkoutHandler, receiptHandler, cfg.Server.RequestTimeout)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	poller := publisher.NewOutboxPoller(receiptRepo, sugar, cfg.Kafka.Brokers...)
	go poller.Run(pollerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "petstore"),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	}

	go func() {
		sugar.Infow("petstore server starting", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalw("server forced to shutdown", "error", err)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}

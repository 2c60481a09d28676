package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/scrap_market/pkg/authclient"
	pkgdb "github.com/Skotchmaster/scrap_market/pkg/db"
	"github.com/Skotchmaster/scrap_market/pkg/events"
	"github.com/Skotchmaster/scrap_market/pkg/idempotency"
	"github.com/Skotchmaster/scrap_market/pkg/logging"
	"github.com/Skotchmaster/scrap_market/pkg/metrics"
	middleware "github.com/Skotchmaster/scrap_market/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/scrap_market/pkg/middleware/logging"

	marketcfg "github.com/Skotchmaster/scrap_market/services/market/internal/config"
	"github.com/Skotchmaster/scrap_market/services/market/internal/httpserver"
	"github.com/Skotchmaster/scrap_market/services/market/internal/repo"
	"github.com/Skotchmaster/scrap_market/services/market/internal/search"
	"github.com/Skotchmaster/scrap_market/services/market/internal/service"
)

func main() {
	if err := godotenv.Load("services/market/.env"); err != nil {
		log.Printf("notice: no .env loaded: %v", err)
	}

	cfg, err := marketcfg.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, "service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	gormRepo := &repo.GormRepo{DB: db}
	if err := gormRepo.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	publisher := events.New(cfg.KafkaBrokers)

	checks := map[string]httpserver.Pinger{
		"database": func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	}

	var locker idempotency.Locker = idempotency.NopLocker{}
	var redisLocker *idempotency.RedisLocker
	if cfg.RedisAddr != "" {
		redisLocker = idempotency.NewRedisLocker(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		locker = redisLocker
		checks["redis"] = redisLocker.Ping
	}

	var searcher service.Searcher
	if cfg.ElasticURL != "" {
		es, err := search.NewClient(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPassword, cfg.ElasticIndex)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		searcher = es
		checks["elasticsearch"] = es.Ping
	}

	orderSvc := &service.OrderService{
		Repo:           gormRepo,
		Events:         publisher,
		Locker:         locker,
		IdempotencyTTL: cfg.IdempotencyTTL,
		ImageBaseURL:   cfg.ImageBaseURL,
	}

	deps := &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Repo: gormRepo, Search: searcher, ImageBaseURL: cfg.ImageBaseURL,
		}},
		CartHandler: &httpserver.CartHTTP{Svc: &service.CartService{
			Repo: gormRepo, Events: publisher, ImageBaseURL: cfg.ImageBaseURL,
		}},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{
			Repo: gormRepo, ImageBaseURL: cfg.ImageBaseURL,
		}},
		OrderHandler:  &httpserver.OrderHTTP{Svc: orderSvc},
		SellerHandler: &httpserver.SellerHTTP{Svc: orderSvc},
		RecommendHandler: &httpserver.RecommendHTTP{Svc: &service.RecommendService{
			Repo: gormRepo, ImageBaseURL: cfg.ImageBaseURL,
		}},
		HealthHandler: &httpserver.HealthHTTP{Checks: checks},
		JWTSecret:     cfg.JWTAccessSecret,
	}
	var refresher middleware.Refresher
	if cfg.AuthHTTPURL != "" {
		refresher = authclient.NewClient(cfg.AuthHTTPURL)
	}
	deps.AuthClient = refresher

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: func() string { return uuid.NewString() }}))
	e.Use(loggingmw.RequestLogger(logger, "/health/live", "/health/ready", "/metrics"))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("market listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	closeAll(logger, db, publisher, redisLocker)

	logger.Info("market stopped")
}

func closeAll(logger *slog.Logger, db *gorm.DB, publisher events.Publisher, redisLocker *idempotency.RedisLocker) {
	if err := publisher.Close(); err != nil {
		logger.Error("events close", "error", err)
	}
	if redisLocker != nil {
		if err := redisLocker.Close(); err != nil {
			logger.Error("redis close", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/config"
	"github.com/realtyconnect/community-api/internal/db"
	"github.com/realtyconnect/community-api/internal/es"
	"github.com/realtyconnect/community-api/internal/events"
	"github.com/realtyconnect/community-api/internal/handlers"
	"github.com/realtyconnect/community-api/internal/logging"
	authmw "github.com/realtyconnect/community-api/internal/middleware/auth"
	loggingmw "github.com/realtyconnect/community-api/internal/middleware/logging"
	"github.com/realtyconnect/community-api/internal/models"
	"github.com/realtyconnect/community-api/internal/repo"
	"github.com/realtyconnect/community-api/internal/service"
	"github.com/realtyconnect/community-api/internal/tokens"
	httpserver "github.com/realtyconnect/community-api/internal/transport/http"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := logging.IntoContext(context.Background(), logger)

	database, err := db.OpenWithRetry(ctx, cfg.DatabaseURL, 5, time.Second)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, events disabled")
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			logger.Warn("elasticsearch unavailable, search disabled", "error", err)
			esClient = nil
		}
	} else {
		logger.Warn("ES_URL not set, search disabled")
	}

	r := repo.New(database)
	issuer := &tokens.Issuer{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}

	authSvc := &service.AuthService{Repo: r, Tokens: issuer}
	socialSvc := &service.SocialService{Repo: r}
	postSvc := &service.PostService{Repo: r, ES: esClient, ESIndex: "posts"}
	paymentSvc := &service.PaymentService{Repo: r}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(cfg.Env != "production")

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{cfg.CORSOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowCredentials: true,
		}),
		middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(cfg.RateLimit),
				Burst: cfg.RateBurst,
			}),
		}),
		loggingmw.RequestLogger(logger),
	)

	deps := httpserver.Deps{
		Auth:     &authmw.Middleware{Repo: r, Tokens: issuer},
		AuthH:    &handlers.AuthHandler{Svc: authSvc, Social: socialSvc, Producer: producer},
		UserH:    &handlers.UserHandler{Social: socialSvc, Posts: postSvc, Producer: producer},
		PostH:    &handlers.PostHandler{Posts: postSvc, Producer: producer},
		PaymentH: &handlers.PaymentHandler{Payments: paymentSvc},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}

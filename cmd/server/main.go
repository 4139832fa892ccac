package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"blogapi/docs"
	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/events"
	"blogapi/internal/handler"
	"blogapi/internal/logger"
	"blogapi/internal/middleware"
	"blogapi/internal/repository"
	"blogapi/internal/router"
	"blogapi/internal/service"
)

// @title Blog API
// @version 1.0
// @description Blogging backend with access/refresh token authentication and author-only blog mutations.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("database migrate", zap.Error(err))
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Sessions live in Redis; without it nobody can sign in.
		log.Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher := events.NewAMQPPublisher(cfg.RabbitMQURL, log)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	blogRepo := repository.NewBlogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret,
		auth.WithTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
	tokenService := auth.NewTokenService(jwtService, auth.NewRedisSessionStore(rdb), userRepo, log)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptCost, log)
	listing := cache.New(rdb)
	userService := service.NewUserService(userRepo, listing, cfg.BcryptCost)
	blogService := service.NewBlogService(blogRepo, listing, publisher, cfg.BlogCacheTTL, log)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	router.Register(e, log, middleware.NewGate(tokenService, userRepo, blogRepo, log), router.Handlers{
		Auth: handler.NewAuthHandler(authService),
		User: handler.NewUserHandler(userService),
		Blog: handler.NewBlogHandler(blogService),
	})

	log.Info("swagger documentation available", zap.String("url", swaggerURL(cfg.SwaggerHost)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// swaggerURL points at the UI, honouring SWAGGER_HOST with or without a scheme.
func swaggerURL(host string) string {
	if host == "" {
		return "http://" + docs.SwaggerInfo.Host + "/swagger/index.html"
	}
	docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(host, "http://"), "https://")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimSuffix(host, "/") + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}

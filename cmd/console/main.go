package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/internal/handler"
	"github.com/Monalisa-XD/Academix/internal/middleware"
	"github.com/Monalisa-XD/Academix/internal/repository"
	"github.com/Monalisa-XD/Academix/internal/service"
	"github.com/Monalisa-XD/Academix/pkg/cache"
	"github.com/Monalisa-XD/Academix/pkg/config"
	"github.com/Monalisa-XD/Academix/pkg/logger"
	corsmiddleware "github.com/Monalisa-XD/Academix/pkg/middleware/cors"
	reqidmiddleware "github.com/Monalisa-XD/Academix/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	client := repository.NewRemoteClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, metrics)
	stores := service.NewRemoteRosterStores(client)

	var sessionRepo repository.SessionRepository
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		sessionRepo = repository.NewRedisSessionRepository(rdb)
	default:
		sessionRepo = repository.NewMemorySessionRepository()
	}

	sessions := service.NewSessionService(sessionRepo, repository.NewAuthClient(client), validate, logr, metrics, service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})
	console := service.NewConsole(stores, logr)
	go console.RunSweeper(context.Background(), time.Minute)

	sessionHandler := handler.NewSessionHandler(sessions, console, handler.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Env == config.EnvProduction,
	}, logr)
	consoleHandler := handler.NewConsoleHandler(console,
		service.NewImportService(validate, logr, metrics),
		service.NewExportService(logr),
		logr)
	metricsHandler := handler.NewMetricsHandler(metrics, cfg.Rollbar.CodeVersion)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "remote": client.BaseURL()})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	loginPath := cfg.APIPrefix + "/login"
	handler.RegisterConsoleRoutes(r.Group(cfg.APIPrefix),
		middleware.RequireSession(sessions, cfg.Session.CookieName, loginPath),
		sessionHandler, consoleHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("console starting", "addr", addr, "env", cfg.Env, "remote", client.BaseURL(), "session_store", cfg.Session.Store)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

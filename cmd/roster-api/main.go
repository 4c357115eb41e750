package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Monalisa-XD/Academix/api/swagger"
	"github.com/Monalisa-XD/Academix/internal/handler"
	"github.com/Monalisa-XD/Academix/internal/middleware"
	"github.com/Monalisa-XD/Academix/internal/repository"
	"github.com/Monalisa-XD/Academix/internal/service"
	"github.com/Monalisa-XD/Academix/pkg/config"
	"github.com/Monalisa-XD/Academix/pkg/database"
	"github.com/Monalisa-XD/Academix/pkg/logger"
	corsmiddleware "github.com/Monalisa-XD/Academix/pkg/middleware/cors"
	reqidmiddleware "github.com/Monalisa-XD/Academix/pkg/middleware/requestid"
)

// @title Academix Roster API
// @version 1.0.0
// @description Roster backend consumed by the Academix console.
// @BasePath /
// @schemes http

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

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		cancel()
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		cancel()
		logr.Fatal("failed to prepare schema", zap.Error(err))
	}
	cancel()

	metrics := service.NewMetricsService()
	validate := validator.New()

	faculties := service.NewFacultyService(repository.NewFacultyRepository(db), validate, logr)
	students := service.NewStudentService(repository.NewStudentRepository(db), validate, logr)
	admins := service.NewAdminService(repository.NewAdminRepository(db), validate, logr)
	metricsHandler := handler.NewMetricsHandler(metrics, cfg.Rollbar.CodeVersion)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRosterRoutes(r,
		handler.NewFacultyHandler(faculties),
		handler.NewStudentHandler(students),
		handler.NewLoginHandler(admins))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("roster api starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

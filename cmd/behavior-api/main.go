package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classroom-behavior-api/api/swagger"
	"github.com/noah-isme/classroom-behavior-api/internal/handler"
	internalmiddleware "github.com/noah-isme/classroom-behavior-api/internal/middleware"
	"github.com/noah-isme/classroom-behavior-api/internal/repository"
	"github.com/noah-isme/classroom-behavior-api/internal/service"
	"github.com/noah-isme/classroom-behavior-api/pkg/cache"
	"github.com/noah-isme/classroom-behavior-api/pkg/config"
	"github.com/noah-isme/classroom-behavior-api/pkg/database"
	"github.com/noah-isme/classroom-behavior-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/classroom-behavior-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classroom-behavior-api/pkg/middleware/requestid"
)

// @title Classroom Behavior API
// @version 1.0.0
// @description Log classroom behaviors per student and derive summaries, trends and exports
// @BasePath /api/v1
// @schemes http

type backends struct {
	kv     repository.KVStore
	redis  *redis.Client
	db     *sqlx.DB
	checks map[string]handler.ReadinessCheck
}

func (b *backends) close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.db != nil {
		_ = b.db.Close()
	}
}

func openBackends(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*backends, error) {
	b := &backends{checks: map[string]handler.ReadinessCheck{}}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		store := repository.NewPostgresKVStore(db, cfg.Storage.Namespace)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		b.db, b.kv = db, store
		b.checks["postgres"] = db.PingContext
	case config.StorageRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.redis, b.kv = client, repository.NewRedisKVStore(client, cfg.Storage.Namespace)
	default:
		b.kv = repository.NewMemoryKVStore()
	}

	if cfg.Reports.CacheEnabled && b.redis == nil {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("report cache disabled, redis unavailable", zap.Error(err))
		} else {
			b.redis = client
		}
	}
	if b.redis != nil {
		client := b.redis
		b.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return b, nil
}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	back, err := openBackends(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer back.close()

	metricsSvc := service.NewMetricsService()
	kv := repository.NewObservedKVStore(back.kv, metricsSvc.ObserveStorage)
	store := repository.NewCollectionRepository(kv, logr)

	var cacheRepo service.CacheRepository
	if cfg.Reports.CacheEnabled && back.redis != nil {
		cacheRepo = repository.NewCacheRepository(back.redis, cfg.Storage.Namespace, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)

	validate := validator.New()
	reportSvc := service.NewReportService(store, cacheSvc, metricsSvc, logr, nil, service.ReportServiceConfig{
		DefaultRange: cfg.Reports.DefaultRange,
		CacheTTL:     cfg.Reports.CacheTTL,
	})
	metricsHandler := handler.NewMetricsHandler(metricsSvc, back.checks)
	handlers := handler.Handlers{
		Students:  handler.NewStudentHandler(service.NewStudentService(store, cacheSvc, validate, logr, nil)),
		Behaviors: handler.NewBehaviorHandler(service.NewBehaviorService(store, cacheSvc, validate, logr, nil)),
		Entries:   handler.NewEntryHandler(service.NewEntryService(store, cacheSvc, metricsSvc, validate, logr, nil, cfg.Behavior.DefaultTeacherID)),
		Classes:   handler.NewClassHandler(service.NewClassService(store, cacheSvc, validate, logr, nil)),
		Reports:   handler.NewReportHandler(reportSvc, service.NewExportService(store, reportSvc, logr, nil)),
		Metrics:   metricsHandler,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/metrics", "/health", "/ready"))
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(internalmiddleware.Teacher(cfg.Behavior.DefaultTeacherID))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers.Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

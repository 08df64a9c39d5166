package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/alifhakimiazwan/RateMyCitra/api/swagger"
	"github.com/alifhakimiazwan/RateMyCitra/internal/contentfilter"
	"github.com/alifhakimiazwan/RateMyCitra/internal/handler"
	internalmiddleware "github.com/alifhakimiazwan/RateMyCitra/internal/middleware"
	"github.com/alifhakimiazwan/RateMyCitra/internal/repository"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
	"github.com/alifhakimiazwan/RateMyCitra/migrations"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/cache"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/config"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/database"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/jobs"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/logger"
	reqidmiddleware "github.com/alifhakimiazwan/RateMyCitra/pkg/middleware/requestid"
)

// @title RateMyCitra API
// @version 1.0.0
// @description Ratings and reviews for elective Citra subjects
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	migrate := flag.Bool("migrate", false, "apply database migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr, *migrate); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, migrate bool) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := database.Migrate(ctx, db, migrations.FS, logr); err != nil {
			return err
		}
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.CitraTTL, logr, true)
	}

	var invalidator service.CitraInvalidator
	if cacheSvc != nil {
		invalidation := service.NewInvalidationService(cacheSvc, logr, jobs.QueueConfig{Workers: cfg.Invalidation.Workers})
		invalidation.Start(ctx)
		defer invalidation.Stop()
		invalidator = invalidation
	}

	validate := validator.New()
	citraRepo := repository.NewCitraRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	reportRepo := repository.NewReportRepository(db)

	citraSvc := service.NewCitraService(citraRepo, ratingRepo, service.CitraServiceConfig{
		Cache:       cacheSvc,
		CacheTTL:    cfg.Cache.CitraTTL,
		Invalidator: invalidator,
		Metrics:     metricsSvc,
		Validator:   validate,
		Logger:      logr,
	})
	filter := contentfilter.New(cfg.ContentFilter.ExtraTerms...)
	ratingSvc := service.NewRatingService(ratingRepo, citraSvc, filter, invalidator, metricsSvc, validate, logr,
		service.RatingServiceConfig{ReviewMinLength: cfg.Ratings.ReviewMinLength})
	reportSvc := service.NewReportService(reportRepo, ratingRepo, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(citraSvc, logr)
	authSvc := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(cors.New(corsConfig(cfg.CORS)))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Routes{
		Citra:   handler.NewCitraHandler(citraSvc, exportSvc),
		Rating:  handler.NewRatingHandler(ratingSvc),
		Report:  handler.NewReportHandler(reportSvc),
		Metrics: handler.NewMetricsHandler(metricsSvc, db),
		Auth:    authSvc,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", reqidmiddleware.HeaderName)
	c.ExposeHeaders = []string{reqidmiddleware.HeaderName, "Content-Disposition"}
	if len(cfg.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		c.AllowOrigins = append(c.AllowOrigins, strings.TrimRight(origin, "/"))
	}
	c.AllowCredentials = true
	return c
}

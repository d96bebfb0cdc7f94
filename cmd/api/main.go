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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/admitdesk/admission-api/api/swagger"
	"github.com/admitdesk/admission-api/internal/catalog"
	"github.com/admitdesk/admission-api/internal/handler"
	"github.com/admitdesk/admission-api/internal/middleware"
	"github.com/admitdesk/admission-api/internal/models"
	"github.com/admitdesk/admission-api/internal/repository"
	"github.com/admitdesk/admission-api/internal/service"
	"github.com/admitdesk/admission-api/internal/store"
	"github.com/admitdesk/admission-api/pkg/cache"
	"github.com/admitdesk/admission-api/pkg/config"
	"github.com/admitdesk/admission-api/pkg/database"
	"github.com/admitdesk/admission-api/pkg/genai"
	"github.com/admitdesk/admission-api/pkg/jobs"
	"github.com/admitdesk/admission-api/pkg/logger"
	corsmiddleware "github.com/admitdesk/admission-api/pkg/middleware/cors"
	reqidmiddleware "github.com/admitdesk/admission-api/pkg/middleware/requestid"
	"github.com/admitdesk/admission-api/pkg/storage"
)

// @title Admission Enquiry API
// @version 1.0.0
// @description Tracks university admission enquiries, counsellor allocation and campus visits.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	snapshotRepo := repository.NewSnapshotRepository(db)
	if err := snapshotRepo.EnsureSchema(ctx); err != nil {
		logr.Sugar().Fatalw("failed to prepare snapshot schema", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	}

	cat := catalog.NewProvider()

	st := store.New(snapshotRepo, cat, logr)
	st.OnAllocate(metricsSvc.RecordAllocation)
	if err := st.Load(ctx, cat); err != nil {
		logr.Sugar().Fatalw("failed to load entity snapshots", "error", err)
	}
	metricsSvc.UpdateEngineGauges(st.Enquiries(), st.Counsellors())

	validate := validator.New()

	authSvc := service.NewAuthService(st, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	enquirySvc := service.NewEnquiryService(st, cat, validate, logr)
	counsellorSvc := service.NewCounsellorService(st, logr)
	userSvc := service.NewUserService(st, logr)
	dashboardSvc := service.NewDashboardService(st, cat, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	var archive service.Archiver
	if cfg.Exports.ArchiveDir != "" {
		local, err := storage.NewLocalStorage(cfg.Exports.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export archive", "error", err)
		}
		if deleted, err := local.CleanupOlderThan(30 * 24 * time.Hour); err != nil {
			logr.Sugar().Warnw("export archive cleanup failed", "error", err)
		} else if len(deleted) > 0 {
			logr.Sugar().Infow("pruned stale export archives", "count", len(deleted))
		}
		archive = local
	}
	exportSvc := service.NewExportService(st, cat, archive, logr)

	genaiClient := genai.NewClient(genai.Config{
		BaseURL: cfg.Insights.BaseURL,
		APIKey:  cfg.Insights.APIKey,
		Model:   cfg.Insights.Model,
		Timeout: cfg.Insights.Timeout,
	})
	insightSvc := service.NewInsightService(st, cat, genaiClient, cacheSvc, cfg.Insights.CacheTTL, cfg.Insights.Enabled, logr)

	trendQueue := jobs.NewQueue("insight-trends", insightSvc.RefreshTrends, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.Insights.WorkerRetries,
		Logger:     logr,
	})
	trendQueue.Start(ctx)
	defer trendQueue.Stop()

	// Observers fire after every committed mutation, in registration order.
	st.Subscribe(func() {
		if err := cacheSvc.Invalidate(context.Background(), service.DashboardCachePattern); err != nil {
			logr.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	})
	st.Subscribe(func() {
		metricsSvc.UpdateEngineGauges(st.Enquiries(), st.Counsellors())
	})
	if cfg.Insights.Enabled {
		st.Subscribe(func() {
			if err := trendQueue.Enqueue(jobs.Job{Type: service.JobTypeTrendRefresh}); err != nil {
				logr.Warn("trend refresh enqueue failed", zap.Error(err))
			}
		})
	}

	authHandler := handler.NewAuthHandler(authSvc)
	enquiryHandler := handler.NewEnquiryHandler(enquirySvc)
	counsellorHandler := handler.NewCounsellorHandler(counsellorSvc)
	userHandler := handler.NewUserHandler(userSvc)
	courseHandler := handler.NewCourseHandler(cat)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	insightHandler := handler.NewInsightHandler(insightSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/courses", courseHandler.List)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleCounsellor, models.RoleGuide)
	counselling := middleware.RequireRoles(models.RoleAdmin, models.RoleCounsellor)
	parents := middleware.RequireRoles(models.RoleAdmin, models.RoleParent)
	guides := middleware.RequireRoles(models.RoleAdmin, models.RoleGuide)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	authed.POST("/enquiries", parents, enquiryHandler.Submit)
	authed.GET("/enquiries", staff, enquiryHandler.List)
	authed.GET("/enquiries/:id", staff, enquiryHandler.Get)
	authed.POST("/enquiries/:id/session/start", counselling, enquiryHandler.StartSession)
	authed.POST("/enquiries/:id/session/complete", counselling, enquiryHandler.CompleteSession)
	authed.POST("/enquiries/:id/visit/request", parents, enquiryHandler.RequestVisit)
	authed.POST("/enquiries/:id/visit/complete", guides, enquiryHandler.CompleteVisit)

	authed.GET("/counsellors", staff, counsellorHandler.List)
	authed.GET("/counsellors/:id", staff, counsellorHandler.Get)
	authed.POST("/counsellors/:id/availability/toggle", counselling, counsellorHandler.ToggleAvailability)

	authed.GET("/users", adminOnly, userHandler.List)
	authed.POST("/users/upgrade", adminOnly, userHandler.Upgrade)

	if cfg.Dashboard.Enabled {
		authed.GET("/dashboard", adminOnly, dashboardHandler.Summary)
	}

	authed.GET("/insights/trends", adminOnly, insightHandler.Trends)
	authed.GET("/insights/talking-points", counselling, insightHandler.TalkingPoints)

	if cfg.Exports.Enabled {
		authed.GET("/exports/enquiries", adminOnly, exportHandler.Enquiries)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("server shutdown", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/arcade-hub-api/api/swagger"
	"github.com/noah-isme/arcade-hub-api/internal/handler"
	"github.com/noah-isme/arcade-hub-api/internal/middleware"
	"github.com/noah-isme/arcade-hub-api/internal/realtime"
	"github.com/noah-isme/arcade-hub-api/internal/repository"
	"github.com/noah-isme/arcade-hub-api/internal/router"
	"github.com/noah-isme/arcade-hub-api/internal/service"
	"github.com/noah-isme/arcade-hub-api/pkg/cache"
	"github.com/noah-isme/arcade-hub-api/pkg/config"
	"github.com/noah-isme/arcade-hub-api/pkg/database"
	"github.com/noah-isme/arcade-hub-api/pkg/export"
	"github.com/noah-isme/arcade-hub-api/pkg/logger"
)

// @title Arcade Hub API
// @version 1.0.0
// @description Public site, live status and admin console backend for the arcade room
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "api")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database, cfg.Store.Driver)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	stores, err := repository.OpenStores(ctx, cfg, db, logr)
	if err != nil {
		logr.Fatal("failed to open content store", zap.Error(err))
	}
	defer stores.Close(context.Background()) //nolint:errcheck

	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	if stores.Driver != config.StoreDriverPostgres {
		checks[stores.Driver] = stores.Ping
	}

	var (
		cacheRepo service.CacheRepository
		broker    realtime.Broker
	)
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled and live updates stay in-process", zap.Error(err))
		broker = realtime.NewLocalBroker(cfg.Live.SendBuffer)
	} else {
		repo := repository.NewCacheRepository(redisClient.Client, redisClient.KeyPrefix, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
		broker = realtime.NewRedisBroker(redisClient.Client, redisClient.Channel, logr)
		checks["redis"] = redisClient.Healthy
	}
	defer broker.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.SiteTTL, logr, cfg.Cache.Enabled && cacheRepo != nil)
	notifier := service.NewChangeNotifier(cacheSvc, broker, logr)
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	contentSvc := service.NewContentService(stores.Content, validate, notifier, logr)
	eventSvc := service.NewEventService(stores.Events, contentSvc, validate, notifier, metrics, cfg.Venue.Location, logr)
	exportSvc := service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter(), logr)
	scoreSvc := service.NewHighscoreService(stores.Highscores, contentSvc, exportSvc, cacheSvc, metrics, notifier, validate, service.HighscoreConfig{
		LeaderboardSize: cfg.Leaderboard.Size,
		CacheTTL:        cfg.Cache.SiteTTL,
	}, logr)
	statusSvc := service.NewStatusService(contentSvc, broker, metrics, service.StatusConfig{
		Location:        cfg.Venue.Location,
		RefreshInterval: cfg.Venue.StatusRefreshInterval,
	}, logr)
	siteSvc := service.NewSiteService(eventSvc, scoreSvc, contentSvc, statusSvc, cacheSvc, cfg.Cache.SiteTTL, logr)

	hub := realtime.NewHub(realtime.HubConfig{
		PingInterval:   cfg.Live.PingInterval,
		SendBuffer:     cfg.Live.SendBuffer,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, metrics, logr)
	defer hub.Close()

	dispatcher := realtime.NewDispatcher(broker, hub, siteSvc, realtime.DispatcherConfig{Workers: cfg.Live.Workers}, logr)
	if err := dispatcher.Start(ctx); err != nil {
		logr.Fatal("failed to start live dispatcher", zap.Error(err))
	}
	defer dispatcher.Stop()

	statusSvc.Start(ctx)
	defer statusSvc.Stop()

	scoreRate := middleware.NewRateLimiter(cfg.RateLimit.ScoreSubmitPerMinute, cfg.RateLimit.ScoreSubmitBurst)
	loginRate := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
	go scoreRate.Run(time.Minute, ctx.Done())
	go loginRate.Run(time.Minute, ctx.Done())

	r := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, router.Dependencies{
		Auth:      handler.NewAuthHandler(authSvc),
		Site:      handler.NewSiteHandler(siteSvc, statusSvc),
		Events:    handler.NewEventHandler(eventSvc),
		Scores:    handler.NewHighscoreHandler(scoreSvc),
		Content:   handler.NewContentHandler(contentSvc),
		Live:      handler.NewLiveHandler(hub, dispatcher, logr),
		System:    handler.NewSystemHandler(metrics, checks, stores.Driver),
		Tokens:    authSvc,
		Audit:     userRepo,
		Metrics:   metrics,
		ScoreRate: scoreRate,
		LoginRate: loginRate,
		Logger:    logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", stores.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

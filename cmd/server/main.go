package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/inkwell/config"
	_ "github.com/d60-Lab/inkwell/docs"
	"github.com/d60-Lab/inkwell/internal/api"
	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/jobs"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/internal/validate"
	"github.com/d60-Lab/inkwell/pkg/database"
	"github.com/d60-Lab/inkwell/pkg/logger"
	"github.com/d60-Lab/inkwell/pkg/tracing"
)

// @title inkwell API
// @version 1.0
// @description Posts, tags, follows, feed, notifications and a bookshelf.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		// 缓存不可用时直接读库
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	if err := validate.RegisterGin(); err != nil {
		logger.Fatal("validator setup failed", zap.Error(err))
	}
	query.SetPageLimits(cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize)

	jwt := auth.NewJWT(cfg.JWT)
	svc := service.NewServices(db, service.Options{
		JWT:       jwt,
		Redis:     rdb,
		CacheTTL:  cfg.Redis.TTL,
		QueueSize: cfg.Notification.QueueSize,
	})
	stopNotifier := svc.Notifier.Start(cfg.Notification.Workers)

	cron := jobs.New(ctx)
	if _, err := cron.Add("purge-notifications", cfg.Notification.PurgeCron, func(ctx context.Context) error {
		_, err := svc.Notifications.PurgeRead(ctx, cfg.Notification.Retention)
		return err
	}); err != nil {
		logger.Warn("cron register purge failed", zap.Error(err))
	}
	cron.Start()

	router := api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		JWT:      jwt,
		Services: svc,
	})
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
	cron.Stop()
	if err := stopNotifier(shutdownCtx); err != nil {
		logger.Warn("notifier drain incomplete", zap.Error(err), zap.Int("pending", svc.Notifier.QueueLen()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
	logger.Info("bye", zap.Int64("notifications_delivered", svc.Notifier.Delivered()),
		zap.Int64("notifications_dropped", svc.Notifier.Dropped()))
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/rehearsal-scheduler/internal/audit"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/rehearsal-scheduler/internal/db"
	domain "github.com/BruksfildServices01/rehearsal-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/rehearsal-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/notify"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/logger"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/pkg/metrics"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/routes"
	"github.com/BruksfildServices01/rehearsal-scheduler/internal/timezone"
)

func main() {

	cfg := config.Load()

	logger.Set(logger.NewLogger(cfg.Env))
	defer func() { _ = logger.Sync() }()

	timezone.SetDefault(cfg.Timezone)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// INFRA
	// ======================================================
	db := dbpkg.NewDB(cfg)
	auditLogger := audit.New(db)
	m := metrics.New()

	var repo domain.Repository = infraRepo.NewReservationGormRepository(db)

	if cfg.Redis.Addr != "" {
		client := cache.NewClient(cfg.Redis)
		defer client.Close()

		if err := cache.Ping(ctx, client); err != nil {
			logger.Warn("redis unavailable, calendar cache disabled", zap.Error(err))
		} else {
			repo = cache.NewCachedRepository(repo, cache.NewRoomCalendarCache(client, cfg.CacheTTL))
			logger.Info("calendar cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// ======================================================
	// NOTIFICATIONS
	// ======================================================
	notifiers := []notify.Notifier{
		notify.NewLogNotifier(logger.Get()),
		notify.NewAuditNotifier(auditLogger),
	}

	if cfg.Notify.AMQPUrl != "" {
		publisher, err := notify.DialAMQP(cfg.Notify.AMQPUrl, cfg.Notify.Queue)
		if err != nil {
			logger.Fatal("failed to connect amqp", zap.Error(err))
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
	}

	if cfg.Archive.Bucket != "" {
		notifiers = append(notifiers, notify.NewS3Archiver(cfg.Archive))
	}

	dispatcher := notify.NewDispatcher(cfg.Notify.Buffer, m, notifiers...)

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Repo:    repo,
		Members: infraRepo.NewMembershipGormRepository(db),
		Hook:    dispatcher,
		Metrics: m,
		Audit:   auditLogger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// pending notifications go out before the sinks close
	dispatcher.Close()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labtrends/labtrends/internal/annotator"
	"github.com/labtrends/labtrends/internal/config"
	v1 "github.com/labtrends/labtrends/internal/handler/v1"
	"github.com/labtrends/labtrends/internal/repository"
	"github.com/labtrends/labtrends/internal/service"
	"github.com/labtrends/labtrends/pkg/auth"
	"github.com/labtrends/labtrends/pkg/database"
	"github.com/labtrends/labtrends/pkg/logger"
	"github.com/labtrends/labtrends/pkg/metrics"
	"github.com/labtrends/labtrends/pkg/tracer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

// trackPoolSize mirrors the connection pool size into the metrics gauge.
func trackPoolSize(db *gorm.DB, collector *metrics.Collector) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("labtrends")
	if err := database.Instrument(db, collector); err != nil {
		return err
	}
	go trackPoolSize(db, collector)

	jwtManager := auth.NewJWTManager(cfg.JWT)

	reportRepo := repository.NewReportRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	annotatorClient := annotator.NewClient(cfg.Annotator, log)

	reportSvc := service.NewReportService(reportRepo, annotatorClient, auditSvc, collector, log)
	trendSvc := service.NewTrendService(reportRepo, log)
	connectionSvc := service.NewConnectionService(connectionRepo, reportRepo, profileRepo, auditSvc, collector, log)
	authSvc := service.NewAuthService(userRepo, profileRepo, jwtManager, log)
	profileSvc := service.NewProfileService(profileRepo, log)

	router := v1.NewRouter(v1.RouterDeps{
		AuthSvc:       authSvc,
		ReportSvc:     reportSvc,
		TrendSvc:      trendSvc,
		ConnectionSvc: connectionSvc,
		ProfileSvc:    profileSvc,
		JWTManager:    jwtManager,
		Collector:     collector,
		CORS:          cfg.CORS,
		Log:           log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

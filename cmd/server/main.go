package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/marketing-survey/config"
	"github.com/ikkim/marketing-survey/internal/app/controller"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/ikkim/marketing-survey/internal/db"
	"github.com/ikkim/marketing-survey/internal/metrics"
	"github.com/ikkim/marketing-survey/internal/middleware"
	"github.com/ikkim/marketing-survey/internal/router"
	"github.com/ikkim/marketing-survey/internal/scheduler"
	"github.com/ikkim/marketing-survey/internal/storage"
	"github.com/ikkim/marketing-survey/internal/web"
	ws "github.com/ikkim/marketing-survey/internal/websocket"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"github.com/ikkim/marketing-survey/pkg/mailer"
	"github.com/ikkim/marketing-survey/pkg/push"
	"github.com/ikkim/marketing-survey/pkg/redis"
	"github.com/ikkim/marketing-survey/pkg/reporter"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting marketing survey server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", err, map[string]interface{}{
			"timezone": cfg.Server.Timezone,
		})
	}

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	errReporter, err := reporter.New(reporter.Options{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Server.Environment,
	})
	if err != nil {
		logger.Warn("Sentry disabled", map[string]interface{}{"error": err.Error()})
		errReporter = reporter.Nop{}
	}
	defer errReporter.Flush(2 * time.Second)

	m, err := metrics.NewDefault()
	if err != nil {
		logger.Fatal("Failed to register metrics", err)
	}

	// 제출 횟수 제한: Redis가 있으면 인스턴스 간 공유
	var rateLimiter middleware.RateLimiter
	if cfg.RateLimit.Submissions > 0 {
		if cfg.Redis.Enabled() {
			if err := redis.Init(&cfg.Redis); err != nil {
				logger.Warn("Redis unavailable, using in-memory rate limiter", map[string]interface{}{
					"error": err.Error(),
				})
			} else {
				defer redis.Close()
				counter := redis.NewWindowCounter(redis.GetClient(), "survey:ratelimit")
				rateLimiter = middleware.NewRedisRateLimiter(counter, cfg.RateLimit.Submissions, cfg.RateLimit.Window)
			}
		}
		if rateLimiter == nil {
			rateLimiter = middleware.NewMemoryRateLimiter(cfg.RateLimit.Submissions, cfg.RateLimit.Window)
		}
	}

	// SMTP 미설정 시 DevSender가 로그만 남긴다
	sender := mailer.NewSender(&cfg.SMTP)
	mailTemplates := web.MailTemplates(loc)

	hub := ws.NewHub(m)
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()

	opts := surveyServiceOptions(cfg)
	opts.Broadcaster = hub
	opts.Reporter = errReporter
	opts.Metrics = m
	if cfg.S3.Enabled() {
		opts.Archiver = storage.NewS3Archive(&cfg.S3)
	}
	if len(cfg.Push.URLs) > 0 {
		alerter, err := push.New(cfg.Push.URLs, 10*time.Second)
		if err != nil {
			logger.Warn("Push alerts disabled", map[string]interface{}{"error": err.Error()})
		} else {
			opts.Alerter = alerter
		}
	}

	// Initialize repositories
	surveyRepo := repository.NewSurveyRepository(db.GetDB())
	recipientRepo := repository.NewRecipientRepository(db.GetDB())

	// Initialize services
	notificationService := service.NewNotificationService(recipientRepo, sender, mailTemplates, errReporter, m)
	surveyService := service.NewSurveyService(surveyRepo, notificationService, opts)
	recipientService := service.NewRecipientService(recipientRepo)
	exportService := service.NewExportService(surveyRepo, loc, m)
	authService := service.NewAuthService(
		cfg.Admin.Username,
		cfg.Admin.PasswordHash,
		cfg.Admin.JWTSecret,
		cfg.Admin.TokenExpiry,
	)
	if cfg.Admin.PasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled", nil)
	}

	var digestScheduler *scheduler.DigestScheduler
	if cfg.Digest.Schedule != "" {
		digestService := service.NewDigestService(surveyRepo, recipientRepo, sender, mailTemplates, loc, m)
		digestScheduler = scheduler.NewDigestScheduler(digestService, cfg.Digest.Schedule, loc)
		if err := digestScheduler.Start(); err != nil {
			logger.Fatal("Failed to start digest scheduler", err, map[string]interface{}{
				"schedule": cfg.Digest.Schedule,
			})
		}
	}

	sqlDB, err := db.GetDB().DB()
	if err != nil {
		logger.Fatal("Failed to get database handle", err)
	}

	// Setup router
	r := router.NewRouter(
		controller.NewSurveyPageController(surveyService),
		controller.NewSurveyController(surveyService, exportService, loc),
		controller.NewRecipientController(recipientService),
		controller.NewAuthController(authService),
		controller.NewLiveFeedController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewAuthMiddleware(cfg.Admin.JWTSecret),
		rateLimiter,
		m,
		sqlDB,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	if digestScheduler != nil {
		digestScheduler.Stop()
	}
	// 비동기 알림이 끝날 때까지 대기
	surveyService.Wait()

	stopHub()
	<-hubDone

	logger.Info("Server stopped successfully")
}

// surveyServiceOptions 알림 방식 설정. 비동기 알림도 SMTP_TIMEOUT으로 제한한다.
func surveyServiceOptions(cfg *config.Config) service.SurveyServiceOptions {
	return service.SurveyServiceOptions{
		AsyncNotify:   cfg.Notification.Async,
		NotifyTimeout: cfg.SMTP.Timeout,
	}
}

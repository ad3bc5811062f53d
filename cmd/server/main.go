package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caxgpt/todo-api/config"
	"github.com/caxgpt/todo-api/internal/email"
	"github.com/caxgpt/todo-api/internal/health"
	"github.com/caxgpt/todo-api/internal/infrastructure/postgres"
	ctxlog "github.com/caxgpt/todo-api/internal/log"
	"github.com/caxgpt/todo-api/internal/metrics"
	"github.com/caxgpt/todo-api/internal/password"
	"github.com/caxgpt/todo-api/internal/reminder"
	"github.com/caxgpt/todo-api/internal/token"
	httptransport "github.com/caxgpt/todo-api/internal/transport/http"
	"github.com/caxgpt/todo-api/internal/transport/http/handler"
	"github.com/caxgpt/todo-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	todoRepo := postgres.NewTodoRepository(pool)

	hasher, err := password.NewHasher()
	if err != nil {
		stop()
		log.Fatalf("password hasher: %v", err)
	}

	codec, err := token.NewCodec(cfg.SecretKey, cfg.Algorithm)
	if err != nil {
		stop()
		log.Fatalf("token codec: %v", err)
	}

	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, codec, emailSender, cfg.AppBaseURL, usecase.AuthTTLs{
		Access:  cfg.AccessTTL(),
		Refresh: cfg.RefreshTTL(),
		Code:    cfg.TempCodeTTL(),
	})
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	todoUsecase := usecase.NewTodoUsecase(todoRepo)
	todoHandler := handler.NewTodoHandler(todoUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, todoHandler, codec),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	digest := reminder.New(userRepo, todoRepo, emailSender, logger)
	if err := digest.Start(cfg.ReminderCron); err != nil {
		stop()
		log.Fatalf("reminder: %v", err)
	}

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	digest.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventkeeper/reminder-service/internal/auth"
	"github.com/eventkeeper/reminder-service/internal/config"
	"github.com/eventkeeper/reminder-service/internal/notify"
	"github.com/eventkeeper/reminder-service/internal/repository"
	"github.com/eventkeeper/reminder-service/internal/scheduler"
	"github.com/eventkeeper/reminder-service/internal/server"
	"github.com/eventkeeper/reminder-service/internal/services"
	"github.com/eventkeeper/reminder-service/internal/store"
	"github.com/eventkeeper/reminder-service/internal/users"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	// Open the user directory
	directory, err := users.Open(cfg.Store.UsersDBPath, logger)
	if err != nil {
		logger.Fatal("Failed to open user directory", zap.Error(err))
	}
	defer directory.Close()

	// Event storage and services
	fileStore := store.NewFileStore(cfg.Store.EventsPath)
	repo := repository.NewEventRepository(fileStore, logger)
	eventService := services.NewEventService(repo, logger)
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	// Reminder notifications go to the log unless Redis is configured
	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("Error parsing Redis URL", zap.Error(err))
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		logger.Info("Connected to Redis", zap.String("url", cfg.Redis.URL))

		notifier = notify.NewRedisNotifier(redisClient, cfg.Redis.ReminderChannel, logger)
	}

	// Start the reminder sweep
	sweeper := scheduler.New(repo, notifier, cfg.Scheduler.SweepInterval, logger)
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go sweeper.Run(schedCtx)

	// Start server
	srv := server.New(cfg, eventService, directory, tokens, logger)

	go func() {
		logger.Info("Starting reminder service", zap.String("address", srv.Server.Addr))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "info":
		logLevel = zap.InfoLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return logger
}

package config

import (
	"os"
	"time"
)

type Config struct {
	Server struct {
		Host         string
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}
	JWT struct {
		Secret     string
		Expiration time.Duration
	}
	Store struct {
		EventsPath  string
		UsersDBPath string
	}
	Scheduler struct {
		SweepInterval time.Duration
	}
	Redis struct {
		URL             string
		ReminderChannel string
	}
	LogLevel string
}

func Load() *Config {
	cfg := &Config{}

	// Server configuration
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", "10s")
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", "10s")
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s")

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.Expiration = getEnvAsDuration("JWT_EXPIRATION", "1h")

	// Storage configuration
	cfg.Store.EventsPath = getEnv("EVENTS_PATH", "./data/events.json")
	cfg.Store.UsersDBPath = getEnv("USERS_DB_PATH", "./data/users.db")

	// Scheduler configuration
	cfg.Scheduler.SweepInterval = getEnvAsDuration("SWEEP_INTERVAL", "1m")

	// Redis configuration (empty URL means log-only notifications)
	cfg.Redis.URL = getEnv("REDIS_URL", "")
	cfg.Redis.ReminderChannel = getEnv("REMINDER_CHANNEL", "reminders")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	val := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0)
	}
	return duration
}

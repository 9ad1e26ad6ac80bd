package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	Store struct {
		// Backend selects the shared document store implementation:
		// "gorm" (embedded SQL) or "redis" (shared instance).
		Backend  string
		Driver   string // "sqlite" or "mysql", gorm backend only
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host string
		Port string
	}

	GenAI struct {
		Endpoint string
		Model    string
		APIKey   string
		Timeout  time.Duration
	}

	Sync struct {
		MessageInterval  time.Duration
		ActivityInterval time.Duration
	}
}

func New() *Config {
	cfg := &Config{}

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "clark_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Document store
	cfg.Store.Backend = getEnvDefault("STORE_BACKEND", "gorm")
	cfg.Store.Driver = getEnvDefault("STORE_DRIVER", "sqlite")
	cfg.Store.DSN = os.Getenv("STORE_DSN")
	if cfg.Store.DSN == "" {
		switch cfg.Store.Driver {
		case "mysql":
			cfg.Store.Host = getEnvDefault("DB_HOST", "localhost")
			cfg.Store.Port = getEnvDefault("DB_PORT", "3306")
			cfg.Store.User = getEnvDefault("DB_USER", "root")
			cfg.Store.Password = getEnvDefault("DB_PASSWORD", "root")
			cfg.Store.Name = getEnvDefault("DB_NAME", "clark")

			cfg.Store.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.Store.User, cfg.Store.Password, cfg.Store.Host, cfg.Store.Port, cfg.Store.Name,
			)
		default:
			cfg.Store.DSN = getEnvDefault("SQLITE_PATH", "clark.db")
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "127.0.0.1")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")

	// Generative-text collaborator
	cfg.GenAI.Endpoint = getEnvDefault("GENAI_ENDPOINT", "https://generativelanguage.googleapis.com")
	cfg.GenAI.Model = getEnvDefault("GENAI_MODEL", "gemini-3-flash-preview")
	cfg.GenAI.APIKey = os.Getenv("GENAI_API_KEY")
	cfg.GenAI.Timeout = getEnvDuration("GENAI_TIMEOUT", 8*time.Second)

	// Sync pollers. Cross-party visibility is bounded by these intervals;
	// they are the documented freshness SLA, not tuning knobs.
	cfg.Sync.MessageInterval = getEnvDuration("SYNC_MESSAGE_INTERVAL", 2*time.Second)
	cfg.Sync.ActivityInterval = getEnvDuration("SYNC_ACTIVITY_INTERVAL", 3*time.Second)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

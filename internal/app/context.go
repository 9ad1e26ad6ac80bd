package app

import (
	"log/slog"

	"github.com/clarkhq/clark-server/internal/cache"
	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/genai"
	"github.com/clarkhq/clark-server/internal/store"
)

// AppContext holds shared dependencies (document store, cache, collaborator
// client, logger).
type AppContext struct {
	Cfg    *config.Config
	Docs   store.DocumentStore
	Cache  *cache.RedisCache
	GenAI  *genai.Client
	Logger *slog.Logger
}

// New creates a new AppContext
func New(cfg *config.Config, docs store.DocumentStore, rdb *cache.RedisCache, ai *genai.Client, logger *slog.Logger) *AppContext {
	return &AppContext{
		Cfg:    cfg,
		Docs:   docs,
		Cache:  rdb,
		GenAI:  ai,
		Logger: logger,
	}
}

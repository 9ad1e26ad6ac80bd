package main

import (
	"context"

	"github.com/clarkhq/clark-server/internal/app"
	"github.com/clarkhq/clark-server/internal/cache"
	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/db"
	"github.com/clarkhq/clark-server/internal/genai"
	"github.com/clarkhq/clark-server/internal/logger"
	"github.com/clarkhq/clark-server/internal/server"
	"github.com/clarkhq/clark-server/internal/service/chatapi"
	"github.com/clarkhq/clark-server/internal/service/discovery"
	"github.com/clarkhq/clark-server/internal/store"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init shared document store
	var docs store.DocumentStore
	switch cfg.Store.Backend {
	case "redis":
		rs := store.NewRedisStore(cfg)
		if err := rs.Ping(context.Background()); err != nil {
			log.Error("failed to connect to redis store", "err", err)
			return
		}
		docs = rs
	default:
		database, err := db.NewDB(cfg)
		if err != nil {
			log.Error("failed to init db", "err", err)
			return
		}
		docs = store.NewGormStore(database)
	}

	// Init counter cache. Advisory only: when redis is unreachable the
	// activity endpoint falls back to the store on every call.
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Warn("redis cache unavailable, activity counts uncached", "err", err)
		redisCache = nil
	}

	appCtx := app.New(cfg, docs, redisCache, genai.NewClient(cfg), log)

	registrars := []server.Registrar{
		discovery.NewRegistrar(appCtx),
		chatapi.NewRegistrar(appCtx),
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr, "store", cfg.Store.Backend)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}

package main

import (
	"context"

	"github.com/clarkhq/clark-server/internal/chat"
	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/db"
	"github.com/clarkhq/clark-server/internal/logger"
	"github.com/clarkhq/clark-server/internal/match"
	"github.com/clarkhq/clark-server/internal/profile"
	"github.com/clarkhq/clark-server/internal/store"
)

// Seeds the document store with two demo members who already matched and
// exchanged a couple of messages, on top of the built-in seed pool.
func main() {
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx := context.Background()

	var docs store.DocumentStore
	switch cfg.Store.Backend {
	case "redis":
		rs := store.NewRedisStore(cfg)
		if err := rs.Ping(ctx); err != nil {
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

	if err := docs.Delete(ctx, store.KeyCustomPool); err != nil {
		log.Error("failed to reset custom pool", "err", err)
		return
	}

	profiles := profile.NewStore(docs)
	chats := chat.NewStore(docs)

	ana := profile.FromDraft(profile.Draft{
		Name:      "Ana",
		Age:       27,
		Bio:       "Weekend climber, weekday barista. Ask me about my sourdough starter.",
		Interests: []string{"Climbing", "Coffee", "Baking"},
		Photos:    []string{"https://picsum.photos/seed/ana/400/600"},
		Location:  "Portland, OR",
	})
	ben := profile.FromDraft(profile.Draft{
		Name:      "Ben",
		Age:       29,
		Bio:       "Touring cyclist with a soft spot for roadside diners.",
		Interests: []string{"Cycling", "Photography", "Coffee"},
		Photos:    []string{"https://picsum.photos/seed/ben/400/600"},
		Location:  "Portland, OR",
	})

	for _, p := range []profile.Profile{ana, ben} {
		if err := profiles.UpsertSelf(ctx, p); err != nil {
			log.Error("failed to seed member", "name", p.Name, "err", err)
			return
		}
	}

	if _, err := profiles.RecordLike(ctx, ana.ID, ben.ID); err != nil {
		log.Error("failed to seed like", "err", err)
		return
	}
	if _, err := profiles.RecordLike(ctx, ben.ID, ana.ID); err != nil {
		log.Error("failed to seed like", "err", err)
		return
	}

	pairKey := match.PairKey(ana.ID, ben.ID)
	if err := docs.Delete(ctx, store.ConversationKey(pairKey)); err != nil {
		log.Error("failed to reset conversation", "pair_key", pairKey, "err", err)
		return
	}

	for _, line := range []struct {
		sender string
		text   string
	}{
		{ana.ID, "Hey! I saw you're into coffee too. Best cup in town?"},
		{ben.ID, "Easy, the cart on Alder. Have you tried it?"},
	} {
		msg, err := chat.NewMessage(line.sender, line.text)
		if err != nil {
			log.Error("failed to build seed message", "err", err)
			return
		}
		if _, err := chats.Append(ctx, pairKey, msg); err != nil {
			log.Error("failed to seed message", "pair_key", pairKey, "err", err)
			return
		}
	}

	log.Info("seed complete", "members", 2, "pair_key", pairKey)
}

// Package engine binds one viewer to the shared stores and exposes the
// view-facing surface of the core: create profile, like, send message,
// subscribe to match list changes, and open a polled conversation view.
// Everything a UI needs, nothing it should compute itself.
package engine

import (
	"context"
	"time"

	"github.com/clarkhq/clark-server/internal/chat"
	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/errors"
	"github.com/clarkhq/clark-server/internal/match"
	"github.com/clarkhq/clark-server/internal/profile"
	"github.com/clarkhq/clark-server/internal/store"
	enginesync "github.com/clarkhq/clark-server/internal/sync"
)

// Session is one viewer's live handle on the engine. Pollers started from a
// session are scoped to the context passed in and stop when it is
// cancelled; a closed view must never leave a loop running.
type Session struct {
	profiles *profile.Store
	chats    *chat.Store
	matches  *match.Service

	messageInterval  time.Duration
	activityInterval time.Duration
}

// NewSession wires a session over the shared document store.
func NewSession(docs store.DocumentStore, cfg *config.Config) *Session {
	profiles := profile.NewStore(docs)
	return &Session{
		profiles:         profiles,
		chats:            chat.NewStore(docs),
		matches:          match.NewService(profiles),
		messageInterval:  cfg.Sync.MessageInterval,
		activityInterval: cfg.Sync.ActivityInterval,
	}
}

// CreateProfile validates the onboarding draft, persists the new member and
// installs them as this session's viewer.
func (s *Session) CreateProfile(ctx context.Context, d profile.Draft) (profile.Profile, error) {
	if err := profile.ValidateDraft(d); err != nil {
		return profile.Profile{}, err
	}
	p := profile.FromDraft(d)
	if err := s.profiles.UpsertSelf(ctx, p); err != nil {
		return profile.Profile{}, err
	}
	if err := s.matches.Refresh(ctx); err != nil {
		return profile.Profile{}, err
	}
	s.matches.SetViewer(p)
	return p, nil
}

// Resume installs an existing member as the viewer (returning session).
func (s *Session) Resume(ctx context.Context, viewerID string) (profile.Profile, error) {
	p, err := s.profiles.LoadSelf(ctx, viewerID)
	if err != nil {
		return profile.Profile{}, err
	}
	if err := s.matches.Refresh(ctx); err != nil {
		return profile.Profile{}, err
	}
	s.matches.SetViewer(p)
	return p, nil
}

// Like records viewer -> target; reports whether it completed a mutual
// match. The match list update is synchronous, not deferred to a poll.
func (s *Session) Like(ctx context.Context, targetID string) (bool, error) {
	return s.matches.Like(ctx, targetID)
}

// OnMatchListChanged subscribes fn to match list recomputations.
func (s *Session) OnMatchListChanged(fn func([]match.Match)) {
	s.matches.Subscribe(fn)
}

// Matches returns the current match list.
func (s *Session) Matches() []match.Match { return s.matches.Matches() }

// Discover returns the available-to-discover profiles for the viewer.
func (s *Session) Discover() []profile.Profile { return s.matches.Discover() }

// Refresh re-reads the pool so likes recorded by other processes become
// visible.
func (s *Session) Refresh(ctx context.Context) error { return s.matches.Refresh(ctx) }

// SendMessage validates, stamps and appends a message from the viewer to
// the pair's conversation, returning the new message list.
func (s *Session) SendMessage(ctx context.Context, pairKey, text string) ([]chat.Message, error) {
	viewer := s.matches.Viewer()
	if viewer.ID == "" {
		return nil, errors.Validation("session has no viewer")
	}
	msg, err := chat.NewMessage(viewer.ID, text)
	if err != nil {
		return nil, err
	}
	return s.chats.Append(ctx, pairKey, msg)
}

// OpenConversation starts the conversation poller for an open chat view.
// fn receives the reconciled message list on every change; cancelling ctx
// stops the poller. The returned done channel closes once the loop exits.
func (s *Session) OpenConversation(ctx context.Context, pairKey string, fn func([]chat.Message)) <-chan struct{} {
	poller := enginesync.NewConversationPoller(s.chats, pairKey, fn)
	return poller.Start(ctx, s.messageInterval)
}

// StartActivity starts the advisory activity poller over the current match
// list. fn receives a pairKey -> message count map every cycle; cancelling
// ctx stops it.
func (s *Session) StartActivity(ctx context.Context, fn func(map[string]int)) <-chan struct{} {
	poller := enginesync.NewActivityPoller(s.chats, nil, s.matches.Matches, fn)
	return poller.Start(ctx, s.activityInterval)
}

package chatapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clarkhq/clark-server/internal/app"
	"github.com/clarkhq/clark-server/internal/chat"
	svcErr "github.com/clarkhq/clark-server/internal/errors"
	"github.com/clarkhq/clark-server/internal/match"
	"github.com/clarkhq/clark-server/internal/profile"
	"github.com/clarkhq/clark-server/internal/server"
)

// Service implements the conversation HTTP API. Clients poll
// GET /conversations/{pairKey} on their own timer; the server holds no
// per-client poller state.
type Service struct {
	appCtx   *app.AppContext
	profiles *profile.Store
	chats    *chat.Store
}

// NewService creates a chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: profile.NewStore(appCtx.Docs),
		chats:    chat.NewStore(appCtx.Docs),
	}
}

// GetConversation handles GET /conversations/{pairKey}: the full message
// list, empty for unknown keys.
func (s *Service) GetConversation(w http.ResponseWriter, r *http.Request) {
	pairKey := mux.Vars(r)["pairKey"]
	msgs, err := s.chats.Read(r.Context(), pairKey)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	server.WriteJSON(w, http.StatusOK, msgs)
}

type sendRequest struct {
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

// SendMessage handles POST /conversations/{pairKey}/messages: validates,
// stamps and appends one message, returning the new list.
func (s *Service) SendMessage(w http.ResponseWriter, r *http.Request) {
	pairKey := mux.Vars(r)["pairKey"]

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, svcErr.Validation("invalid request body"))
		return
	}

	msg, err := chat.NewMessage(req.SenderID, req.Text)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	msgs, err := s.chats.Append(r.Context(), pairKey, msg)
	if err != nil {
		s.appCtx.Logger.Error("failed to append message", "pair_key", pairKey, "err", err)
		server.WriteError(w, err)
		return
	}

	s.appCtx.Logger.Debug("message appended", "pair_key", pairKey, "sender", req.SenderID, "count", len(msgs))
	server.WriteJSON(w, http.StatusCreated, msgs)
}

// GetActivity handles GET /activity/{viewerId}: advisory message counts per
// match. Cache-first strategy:
//  1. Attempts to read from Redis (activity:count:<pairKey>).
//  2. On cache miss, falls back to the conversation document.
//  3. On fallback, refreshes Redis so the next poll is cheap.
func (s *Service) GetActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, err := s.profiles.LoadSelf(ctx, mux.Vars(r)["viewerId"])
	if err != nil {
		server.WriteError(w, err)
		return
	}
	pool, err := s.profiles.Load(ctx)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	counts := make(map[string]int64)
	for _, m := range match.MatchesFor(viewer, pool) {
		if s.appCtx.Cache != nil {
			if n, found, err := s.appCtx.Cache.GetActivityCount(ctx, m.ID); err == nil && found {
				counts[m.ID] = n
				continue
			}
		}

		n, err := s.chats.Count(ctx, m.ID)
		if err != nil {
			s.appCtx.Logger.Warn("failed to count conversation", "pair_key", m.ID, "err", err)
			continue
		}
		counts[m.ID] = int64(n)
		if s.appCtx.Cache != nil {
			_ = s.appCtx.Cache.UpdateActivityCount(ctx, m.ID, int64(n))
		}
	}

	server.WriteJSON(w, http.StatusOK, counts)
}

type icebreakerRequest struct {
	ViewerID string `json:"viewerId"`
	OtherID  string `json:"otherId"`
}

// GenerateIcebreaker handles POST /icebreaker: a suggested first message
// from the collaborator, with a static fallback when it is unavailable.
func (s *Service) GenerateIcebreaker(w http.ResponseWriter, r *http.Request) {
	var req icebreakerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, svcErr.Validation("invalid request body"))
		return
	}

	ctx := r.Context()
	viewer, err := s.profiles.LoadSelf(ctx, req.ViewerID)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	other, err := s.profiles.LoadSelf(ctx, req.OtherID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	text := s.appCtx.GenAI.GenerateIcebreaker(ctx, viewer, other)
	server.WriteJSON(w, http.StatusOK, map[string]string{"icebreaker": text})
}

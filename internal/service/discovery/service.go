package discovery

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

// Service implements the discovery/matching HTTP API: onboarding, the
// available-to-discover list, likes and the derived match list. Stateless
// between requests; every response is recomputed from the shared store.
type Service struct {
	appCtx   *app.AppContext
	profiles *profile.Store
	chats    *chat.Store
}

// NewService creates a discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: profile.NewStore(appCtx.Docs),
		chats:    chat.NewStore(appCtx.Docs),
	}
}

// CreateProfile handles POST /profiles: validates the onboarding draft and
// persists the new member at the head of the custom pool.
func (s *Service) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var d profile.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		server.WriteError(w, svcErr.Validation("invalid request body"))
		return
	}
	if err := profile.ValidateDraft(d); err != nil {
		server.WriteError(w, err)
		return
	}

	p := profile.FromDraft(d)
	if err := s.profiles.UpsertSelf(r.Context(), p); err != nil {
		s.appCtx.Logger.Error("failed to persist profile", "err", err)
		server.WriteError(w, err)
		return
	}

	s.appCtx.Logger.Info("profile created", "id", p.ID, "name", p.Name)
	server.WriteJSON(w, http.StatusCreated, p)
}

// GetProfile handles GET /profiles/{id}.
func (s *Service) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := s.profiles.LoadSelf(r.Context(), id)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, p)
}

// Discover handles GET /discovery/{viewerId}: the pool minus the viewer
// and everyone the viewer already liked. Passed-but-not-liked profiles
// reappear here; only likes persist.
func (s *Service) Discover(w http.ResponseWriter, r *http.Request) {
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

	available := match.DiscoverFor(viewer, pool)
	if available == nil {
		available = []profile.Profile{}
	}
	server.WriteJSON(w, http.StatusOK, available)
}

type likeRequest struct {
	ViewerID string `json:"viewerId"`
	TargetID string `json:"targetId"`
}

type likeResponse struct {
	Mutual  bool          `json:"mutual"`
	Matches []match.Match `json:"matches"`
}

// PutLike handles PUT /likes: records viewer -> target and returns the
// recomputed match list in the same response, so a like that completes a
// mutual pair is observable immediately, never a poll cycle later.
func (s *Service) PutLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, svcErr.Validation("invalid request body"))
		return
	}
	if req.ViewerID == "" || req.TargetID == "" {
		server.WriteError(w, svcErr.Validation("viewerId and targetId are required"))
		return
	}

	ctx := r.Context()
	viewer, err := s.profiles.RecordLike(ctx, req.ViewerID, req.TargetID)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	matches, err := s.matchesWithPreviews(r, viewer)
	if err != nil {
		server.WriteError(w, err)
		return
	}

	resp := likeResponse{Matches: matches}
	for _, m := range matches {
		if m.OtherID == req.TargetID {
			resp.Mutual = true
			break
		}
	}

	s.appCtx.Logger.Debug("like recorded", "viewer", req.ViewerID, "target", req.TargetID, "mutual", resp.Mutual)
	server.WriteJSON(w, http.StatusOK, resp)
}

// GetMatches handles GET /matches/{viewerId}: the viewer's current mutual
// matches, in pool order, each with a last-message preview.
func (s *Service) GetMatches(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.profiles.LoadSelf(r.Context(), mux.Vars(r)["viewerId"])
	if err != nil {
		server.WriteError(w, err)
		return
	}
	matches, err := s.matchesWithPreviews(r, viewer)
	if err != nil {
		server.WriteError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, matches)
}

func (s *Service) matchesWithPreviews(r *http.Request, viewer profile.Profile) ([]match.Match, error) {
	ctx := r.Context()
	pool, err := s.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}

	matches := match.MatchesFor(viewer, pool)
	for i, m := range matches {
		msgs, err := s.chats.Read(ctx, m.ID)
		if err != nil {
			// preview only; the match list must not fail for it
			s.appCtx.Logger.Warn("failed to read conversation preview", "pair_key", m.ID, "err", err)
			continue
		}
		if len(msgs) > 0 {
			matches[i].LastMessage = msgs[len(msgs)-1].Text
		}
	}
	if matches == nil {
		matches = []match.Match{}
	}
	return matches, nil
}

type bioRequest struct {
	Interests []string `json:"interests"`
}

// GenerateBio handles POST /bio: delegates to the generative-text
// collaborator, falling back to a static bio when it is unavailable.
func (s *Service) GenerateBio(w http.ResponseWriter, r *http.Request) {
	var req bioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, svcErr.Validation("invalid request body"))
		return
	}
	bio := s.appCtx.GenAI.GenerateBio(r.Context(), req.Interests)
	server.WriteJSON(w, http.StatusOK, map[string]string{"bio": bio})
}

type pairRequest struct {
	ViewerID string `json:"viewerId"`
	OtherID  string `json:"otherId"`
}

// AnalyzeCompatibility handles POST /compatibility.
func (s *Service) AnalyzeCompatibility(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
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

	server.WriteJSON(w, http.StatusOK, s.appCtx.GenAI.AnalyzeCompatibility(ctx, viewer, other))
}

package match

import (
	"context"
	"slices"
	"sync"

	"github.com/clarkhq/clark-server/internal/logger"
	"github.com/clarkhq/clark-server/internal/profile"
)

// Service recomputes the viewer's match list whenever the viewer or the
// pool changes and publishes it to subscribers (match list view, badge
// count, chat routing).
//
// The like-write and the match recomputation happen in the same call:
// liking someone who already liked the viewer surfaces the match in the
// returned list immediately, never after a poll cycle.
type Service struct {
	profiles *profile.Store

	mu      sync.Mutex
	viewer  profile.Profile
	pool    []profile.Profile
	matches []Match
	subs    []func([]Match)
}

// NewService creates a matching service over the given profile store.
func NewService(profiles *profile.Store) *Service {
	return &Service{profiles: profiles}
}

// Subscribe registers fn for match list updates. fn is called immediately
// with the current list, then on every recomputation.
func (s *Service) Subscribe(fn func([]Match)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	current := slices.Clone(s.matches)
	s.mu.Unlock()
	fn(current)
}

// SetViewer installs the viewer and recomputes.
func (s *Service) SetViewer(v profile.Profile) {
	s.mu.Lock()
	s.viewer = v
	s.recomputeLocked()
	s.mu.Unlock()
	s.publish()
}

// SetPool installs a new pool snapshot and recomputes.
func (s *Service) SetPool(pool []profile.Profile) {
	s.mu.Lock()
	s.pool = pool
	// keep the viewer's pool entry authoritative for its own likes
	if i := slices.IndexFunc(s.pool, func(p profile.Profile) bool { return p.ID == s.viewer.ID }); i >= 0 {
		s.viewer = s.pool[i]
	}
	s.recomputeLocked()
	s.mu.Unlock()
	s.publish()
}

// Refresh reloads the pool from the store and recomputes. This is how
// likes recorded by other processes become visible.
func (s *Service) Refresh(ctx context.Context) error {
	pool, err := s.profiles.Load(ctx)
	if err != nil {
		return err
	}
	s.SetPool(pool)
	return nil
}

// Viewer returns the current viewer snapshot.
func (s *Service) Viewer() profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}

// Matches returns the current match list.
func (s *Service) Matches() []Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.matches)
}

// Discover returns the available-to-discover subset for the current viewer.
func (s *Service) Discover() []profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DiscoverFor(s.viewer, s.pool)
}

// Like records viewer -> target and recomputes in the same step. Returns
// whether the like completed a mutual match.
func (s *Service) Like(ctx context.Context, targetID string) (bool, error) {
	s.mu.Lock()
	viewerID := s.viewer.ID
	s.mu.Unlock()

	updated, err := s.profiles.RecordLike(ctx, viewerID, targetID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.viewer = updated
	if i := slices.IndexFunc(s.pool, func(p profile.Profile) bool { return p.ID == viewerID }); i >= 0 {
		s.pool[i] = updated
	}
	s.recomputeLocked()
	mutual := slices.ContainsFunc(s.matches, func(m Match) bool { return m.OtherID == targetID })
	s.mu.Unlock()
	s.publish()

	if mutual {
		logger.Debug("instant mutual match", "viewer", viewerID, "other", targetID)
	}
	return mutual, nil
}

func (s *Service) recomputeLocked() {
	s.matches = MatchesFor(s.viewer, s.pool)
}

func (s *Service) publish() {
	s.mu.Lock()
	subs := slices.Clone(s.subs)
	current := slices.Clone(s.matches)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(current)
	}
}

package match

import (
	"github.com/clarkhq/clark-server/internal/profile"
)

// Match is a mutual-like pair seen from one viewer's side. It is a view,
// recomputed from the pool on every observation, never stored.
type Match struct {
	ID          string          `json:"id"`
	OtherID     string          `json:"otherId"`
	Profile     profile.Profile `json:"profile"`
	LastMessage string          `json:"lastMessage,omitempty"`
}

// MatchesFor derives the viewer's matches from the pool: p matches the
// viewer iff each appears in the other's liked set. Output order is pool
// order; callers may rely on it being stable.
func MatchesFor(viewer profile.Profile, pool []profile.Profile) []Match {
	var matches []Match
	for _, p := range pool {
		if p.ID == viewer.ID {
			continue
		}
		if p.HasLiked(viewer.ID) && viewer.HasLiked(p.ID) {
			matches = append(matches, Match{
				ID:      PairKey(viewer.ID, p.ID),
				OtherID: p.ID,
				Profile: p,
			})
		}
	}
	return matches
}

// DiscoverFor filters the pool down to profiles the viewer can still
// evaluate: not the viewer, not anyone already liked. Passing on a profile
// persists nothing, so passed profiles reappear on the next refresh.
func DiscoverFor(viewer profile.Profile, pool []profile.Profile) []profile.Profile {
	var available []profile.Profile
	for _, p := range pool {
		if p.ID == viewer.ID || viewer.HasLiked(p.ID) {
			continue
		}
		available = append(available, p)
	}
	return available
}

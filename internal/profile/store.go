package profile

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"slices"

	"github.com/clarkhq/clark-server/internal/errors"
	"github.com/clarkhq/clark-server/internal/logger"
	"github.com/clarkhq/clark-server/internal/store"
)

// Store manages the community pool: the fixed seed set unioned with locally
// created members, persisted in the shared document store.
//
// Only the custom (non-seed) subset is ever written back; the seed set is
// compiled in and would otherwise grow storage with static data.
type Store struct {
	docs store.DocumentStore
}

// NewStore creates a profile store over the given document store.
func NewStore(docs store.DocumentStore) *Store {
	return &Store{docs: docs}
}

// Load returns the community pool: custom profiles first (newest at the
// head), then the seed set. Seed entries win on id collision.
//
// A malformed pool:custom document degrades to the bare seed set; corruption
// must never block startup.
func (s *Store) Load(ctx context.Context) ([]Profile, error) {
	custom := s.loadCustom(ctx)

	pool := make([]Profile, 0, len(custom)+len(SeedProfiles))
	seen := make(map[string]struct{}, len(custom))
	for _, p := range custom {
		if IsSeedID(p.ID) {
			continue // seed ids are reserved
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		pool = append(pool, p)
	}
	pool = append(pool, SeedProfiles...)
	return pool, nil
}

// loadCustom reads the persisted custom subset, failing open to empty.
func (s *Store) loadCustom(ctx context.Context) []Profile {
	body, err := s.docs.Get(ctx, store.KeyCustomPool)
	if err != nil {
		if !goerrors.Is(err, store.ErrNotFound) {
			logger.Warn("failed to read custom pool, using seed set only", "err", err)
		}
		return nil
	}

	var custom []Profile
	if err := json.Unmarshal(body, &custom); err != nil {
		logger.Warn("custom pool document is malformed, using seed set only", "err", err)
		return nil
	}
	return custom
}

// UpsertSelf inserts a newly onboarded profile at the head of the custom
// set. Seed ids and already-present ids are no-ops for the pool document;
// the profile:self document is refreshed either way for non-seed ids.
func (s *Store) UpsertSelf(ctx context.Context, p Profile) error {
	if IsSeedID(p.ID) {
		return nil
	}

	custom := s.loadCustom(ctx)
	exists := slices.ContainsFunc(custom, func(c Profile) bool { return c.ID == p.ID })
	if !exists {
		custom = append([]Profile{p}, custom...)
		if err := s.writeCustom(ctx, custom); err != nil {
			return err
		}
	}

	return s.writeSelf(ctx, p)
}

// RecordLike appends targetID to the viewer's liked set and persists the
// custom subset. Idempotent: liking twice leaves a single entry. Returns
// the updated viewer profile.
//
// When the viewer is a seed profile the updated likes live only in the
// returned value and the caller's in-memory pool; seed rows are never
// persisted.
func (s *Store) RecordLike(ctx context.Context, viewerID, targetID string) (Profile, error) {
	if viewerID == targetID {
		return Profile{}, errors.Validation("cannot like yourself")
	}

	pool, err := s.Load(ctx)
	if err != nil {
		return Profile{}, err
	}

	vi := slices.IndexFunc(pool, func(p Profile) bool { return p.ID == viewerID })
	if vi < 0 {
		return Profile{}, errors.NotFound(fmt.Sprintf("profile %s", viewerID))
	}
	if !slices.ContainsFunc(pool, func(p Profile) bool { return p.ID == targetID }) {
		return Profile{}, errors.NotFound(fmt.Sprintf("profile %s", targetID))
	}

	viewer := pool[vi]
	if !viewer.HasLiked(targetID) {
		viewer.LikedIds = append(viewer.LikedIds, targetID)
		pool[vi] = viewer

		custom := make([]Profile, 0, len(pool))
		for _, p := range pool {
			if !IsSeedID(p.ID) {
				custom = append(custom, p)
			}
		}
		if err := s.writeCustom(ctx, custom); err != nil {
			return Profile{}, err
		}
		if !IsSeedID(viewer.ID) {
			if err := s.writeSelf(ctx, viewer); err != nil {
				return Profile{}, err
			}
		}
	}

	return viewer, nil
}

// LoadSelf resolves the viewer's profile, preferring the pool copy (it
// carries likes recorded by this and other processes) over the private
// profile:self document.
func (s *Store) LoadSelf(ctx context.Context, id string) (Profile, error) {
	pool, err := s.Load(ctx)
	if err != nil {
		return Profile{}, err
	}
	if i := slices.IndexFunc(pool, func(p Profile) bool { return p.ID == id }); i >= 0 {
		return pool[i], nil
	}

	body, err := s.docs.Get(ctx, store.SelfKey(id))
	if err != nil {
		return Profile{}, errors.NotFound(fmt.Sprintf("profile %s", id))
	}
	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		logger.Warn("self profile document is malformed", "id", id, "err", err)
		return Profile{}, errors.NotFound(fmt.Sprintf("profile %s", id))
	}
	return p, nil
}

func (s *Store) writeCustom(ctx context.Context, custom []Profile) error {
	body, err := json.Marshal(custom)
	if err != nil {
		return fmt.Errorf("marshal custom pool: %w", err)
	}
	return s.docs.Put(ctx, store.KeyCustomPool, body)
}

func (s *Store) writeSelf(ctx context.Context, p Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal self profile: %w", err)
	}
	return s.docs.Put(ctx, store.SelfKey(p.ID), body)
}

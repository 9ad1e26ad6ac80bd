package profile

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/clarkhq/clark-server/internal/errors"
)

// Profile is one community member. The JSON shape is the stored document
// shape; both server processes and any seeded data must agree on it.
//
// LikedIds is append-only: likes are permanent, retraction ("unmatching")
// is not supported anywhere in the engine.
type Profile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
	Photos    []string `json:"photos"`
	Location  string   `json:"location"`
	Distance  float64  `json:"distance,omitempty"`
	LikedIds  []string `json:"likedIds,omitempty"`
}

// HasLiked reports whether p has liked the given profile id.
func (p *Profile) HasLiked(id string) bool {
	return slices.Contains(p.LikedIds, id)
}

// Draft is the onboarding form payload for a new member.
type Draft struct {
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
	Photos    []string `json:"photos"`
	Location  string   `json:"location"`
	Distance  float64  `json:"distance,omitempty"`
}

// ValidateDraft rejects incomplete onboarding payloads at the boundary,
// before anything reaches the stores.
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.Validation("name must not be empty")
	}
	if d.Age < 18 {
		return errors.Validation("age must be at least 18")
	}
	if len(d.Photos) == 0 {
		return errors.Validation("at least one photo is required")
	}
	if len(d.Interests) == 0 {
		return errors.Validation("at least one interest is required")
	}
	return nil
}

// NewID mints an opaque member id. Seed ids are short and reserved; minted
// ids carry a prefix so the two can never collide.
func NewID() string {
	return "user_" + uuid.NewString()
}

// FromDraft builds a Profile from a validated draft with a fresh id and an
// empty liked set.
func FromDraft(d Draft) Profile {
	return Profile{
		ID:        NewID(),
		Name:      strings.TrimSpace(d.Name),
		Age:       d.Age,
		Bio:       d.Bio,
		Interests: d.Interests,
		Photos:    d.Photos,
		Location:  d.Location,
		Distance:  d.Distance,
		LikedIds:  []string{},
	}
}

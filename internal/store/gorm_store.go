package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clarkhq/clark-server/internal/db"
)

// GormStore persists documents in a SQL table via gorm. The primary-key
// upsert gives the overwrite guarantee: one row per document key.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store bound to the given DB connection.
func NewGormStore(database *gorm.DB) *GormStore {
	return &GormStore{db: database}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc db.Document
	err := s.db.WithContext(ctx).First(&doc, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("document %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", key, err)
	}
	return doc.Body, nil
}

func (s *GormStore) Put(ctx context.Context, key string, body []byte) error {
	doc := db.Document{Key: key, Body: body}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&db.Document{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}

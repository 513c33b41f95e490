package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SKR-SG/ASP/internal/entity"
)

// LogistStore is the local cache of logistician -> marketplace contact id
// mappings.
type LogistStore struct {
	db *gorm.DB
}

// NewLogistStore creates a LogistStore on an existing connection.
func NewLogistStore(db *gorm.DB) *LogistStore {
	return &LogistStore{db: db}
}

// FindByName matches a logistician by case-insensitive substring and
// returns (nil, nil) when no row matches.
func (s *LogistStore) FindByName(ctx context.Context, name string) (*entity.Logist, error) {
	var logist entity.Logist
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	err := s.db.WithContext(ctx).Where("LOWER(name) LIKE ?", pattern).First(&logist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find logist: %w", err)
	}
	return &logist, nil
}

// List returns all known logisticians.
func (s *LogistStore) List(ctx context.Context) ([]entity.Logist, error) {
	var logists []entity.Logist
	if err := s.db.WithContext(ctx).Find(&logists).Error; err != nil {
		return nil, fmt.Errorf("failed to list logists: %w", err)
	}
	return logists, nil
}

// Upsert inserts or refreshes a mapping keyed by contact id.
func (s *LogistStore) Upsert(ctx context.Context, name string, contactID int64) error {
	var existing entity.Logist
	err := s.db.WithContext(ctx).Where("contact_id = ?", contactID).First(&existing).Error
	switch {
	case err == nil:
		existing.Name = name
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update logist: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		logist := entity.Logist{Name: name, ContactID: contactID}
		if err := s.db.WithContext(ctx).Create(&logist).Error; err != nil {
			return fmt.Errorf("failed to create logist: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to upsert logist: %w", err)
	}
}

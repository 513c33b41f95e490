package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SKR-SG/ASP/internal/entity"
)

// PlatformStore holds the per-source sync gates.
type PlatformStore struct {
	db *gorm.DB
}

// NewPlatformStore creates a PlatformStore on an existing connection.
func NewPlatformStore(db *gorm.DB) *PlatformStore {
	return &PlatformStore{db: db}
}

// Enabled reports whether syncing is switched on for the named platform.
// An unknown platform is treated as disabled.
func (s *PlatformStore) Enabled(ctx context.Context, name string) (bool, error) {
	var platform entity.Platform
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&platform).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get platform: %w", err)
	}
	return platform.Enabled, nil
}

// ListEnabled returns the names of all platforms with syncing switched on.
func (s *PlatformStore) ListEnabled(ctx context.Context) ([]string, error) {
	var platforms []entity.Platform
	err := s.db.WithContext(ctx).Where("enabled = ?", true).Find(&platforms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name)
	}
	return names, nil
}

// List returns all platforms.
func (s *PlatformStore) List(ctx context.Context) ([]entity.Platform, error) {
	var platforms []entity.Platform
	if err := s.db.WithContext(ctx).Find(&platforms).Error; err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	return platforms, nil
}

// GetByID returns one platform or (nil, nil) when missing.
func (s *PlatformStore) GetByID(ctx context.Context, id int64) (*entity.Platform, error) {
	var platform entity.Platform
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&platform).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform: %w", err)
	}
	return &platform, nil
}

// Create inserts a new platform.
func (s *PlatformStore) Create(ctx context.Context, platform *entity.Platform) error {
	if err := s.db.WithContext(ctx).Create(platform).Error; err != nil {
		return fmt.Errorf("failed to create platform: %w", err)
	}
	return nil
}

// Save writes a platform back in full.
func (s *PlatformStore) Save(ctx context.Context, platform *entity.Platform) error {
	if err := s.db.WithContext(ctx).Save(platform).Error; err != nil {
		return fmt.Errorf("failed to save platform: %w", err)
	}
	return nil
}

// Delete removes a platform by id.
func (s *PlatformStore) Delete(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Platform{}).Error; err != nil {
		return fmt.Errorf("failed to delete platform: %w", err)
	}
	return nil
}

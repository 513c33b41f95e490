package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SKR-SG/ASP/internal/entity"
)

// RuleStore reads and maintains distribution rules. The engine only reads;
// the CRUD methods serve the API surface.
type RuleStore struct {
	db *gorm.DB
}

// NewRuleStore creates a RuleStore on an existing connection.
func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

// ListByPlatform returns the rule set for one platform. The cascade over
// city wildcards is evaluated in memory by the rules matcher.
func (s *RuleStore) ListByPlatform(ctx context.Context, platform string) ([]entity.DistributionRule, error) {
	var rules []entity.DistributionRule
	err := s.db.WithContext(ctx).Where("platform = ?", platform).Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

// List returns all rules.
func (s *RuleStore) List(ctx context.Context) ([]entity.DistributionRule, error) {
	var rules []entity.DistributionRule
	if err := s.db.WithContext(ctx).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

// GetByID returns one rule or (nil, nil) when missing.
func (s *RuleStore) GetByID(ctx context.Context, id int64) (*entity.DistributionRule, error) {
	var rule entity.DistributionRule
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return &rule, nil
}

// Create inserts a new rule.
func (s *RuleStore) Create(ctx context.Context, rule *entity.DistributionRule) error {
	if err := s.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// Save writes a rule back in full.
func (s *RuleStore) Save(ctx context.Context, rule *entity.DistributionRule) error {
	if err := s.db.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}
	return nil
}

// Delete removes a rule by id.
func (s *RuleStore) Delete(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DistributionRule{}).Error; err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}

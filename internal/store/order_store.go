package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SKR-SG/ASP/internal/entity"
)

// OrderStore is the persisted order set, keyed by external number.
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore creates an OrderStore on an existing connection.
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// GetByExternalNo returns the order or (nil, nil) when it does not exist.
func (s *OrderStore) GetByExternalNo(ctx context.Context, externalNo string) (*entity.Order, error) {
	var order entity.Order
	err := s.db.WithContext(ctx).Where("external_no = ?", externalNo).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// GetByID returns the order by primary key or (nil, nil) when missing.
func (s *OrderStore) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var order entity.Order
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// All returns every persisted order for a platform.
func (s *OrderStore) All(ctx context.Context, platform string) ([]entity.Order, error) {
	var orders []entity.Order
	err := s.db.WithContext(ctx).Where("platform = ?", platform).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Create inserts a new order row.
func (s *OrderStore) Create(ctx context.Context, order *entity.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Save writes the full current state of an order back.
func (s *OrderStore) Save(ctx context.Context, order *entity.Order) error {
	if err := s.db.WithContext(ctx).Save(order).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// DeleteByExternalNo removes an order row. Missing rows are not an error.
func (s *OrderStore) DeleteByExternalNo(ctx context.Context, externalNo string) error {
	err := s.db.WithContext(ctx).
		Where("external_no = ?", externalNo).
		Delete(&entity.Order{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// SetListing stores the marketplace listing reference after a successful
// publication. Both columns are written together.
func (s *OrderStore) SetListing(ctx context.Context, externalNo, cargoID, cargoNumber string) error {
	result := s.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("external_no = ?", externalNo).
		Updates(map[string]interface{}{
			"cargo_id":     cargoID,
			"is_published": cargoNumber,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order not found: %s", externalNo)
	}
	return nil
}

// ClearListing drops the marketplace listing reference after a withdraw.
func (s *OrderStore) ClearListing(ctx context.Context, externalNo string) error {
	err := s.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("external_no = ?", externalNo).
		Updates(map[string]interface{}{
			"cargo_id":     nil,
			"is_published": nil,
			"updated_at":   time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to clear listing: %w", err)
	}
	return nil
}

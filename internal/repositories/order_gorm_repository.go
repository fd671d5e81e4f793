package repositories

import (
	"errors"
	"fmt"

	"bytestore/internal/apperrors"
	"bytestore/internal/auth"
	"bytestore/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func scoped(db *gorm.DB, scope auth.OrderScope) *gorm.DB {
	if scope.Restricted {
		return db.Where("user_id = ?", scope.UserID)
	}
	return db
}

// ListByScope returns the orders visible to the given scope, with the
// referenced product preloaded for display.
func (r *GORMOrderRepository) ListByScope(scope auth.OrderScope) ([]models.Order, error) {
	var orders []models.Order
	if err := scoped(r.db.Preload("Product"), scope).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByScope returns a single order if it is visible to the given scope.
// Missing and out-of-scope orders both come back as apperrors.ErrNotFound.
func (r *GORMOrderRepository) GetByScope(id uint, scope auth.OrderScope) (*models.Order, error) {
	var order models.Order
	if err := scoped(r.db.Preload("Product"), scope).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// GetByID returns an order regardless of scope.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// Create inserts the order inside the caller's transaction. Associations are
// omitted so the insert can never upsert the referenced product or user.
func (r *GORMOrderRepository) Create(tx *gorm.DB, order *models.Order) error {
	if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Delete removes an order. Stock is not restored; compensation is out of
// scope for deletion.
func (r *GORMOrderRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

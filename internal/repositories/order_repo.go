package repositories

import (
	"bytestore/internal/auth"
	"bytestore/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
//
// ListByScope and GetByScope apply the caller's visibility scope in the
// query itself, so an out-of-scope order is indistinguishable from a missing
// one. GetByID is unscoped and exists for the delete path, which checks
// ownership explicitly. Create takes the workflow's transaction.
type OrderRepository interface {
	ListByScope(scope auth.OrderScope) ([]models.Order, error)
	GetByScope(id uint, scope auth.OrderScope) (*models.Order, error)
	GetByID(id uint) (*models.Order, error)
	Create(tx *gorm.DB, order *models.Order) error
	Delete(id uint) error
}

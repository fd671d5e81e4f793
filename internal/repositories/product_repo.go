package repositories

import (
	"bytestore/internal/models"

	"gorm.io/gorm"
)

// ProductListParams controls pagination, search and ordering of List.
// Callers clamp Page and PageSize before building the params.
type ProductListParams struct {
	Page     int
	PageSize int
	Search   string
	Sort     string // name | name_desc | price | price_desc, anything else = by id
}

// ProductRepository defines the interface for product data access.
//
// Update and DecrementStock are compare-and-swap writes guarded by the
// product's Version column: the caller supplies the version it read, and a
// stale version fails with apperrors.ErrConcurrencyConflict without touching
// the row. DecrementStock takes the caller's transaction so the stock check
// and the order insert commit or roll back together.
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetByName(name string) (*models.Product, error)
	List(params ProductListParams) ([]models.Product, int64, error)
	Create(product *models.Product) error
	Update(product *models.Product, expectedVersion int) error
	Delete(id uint) error
	DecrementStock(tx *gorm.DB, id uint, qty int, expectedVersion int) error
}

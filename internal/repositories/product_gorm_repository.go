package repositories

import (
	"errors"
	"fmt"

	"bytestore/internal/apperrors"
	"bytestore/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByName retrieves a single product by its unique name.
func (r *GORMProductRepository) GetByName(name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by name %s: %w", name, err)
	}
	return &product, nil
}

// List returns a page of products plus the total match count. The count is
// taken before pagination so callers can compute total pages. Search is a
// substring match on name with the column's collation (LIKE).
func (r *GORMProductRepository) List(params ProductListParams) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	switch params.Sort {
	case "name":
		query = query.Order("name")
	case "name_desc":
		query = query.Order("name DESC")
	case "price":
		query = query.Order("price")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("id")
	}

	var products []models.Product
	offset := (params.Page - 1) * params.PageSize
	if err := query.Offset(offset).Limit(params.PageSize).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Create inserts a new product. The unique index on name backs the
// service-level duplicate check.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.Version == 0 {
		product.Version = 1
	}
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateName
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes name, price and stock guarded by the version the caller read.
// Zero rows affected means another writer committed in between; the caller
// must re-read and retry. On success the product's Version is advanced to
// match the stored row.
func (r *GORMProductRepository) Update(product *models.Product, expectedVersion int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND version = ?", product.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":    product.Name,
			"price":   product.Price,
			"stock":   product.Stock,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateName
		}
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrencyConflict
	}
	product.Version = expectedVersion + 1
	return nil
}

// Delete removes a product. Products referenced by any order are protected:
// the dependency check runs before the delete, mirroring the restrict
// constraint on orders.product_id.
func (r *GORMProductRepository) Delete(id uint) error {
	var orderCount int64
	if err := r.db.Model(&models.Order{}).Where("product_id = ?", id).Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to count orders for product %d: %w", id, err)
	}
	if orderCount > 0 {
		return apperrors.ErrHasDependentOrders
	}

	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DecrementStock performs the conditional decrement inside the caller's
// transaction. The WHERE clause carries both the version token and the stock
// bound, so neither a concurrent writer nor an undersized stock can slip
// through between the caller's read and this write.
func (r *GORMProductRepository) DecrementStock(tx *gorm.DB, id uint, qty int, expectedVersion int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND version = ? AND stock >= ?", id, expectedVersion, qty).
		Updates(map[string]interface{}{
			"stock":   gorm.Expr("stock - ?", qty),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrencyConflict
	}
	return nil
}

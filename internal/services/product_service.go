package services

import (
	"errors"
	"fmt"
	"math"

	"bytestore/internal/apperrors"
	"bytestore/internal/auth"
	"bytestore/internal/models"
	"bytestore/internal/repositories"

	"github.com/shopspring/decimal"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// ProductListResult is the paginated catalog listing.
type ProductListResult struct {
	Products   []models.Product `json:"products"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// List returns a page of products with the total match count.
func (s *ProductService) List(params repositories.ProductListParams) (*ProductListResult, error) {
	products, total, err := s.repo.List(params)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{
		Products:   products,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(params.PageSize))),
	}, nil
}

// GetByID retrieves a single product.
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Create adds a product. Admin only.
func (s *ProductService) Create(caller auth.Identity, name string, price decimal.Decimal, stock int) (*models.Product, error) {
	if !auth.CanMutateProducts(caller) {
		return nil, apperrors.ErrUnauthorized
	}
	if err := s.checkNameFree(name, 0); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces a product's name, price and stock. Admin only. The write is
// guarded by the version read here, so a concurrent admin update fails with
// apperrors.ErrConcurrencyConflict instead of silently losing one of the two.
func (s *ProductService) Update(caller auth.Identity, id uint, name string, price decimal.Decimal, stock int) (*models.Product, error) {
	if !auth.CanMutateProducts(caller) {
		return nil, apperrors.ErrUnauthorized
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(name, id); err != nil {
		return nil, err
	}

	readVersion := product.Version
	product.Name = name
	product.Price = price
	product.Stock = stock
	if err := s.repo.Update(product, readVersion); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product. Admin only; blocked while orders reference it.
func (s *ProductService) Delete(caller auth.Identity, id uint) error {
	if !auth.CanMutateProducts(caller) {
		return apperrors.ErrUnauthorized
	}
	return s.repo.Delete(id)
}

// checkNameFree gives the friendly duplicate-name error ahead of the insert;
// the unique index on products.name is the race-free backstop.
func (s *ProductService) checkNameFree(name string, selfID uint) error {
	existing, err := s.repo.GetByName(name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check product name: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.ErrDuplicateName
	}
	return nil
}

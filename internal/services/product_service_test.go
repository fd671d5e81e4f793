package services_test

import (
	"testing"

	"bytestore/internal/apperrors"
	"bytestore/internal/auth"
	"bytestore/internal/models"
	"bytestore/internal/repositories"
	"bytestore/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByName(name string) (*models.Product, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) List(params repositories.ProductListParams) ([]models.Product, int64, error) {
	args := m.Called(params)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product, expectedVersion int) error {
	args := m.Called(product, expectedVersion)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(tx *gorm.DB, id uint, qty int, expectedVersion int) error {
	args := m.Called(tx, id, qty, expectedVersion)
	return args.Error(0)
}

var (
	adminCaller = auth.Identity{UserID: "admin-1", Email: "admin@example.com", Role: auth.RoleAdmin}
	userCaller  = auth.Identity{UserID: "user-1", Email: "user@example.com", Role: auth.RoleUser}
)

func TestProductService_List(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	items := []models.Product{
		{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("45999.00"), Stock: 50},
		{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("599.00"), Stock: 200},
	}
	params := repositories.ProductListParams{Page: 1, PageSize: 10}
	mockRepo.On("List", params).Return(items, int64(25), nil).Once()

	result, err := service.List(params)
	assert.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Equal(t, int64(25), result.TotalCount)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Equal(t, 3, result.TotalPages) // ceil(25/10)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	price := decimal.RequireFromString("1499.00")

	// Non-admin rejected before the repository is touched
	_, err := service.Create(userCaller, "Keyboard", price, 150)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)

	// Admin creates successfully
	mockRepo.On("GetByName", "Keyboard").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	product, err := service.Create(adminCaller, "Keyboard", price, 150)
	assert.NoError(t, err)
	assert.Equal(t, "Keyboard", product.Name)
	mockRepo.AssertExpectations(t)

	// Duplicate name
	mockRepo.On("GetByName", "Keyboard").Return(&models.Product{ID: 3, Name: "Keyboard"}, nil).Once()
	_, err = service.Create(adminCaller, "Keyboard", price, 150)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	price := decimal.RequireFromString("42000.00")

	// Non-admin rejected
	_, err := service.Update(userCaller, 1, "Laptop", price, 40)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Not found
	mockRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound).Once()
	_, err = service.Update(adminCaller, 99, "Laptop", price, 40)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)

	// Successful update passes the version read at load time to the repository
	existing := &models.Product{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("45999.00"), Stock: 50, Version: 3}
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("GetByName", "Laptop Pro").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product"), 3).Return(nil).Once()
	product, err := service.Update(adminCaller, 1, "Laptop Pro", price, 40)
	assert.NoError(t, err)
	assert.Equal(t, "Laptop Pro", product.Name)
	assert.Equal(t, 40, product.Stock)
	mockRepo.AssertExpectations(t)

	// Name held by another product
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("GetByName", "Mouse").Return(&models.Product{ID: 2, Name: "Mouse"}, nil).Once()
	_, err = service.Update(adminCaller, 1, "Mouse", price, 40)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	mockRepo.AssertExpectations(t)

	// Keeping its own name is not a duplicate
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("GetByName", "Mouse").Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product"), mock.AnythingOfType("int")).Return(nil).Once()
	_, err = service.Update(adminCaller, 1, "Mouse", price, 40)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Concurrent modification surfaces as a conflict
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("GetByName", "Laptop Pro").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product"), mock.AnythingOfType("int")).Return(apperrors.ErrConcurrencyConflict).Once()
	_, err = service.Update(adminCaller, 1, "Laptop Pro", price, 40)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Delete(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	// Non-admin rejected
	err := service.Delete(userCaller, 1)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)

	// Successful deletion
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	assert.NoError(t, service.Delete(adminCaller, 1))
	mockRepo.AssertExpectations(t)

	// Blocked by dependent orders
	mockRepo.On("Delete", uint(2)).Return(apperrors.ErrHasDependentOrders).Once()
	err = service.Delete(adminCaller, 2)
	assert.ErrorIs(t, err, apperrors.ErrHasDependentOrders)
	mockRepo.AssertExpectations(t)
}

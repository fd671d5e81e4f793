package handlers

import (
	"log"

	"bytestore/internal/middleware"
	"bytestore/internal/repositories"
	"bytestore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes on an authenticated router.
// Reads are open to any authenticated caller; mutations require Admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, adminOnly fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/:id", h.HandleGet)
	productRoutes.Post("/", adminOnly, h.HandleCreate)
	productRoutes.Put("/:id", adminOnly, h.HandleUpdate)
	productRoutes.Delete("/:id", adminOnly, h.HandleDelete)
}

// ProductRequest represents the request body for creating or updating a
// product. Price is validated by hand because validator cannot compare
// decimal values.
type ProductRequest struct {
	Name  string          `json:"name" validate:"required,max=200"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// HandleList returns a paginated product listing. Page and page size are
// clamped here: page below 1 becomes 1, page size outside 1..100 becomes 10.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 10)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	result, err := h.service.List(repositories.ProductListParams{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// HandleGet returns a single product.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return writeBadRequest(c, "invalid product ID")
	}

	product, err := h.service.GetByID(uint(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// HandleCreate adds a product to the catalog.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	req, ok := h.parseProductRequest(c)
	if !ok {
		return nil
	}

	product, err := h.service.Create(middleware.IdentityFrom(c), req.Name, req.Price, req.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate replaces a product's name, price and stock.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return writeBadRequest(c, "invalid product ID")
	}

	req, ok := h.parseProductRequest(c)
	if !ok {
		return nil
	}

	product, err := h.service.Update(middleware.IdentityFrom(c), uint(id), req.Name, req.Price, req.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// HandleDelete removes a product without orders referencing it.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return writeBadRequest(c, "invalid product ID")
	}

	if err := h.service.Delete(middleware.IdentityFrom(c), uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// parseProductRequest parses and validates the shared create/update body.
// On failure the response has already been written and ok is false.
func (h *ProductHandler) parseProductRequest(c *fiber.Ctx) (ProductRequest, bool) {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		writeBadRequest(c, "Invalid request body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationErrors(c, err)
		return req, false
	}
	if !req.Price.IsPositive() {
		writeBadRequest(c, "price must be greater than 0")
		return req, false
	}
	return req, true
}

package handlers

import (
	"errors"
	"log"

	"bytestore/internal/apperrors"
	"bytestore/internal/middleware"
	"bytestore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes on an authenticated router.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Get("/:id", h.HandleGet)
	orderRoutes.Post("/", h.HandleCreate)
	orderRoutes.Delete("/:id", h.HandleDelete)
}

// CreateOrderRequest represents the request body for placing an order.
type CreateOrderRequest struct {
	ProductID uint `json:"product_id" validate:"required,gte=1"`
	Qty       int  `json:"qty" validate:"required,gte=1"`
}

// HandleList returns the caller's visible orders: everything for admins,
// own orders for everyone else.
func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	orders, err := h.service.GetOrders(middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}

// HandleGet returns a single order within the caller's scope.
func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"errors": []string{"Order not found"},
		})
	}

	order, err := h.service.GetOrder(uint(id), middleware.IdentityFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

// HandleCreate places an order for the authenticated caller.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return writeBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return writeValidationErrors(c, err)
	}

	order, err := h.service.CreateOrder(req.ProductID, req.Qty, middleware.IdentityFrom(c))
	if err != nil {
		// A missing product is a rejected creation, not a missing resource:
		// the endpoint answers 400 like every other creation failure.
		if errors.Is(err, apperrors.ErrNotFound) {
			return writeBadRequest(c, "Product not found")
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleDelete removes an order the caller owns (or any order for admins).
func (h *OrderHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"errors": []string{"Order not found"},
		})
	}

	if err := h.service.DeleteOrder(uint(id), middleware.IdentityFrom(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted successfully",
	})
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"bytestore/internal/apperrors"
	"bytestore/internal/auth"
	"bytestore/internal/models"
	"bytestore/internal/repositories"
	"bytestore/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService owns the order workflow, including the transaction boundary
// for order creation.
type OrderService struct {
	db          *gorm.DB
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client
}

// OrderDetail is the order shape returned to callers, with the product name
// joined in for display.
type OrderDetail struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"qty"`
	Total       decimal.Decimal `json:"total"`
	OrderDate   time.Time       `json:"order_date"`
}

// NewOrderService creates a new OrderService. mqClient may be nil, in which
// case lifecycle events are skipped.
func NewOrderService(db *gorm.DB, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// GetOrders returns the orders visible to the caller: all of them for an
// admin, otherwise only the caller's own.
func (s *OrderService) GetOrders(caller auth.Identity) ([]OrderDetail, error) {
	orders, err := s.orderRepo.ListByScope(auth.ScopeFor(caller))
	if err != nil {
		return nil, err
	}
	details := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		details = append(details, toDetail(&orders[i]))
	}
	return details, nil
}

// GetOrder returns a single order within the caller's scope. An order owned
// by someone else reads as not found, so existence of foreign orders never
// leaks through this path.
func (s *OrderService) GetOrder(id uint, caller auth.Identity) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByScope(id, auth.ScopeFor(caller))
	if err != nil {
		return nil, err
	}
	detail := toDetail(order)
	return &detail, nil
}

// CreateOrder places an order for qty units of a product as one atomic unit:
// the product is loaded inside the transaction, the stock bound is checked,
// the total is computed from the price read there (later price changes never
// touch it), the stock decrement is applied as a compare-and-swap on the
// product's version, and the order row is inserted. Any failure rolls the
// whole transaction back; a version conflict surfaces as
// apperrors.ErrConcurrencyConflict and the caller must resubmit.
func (s *OrderService) CreateOrder(productID uint, qty int, caller auth.Identity) (*OrderDetail, error) {
	var detail OrderDetail

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to load product %d: %w", productID, err)
		}

		if product.Stock < qty {
			return &apperrors.InsufficientStockError{Available: product.Stock, Requested: qty}
		}

		total := product.Price.Mul(decimal.NewFromInt(int64(qty)))

		if err := s.productRepo.DecrementStock(tx, product.ID, qty, product.Version); err != nil {
			return err
		}

		order := models.Order{
			ProductID: product.ID,
			UserID:    caller.UserID,
			Qty:       qty,
			Total:     total,
			OrderDate: time.Now().UTC(),
		}
		if err := s.orderRepo.Create(tx, &order); err != nil {
			return err
		}

		detail = OrderDetail{
			ID:          order.ID,
			ProductID:   order.ProductID,
			ProductName: product.Name,
			Qty:         order.Qty,
			Total:       order.Total,
			OrderDate:   order.OrderDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id":   detail.ID,
		"product_id": detail.ProductID,
		"user_id":    caller.UserID,
		"qty":        detail.Qty,
		"total":      detail.Total,
	})

	return &detail, nil
}

// DeleteOrder removes an order. Admins may delete any order; everyone else
// only their own, and a foreign order fails with
// apperrors.ErrUnauthorized. Unlike reads, this path reveals that the order
// exists; the asymmetry matches how deletion is surfaced to clients (400 vs
// the read path's 404). Stock consumed by the order is not restored.
func (s *OrderService) DeleteOrder(id uint, caller auth.Identity) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !auth.CanDeleteOrder(caller, order.UserID) {
		return apperrors.ErrUnauthorized
	}
	if err := s.orderRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent("order.deleted", map[string]interface{}{
		"order_id":   id,
		"deleted_by": caller.UserID,
	})
	return nil
}

// publishEvent sends a lifecycle notification to the message queue. Events
// are fire-and-forget: a publish failure is logged and never fails the
// operation that produced it.
func (s *OrderService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}

func toDetail(order *models.Order) OrderDetail {
	return OrderDetail{
		ID:          order.ID,
		ProductID:   order.ProductID,
		ProductName: order.Product.Name,
		Qty:         order.Qty,
		Total:       order.Total,
		OrderDate:   order.OrderDate,
	}
}

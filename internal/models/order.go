package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a committed purchase of a single product.
//
// Total is the unit price at purchase time multiplied by Qty and never
// recomputed, so later price changes leave existing orders untouched.
// Both foreign keys are restrict-on-delete: a product with orders cannot
// be removed.
type Order struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Product   Product         `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	UserID    string          `json:"user_id" gorm:"not null;type:varchar(36)"`
	User      User            `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Qty       int             `json:"qty" gorm:"not null" validate:"required,gte=1"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(18,2)"`
	OrderDate time.Time       `json:"order_date"`
}

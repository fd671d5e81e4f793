package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
//
// Version is the optimistic-concurrency token: every successful update
// (including the stock decrement performed by order creation) bumps it by one.
// Writers must supply the version they read; a mismatch at write time means
// another transaction got there first.
type Product struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"uniqueIndex;type:varchar(200)" validate:"required,max=200"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(18,2)"`
	Stock     int             `json:"stock" validate:"gte=0"`
	Version   int             `json:"-" gorm:"not null;default:1"`
	CreatedAt time.Time       `json:"created_at"`
}

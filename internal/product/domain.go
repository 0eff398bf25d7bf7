package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item in the catalog. Inactive products stay in
// the catalog for historical purchases but are hidden from the storefront.
type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"uniqueIndex;not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (Product) TableName() string { return "products" }

// Status filters a catalog listing.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusAll      Status = "ALL"
)

// ParseStatus normalizes a status filter string, defaulting to ACTIVE.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusInactive:
		return StatusInactive
	case StatusAll:
		return StatusAll
	default:
		return StatusActive
	}
}

// Request carries the data needed to create or update a product.
type Request struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

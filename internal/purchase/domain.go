package purchase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/product"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/user"
)

// Purchase is the aggregate root of the ledger: one completed transaction
// by one user. Once saved it is never modified.
type Purchase struct {
	ID     int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int64           `json:"userId" gorm:"not null;index"`
	User   *user.User      `json:"-" gorm:"foreignKey:UserID"`
	Date   time.Time       `json:"date" gorm:"not null"`
	Total  decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Items  []Item          `json:"items" gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

func (Purchase) TableName() string { return "purchases" }

// Item is one product-and-quantity line within a Purchase. The subtotal is
// frozen at purchase time; product display fields are resolved through the
// reference.
type Item struct {
	ID         int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	PurchaseID int64            `json:"purchaseId" gorm:"not null;index"`
	ProductID  int64            `json:"productId" gorm:"not null"`
	Product    *product.Product `json:"-" gorm:"foreignKey:ProductID"`
	Quantity   int              `json:"quantity" gorm:"not null"`
	Subtotal   decimal.Decimal  `json:"subtotal" gorm:"type:decimal(10,2);not null"`
}

func (Item) TableName() string { return "purchase_items" }

// Request is an inbound purchase submission: an ordered, non-empty list of
// product/quantity pairs.
type Request struct {
	Items []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ItemRequest is one requested line of a purchase submission.
type ItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// Response is a purchase record expanded for presentation.
type Response struct {
	ID       int64           `json:"id"`
	UserName string          `json:"userName"`
	Date     time.Time       `json:"date"`
	Total    decimal.Decimal `json:"total"`
	Items    []ItemResponse  `json:"items"`
}

// ItemResponse is one purchased line expanded for presentation. UnitPrice
// is the product's current price; Subtotal is the amount frozen at
// purchase time.
type ItemResponse struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func toResponse(p *Purchase) *Response {
	items := make([]ItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		ir := ItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		}
		if it.Product != nil {
			ir.ProductName = it.Product.Name
			ir.UnitPrice = it.Product.Price
		}
		items = append(items, ir)
	}

	r := &Response{
		ID:    p.ID,
		Date:  p.Date,
		Total: p.Total,
		Items: items,
	}
	if p.User != nil {
		r.UserName = p.User.Name
	}
	return r
}

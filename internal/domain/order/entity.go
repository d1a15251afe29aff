// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Order represents a placed order with the totals snapshotted at checkout
type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Number       string          `gorm:"uniqueIndex;not null;size:64" json:"number"`
	CustomerName string          `gorm:"not null;size:255" json:"customer_name"`
	Email        string          `gorm:"not null;size:255" json:"email"`
	Phone        string          `gorm:"size:50" json:"phone"`
	Document     string          `gorm:"size:50" json:"document"`
	CouponCode   string          `gorm:"size:100" json:"coupon_code,omitempty"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status       string          `gorm:"not null;size:20;default:'pending'" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem snapshots one cart line item into the order
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Title     string          `gorm:"not null;size:255" json:"title"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

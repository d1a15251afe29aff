// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/pricing"
)

// LineItem represents one row in the cart. UnitPrice is the effective price
// snapshotted at the moment of adding; later promotion changes do not
// retroactively reprice items already in the cart.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// Cart is the session-owned shopping cart: an ordered sequence of line items
// and at most one applied coupon. Totals are derived, never stored.
type Cart struct {
	SessionID string         `json:"session_id"`
	Items     []LineItem     `json:"items"`
	Coupon    *coupon.Coupon `json:"coupon,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewCart returns an empty cart for the given session
func NewCart(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ItemCount returns the sum of all line item quantities
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Lines projects the cart items into the view the pricing engine consumes
func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}
	return lines
}

// Totals recomputes subtotal, discount, and total from the current items and
// applied coupon.
func (c *Cart) Totals() pricing.Totals {
	return pricing.ComputeTotals(c.Lines(), c.Coupon)
}

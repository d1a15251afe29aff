// internal/domain/cart/service.go
package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/pricing"
)

// Service handles cart business logic. All mutations load the current
// snapshot, apply the change, and persist the full snapshot synchronously.
type Service struct {
	store Store
}

// NewService creates a new cart service
func NewService(store Store) *Service {
	return &Service{
		store: store,
	}
}

// AddItemRequest carries the product data snapshotted into a new line item.
// UnitPrice is the effective price the caller resolved at add time.
type AddItemRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CartResponse represents the cart with its derived totals
type CartResponse struct {
	SessionID string         `json:"session_id"`
	Items     []LineItem     `json:"items"`
	Coupon    *coupon.Coupon `json:"coupon,omitempty"`
	Totals    pricing.Totals `json:"totals"`
	ItemCount int            `json:"item_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GetCart retrieves the cart for a session with freshly computed totals
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(c), nil
}

// AddItem adds a product to the cart. If a line item with the same product
// already exists its quantity is incremented by 1 and its snapshotted unit
// price is left unchanged; otherwise a new line item with quantity 1 is
// appended at the captured price.
func (s *Service) AddItem(ctx context.Context, sessionID string, req *AddItemRequest) (*CartResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == req.ProductID {
			c.Items[i].Quantity++
			found = true
			break
		}
	}

	if !found {
		c.Items = append(c.Items, LineItem{
			ProductID: req.ProductID,
			Title:     req.Title,
			Image:     req.Image,
			UnitPrice: req.UnitPrice,
			Quantity:  1,
			AddedAt:   time.Now().UTC(),
		})
	}

	return s.persist(ctx, c)
}

// UpdateQuantity sets a line item's quantity directly. A quantity of zero or
// less removes the item. No upper bound is enforced. Updating an absent item
// is a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID uint, quantity int) (*CartResponse, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			break
		}
	}

	return s.persist(ctx, c)
}

// RemoveItem deletes the matching line item, a no-op when absent
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID uint) (*CartResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}

	return s.persist(ctx, c)
}

// ApplyCoupon replaces any currently applied coupon with the given one. The
// caller is expected to have validated the coupon already; no revalidation
// happens here.
func (s *Service) ApplyCoupon(ctx context.Context, sessionID string, applied coupon.Coupon) (*CartResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Coupon = &applied
	return s.persist(ctx, c)
}

// RemoveCoupon clears the applied coupon
func (s *Service) RemoveCoupon(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Coupon = nil
	return s.persist(ctx, c)
}

// ClearCart empties all line items. The applied coupon is intentionally left
// in place and survives the clear.
func (s *Service) ClearCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Items = []LineItem{}
	return s.persist(ctx, c)
}

func (s *Service) persist(ctx context.Context, c *Cart) (*CartResponse, error) {
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.respond(c), nil
}

func (s *Service) respond(c *Cart) *CartResponse {
	return &CartResponse{
		SessionID: c.SessionID,
		Items:     c.Items,
		Coupon:    c.Coupon,
		Totals:    c.Totals(),
		ItemCount: c.ItemCount(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

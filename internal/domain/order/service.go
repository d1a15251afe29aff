// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/digitalstore-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Service handles checkout and order business logic
type Service struct {
	db          *gorm.DB
	cartService *cart.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cartService *cart.Service) *Service {
	return &Service{
		db:          db,
		cartService: cartService,
	}
}

// CheckoutRequest carries the buyer information collected at checkout
type CheckoutRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Document string `json:"document" binding:"required"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// PlaceOrder turns the session's cart into an order. Totals are recomputed
// from the cart snapshot at placement time, then the cart items are cleared.
// The applied coupon's used count is not incremented here.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, req *CheckoutRequest) (*Order, error) {
	cartResponse, err := s.cartService.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if len(cartResponse.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	totals := cartResponse.Totals

	newOrder := Order{
		Number:       uuid.New().String(),
		CustomerName: req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Document:     req.Document,
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		Total:        totals.Total,
		Status:       StatusCompleted,
	}

	if cartResponse.Coupon != nil {
		newOrder.CouponCode = cartResponse.Coupon.Code
	}

	for _, item := range cartResponse.Items {
		newOrder.Items = append(newOrder.Items, OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	if err := s.db.Create(&newOrder).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if _, err := s.cartService.ClearCart(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("order placed but failed to clear cart: %w", err)
	}

	return &newOrder, nil
}

// GetOrders retrieves placed orders for the admin console, newest first
func (s *Service) GetOrders(req *OrderListRequest) ([]Order, int64, error) {
	var orders []Order
	var total int64

	if err := s.db.Model(&Order{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	offset := (req.Page - 1) * req.Limit
	err := s.db.Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	if err := s.db.Preload("Items").First(&o, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// internal/domain/coupon/service.go
package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"gorm.io/gorm"
)

// Service handles coupon business logic
type Service struct {
	db   *gorm.DB
	feed changefeed.Publisher
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, feed changefeed.Publisher) *Service {
	return &Service{
		db:   db,
		feed: feed,
	}
}

// CouponCreateRequest represents coupon creation data
type CouponCreateRequest struct {
	Code          string          `json:"code" binding:"required"`
	DiscountType  DiscountType    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	UsageLimit    *int            `json:"usage_limit"`
	Active        bool            `json:"active"`
}

// CouponUpdateRequest represents coupon update data
type CouponUpdateRequest struct {
	Code          *string          `json:"code"`
	DiscountType  *DiscountType    `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	UsageLimit    *int             `json:"usage_limit"`
	Active        *bool            `json:"active"`
}

// GetCoupons retrieves all coupons, newest first
func (s *Service) GetCoupons() ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve coupons: %w", err)
	}
	return coupons, nil
}

// GetCoupon retrieves a single coupon by ID
func (s *Service) GetCoupon(id uint) (*Coupon, error) {
	var c Coupon
	if err := s.db.First(&c, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("coupon not found")
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}
	return &c, nil
}

// CreateCoupon creates a new coupon
func (s *Service) CreateCoupon(ctx context.Context, req *CouponCreateRequest) (*Coupon, error) {
	if req.DiscountValue.IsNegative() {
		return nil, fmt.Errorf("discount value cannot be negative")
	}

	c := Coupon{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		ExpiryDate:    req.ExpiryDate,
		UsageLimit:    req.UsageLimit,
		Active:        req.Active,
	}

	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.publish(ctx, changefeed.OpInsert, c.ID)
	return &c, nil
}

// UpdateCoupon applies a partial update to a coupon
func (s *Service) UpdateCoupon(ctx context.Context, id uint, req *CouponUpdateRequest) (*Coupon, error) {
	c, err := s.GetCoupon(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.DiscountType != nil {
		if *req.DiscountType != DiscountPercentage && *req.DiscountType != DiscountFixed {
			return nil, fmt.Errorf("invalid discount type %q", *req.DiscountType)
		}
		updates["discount_type"] = *req.DiscountType
	}
	if req.DiscountValue != nil {
		if req.DiscountValue.IsNegative() {
			return nil, fmt.Errorf("discount value cannot be negative")
		}
		updates["discount_value"] = *req.DiscountValue
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.db.Model(c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
	}

	s.publish(ctx, changefeed.OpUpdate, id)
	return s.GetCoupon(id)
}

// DeleteCoupon removes a coupon
func (s *Service) DeleteCoupon(ctx context.Context, id uint) error {
	result := s.db.Delete(&Coupon{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("coupon not found")
	}

	s.publish(ctx, changefeed.OpDelete, id)
	return nil
}

func (s *Service) publish(ctx context.Context, op changefeed.Op, id uint) {
	event := changefeed.Event{Table: "coupons", Op: op, ID: id}
	if err := s.feed.Publish(ctx, event); err != nil {
		logrus.WithError(err).Warn("Failed to publish coupon change")
	}
}

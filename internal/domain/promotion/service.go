// internal/domain/promotion/service.go
package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"gorm.io/gorm"
)

// Service handles promotion business logic
type Service struct {
	db   *gorm.DB
	feed changefeed.Publisher
}

// NewService creates a new promotion service
func NewService(db *gorm.DB, feed changefeed.Publisher) *Service {
	return &Service{
		db:   db,
		feed: feed,
	}
}

// PromotionCreateRequest represents promotion creation data
type PromotionCreateRequest struct {
	ProductID          uint            `json:"product_id" binding:"required"`
	Active             bool            `json:"active"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	BadgeText          string          `json:"badge_text"`
	BadgeColor         string          `json:"badge_color"`
	BadgeTextColor     string          `json:"badge_text_color"`
	BadgeStyle         string          `json:"badge_style"`
	StartDate          *time.Time      `json:"start_date"`
	EndDate            *time.Time      `json:"end_date"`
}

// PromotionUpdateRequest represents promotion update data
type PromotionUpdateRequest struct {
	ProductID          *uint            `json:"product_id"`
	Active             *bool            `json:"active"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	BadgeText          *string          `json:"badge_text"`
	BadgeColor         *string          `json:"badge_color"`
	BadgeTextColor     *string          `json:"badge_text_color"`
	BadgeStyle         *string          `json:"badge_style"`
	StartDate          *time.Time      `json:"start_date"`
	EndDate            *time.Time      `json:"end_date"`
}

// GetPromotions retrieves all promotions, newest first
func (s *Service) GetPromotions() ([]Promotion, error) {
	var promotions []Promotion
	if err := s.db.Order("created_at DESC").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve promotions: %w", err)
	}
	return promotions, nil
}

// GetPromotion retrieves a single promotion by ID
func (s *Service) GetPromotion(id uint) (*Promotion, error) {
	var promo Promotion
	if err := s.db.First(&promo, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("promotion not found")
		}
		return nil, fmt.Errorf("failed to retrieve promotion: %w", err)
	}
	return &promo, nil
}

// CreatePromotion creates a new promotion. The admin console is responsible
// for keeping at most one active promotion per product; the data layer does
// not enforce it.
func (s *Service) CreatePromotion(ctx context.Context, req *PromotionCreateRequest) (*Promotion, error) {
	if err := validateDiscountPercentage(req.DiscountPercentage); err != nil {
		return nil, err
	}

	badgeStyle := req.BadgeStyle
	if badgeStyle == "" {
		badgeStyle = "default"
	}

	promo := Promotion{
		ProductID:          req.ProductID,
		Active:             req.Active,
		DiscountPercentage: req.DiscountPercentage,
		BadgeText:          req.BadgeText,
		BadgeColor:         req.BadgeColor,
		BadgeTextColor:     req.BadgeTextColor,
		BadgeStyle:         badgeStyle,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
	}

	if err := s.db.Create(&promo).Error; err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.publish(ctx, changefeed.OpInsert, promo.ID)
	return &promo, nil
}

// UpdatePromotion applies a partial update to a promotion
func (s *Service) UpdatePromotion(ctx context.Context, id uint, req *PromotionUpdateRequest) (*Promotion, error) {
	promo, err := s.GetPromotion(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.ProductID != nil {
		updates["product_id"] = *req.ProductID
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.DiscountPercentage != nil {
		if err := validateDiscountPercentage(*req.DiscountPercentage); err != nil {
			return nil, err
		}
		updates["discount_percentage"] = *req.DiscountPercentage
	}
	if req.BadgeText != nil {
		updates["badge_text"] = *req.BadgeText
	}
	if req.BadgeColor != nil {
		updates["badge_color"] = *req.BadgeColor
	}
	if req.BadgeTextColor != nil {
		updates["badge_text_color"] = *req.BadgeTextColor
	}
	if req.BadgeStyle != nil {
		updates["badge_style"] = *req.BadgeStyle
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(promo).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update promotion: %w", err)
		}
	}

	s.publish(ctx, changefeed.OpUpdate, id)
	return s.GetPromotion(id)
}

// DeletePromotion removes a promotion
func (s *Service) DeletePromotion(ctx context.Context, id uint) error {
	result := s.db.Delete(&Promotion{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete promotion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("promotion not found")
	}

	s.publish(ctx, changefeed.OpDelete, id)
	return nil
}

// validateDiscountPercentage is the admin-entry constraint on the discount
// range. The pricing engine itself computes out-of-range values faithfully.
func validateDiscountPercentage(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("discount percentage must be between 0 and 100")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, op changefeed.Op, id uint) {
	event := changefeed.Event{Table: "promotions", Op: op, ID: id}
	if err := s.feed.Publish(ctx, event); err != nil {
		logrus.WithError(err).Warn("Failed to publish promotion change")
	}
}

// internal/domain/catalog/badge_service.go
package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"gorm.io/gorm"
)

// BadgeService handles featured badge business logic
type BadgeService struct {
	db   *gorm.DB
	feed changefeed.Publisher
}

// NewBadgeService creates a new badge service
func NewBadgeService(db *gorm.DB, feed changefeed.Publisher) *BadgeService {
	return &BadgeService{
		db:   db,
		feed: feed,
	}
}

// BadgeCreateRequest represents badge creation data
type BadgeCreateRequest struct {
	Name  string `json:"name" binding:"required"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// BadgeUpdateRequest represents badge update data
type BadgeUpdateRequest struct {
	Name  *string `json:"name"`
	Emoji *string `json:"emoji"`
	Color *string `json:"color"`
}

// GetBadges retrieves all badges in creation order
func (s *BadgeService) GetBadges() ([]FeaturedBadge, error) {
	var badges []FeaturedBadge
	if err := s.db.Order("created_at ASC").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve badges: %w", err)
	}
	return badges, nil
}

// GetBadge retrieves a single badge by ID
func (s *BadgeService) GetBadge(id uint) (*FeaturedBadge, error) {
	var badge FeaturedBadge
	if err := s.db.First(&badge, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("badge not found")
		}
		return nil, fmt.Errorf("failed to retrieve badge: %w", err)
	}
	return &badge, nil
}

// CreateBadge creates a new featured badge
func (s *BadgeService) CreateBadge(ctx context.Context, req *BadgeCreateRequest) (*FeaturedBadge, error) {
	badge := FeaturedBadge{
		Name:  req.Name,
		Emoji: req.Emoji,
		Color: req.Color,
	}

	if err := s.db.Create(&badge).Error; err != nil {
		return nil, fmt.Errorf("failed to create badge: %w", err)
	}

	s.publish(ctx, changefeed.OpInsert, badge.ID)
	return &badge, nil
}

// UpdateBadge applies a partial update to a badge
func (s *BadgeService) UpdateBadge(ctx context.Context, id uint, req *BadgeUpdateRequest) (*FeaturedBadge, error) {
	badge, err := s.GetBadge(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Emoji != nil {
		updates["emoji"] = *req.Emoji
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}

	if len(updates) > 0 {
		if err := s.db.Model(badge).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update badge: %w", err)
		}
	}

	s.publish(ctx, changefeed.OpUpdate, id)
	return s.GetBadge(id)
}

// DeleteBadge removes a badge; product references are cleared by the
// SET NULL constraint on the foreign key.
func (s *BadgeService) DeleteBadge(ctx context.Context, id uint) error {
	result := s.db.Delete(&FeaturedBadge{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete badge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("badge not found")
	}

	s.publish(ctx, changefeed.OpDelete, id)
	return nil
}

func (s *BadgeService) publish(ctx context.Context, op changefeed.Op, id uint) {
	event := changefeed.Event{Table: "featured_badges", Op: op, ID: id}
	if err := s.feed.Publish(ctx, event); err != nil {
		logrus.WithError(err).Warn("Failed to publish badge change")
	}
}

// internal/domain/catalog/category_service.go
package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/digitalstore-backend/internal/config"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"gorm.io/gorm"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	feed   changefeed.Publisher
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, feed changefeed.Publisher, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		feed:   feed,
		config: cfg,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryWithProductCount represents a category with its member count
type CategoryWithProductCount struct {
	Category
	ProductCount int64 `json:"product_count"`
}

// GetCategories retrieves all categories ordered by name
func (s *CategoryService) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoriesWithCounts retrieves categories with their product counts
func (s *CategoryService) GetCategoriesWithCounts() ([]CategoryWithProductCount, error) {
	categories, err := s.GetCategories()
	if err != nil {
		return nil, err
	}

	result := make([]CategoryWithProductCount, len(categories))
	for i, category := range categories {
		var count int64
		err := s.db.Table("product_categories").
			Where("category_id = ?", category.ID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count products for category %d: %w", category.ID, err)
		}
		result[i] = CategoryWithProductCount{Category: category, ProductCount: count}
	}

	return result, nil
}

// CreateCategory creates a new category; duplicate names are rejected
func (s *CategoryService) CreateCategory(ctx context.Context, req *CategoryCreateRequest) (*Category, error) {
	var existing Category
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("category %q already exists", req.Name)
	}

	category := Category{Name: req.Name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.publish(ctx, changefeed.OpInsert, category.ID)
	return &category, nil
}

// DeleteCategory removes a category and reassigns its products to the
// default category so no product is left without one.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("category not found")
		}
		return fmt.Errorf("failed to load category: %w", err)
	}

	if category.Name == s.config.Storefront.DefaultCategory {
		return fmt.Errorf("the default category cannot be deleted")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var defaultCategory Category
		if err := tx.Where(Category{Name: s.config.Storefront.DefaultCategory}).
			FirstOrCreate(&defaultCategory).Error; err != nil {
			return fmt.Errorf("failed to ensure default category: %w", err)
		}

		// Move products that would end up with an empty category set.
		var products []Product
		if err := tx.Preload("Categories").
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", id).
			Find(&products).Error; err != nil {
			return fmt.Errorf("failed to load category products: %w", err)
		}

		for i := range products {
			if err := tx.Model(&products[i]).Association("Categories").Delete(&category); err != nil {
				return fmt.Errorf("failed to detach category: %w", err)
			}
			if len(products[i].Categories) == 1 {
				if err := tx.Model(&products[i]).Association("Categories").Append(&defaultCategory); err != nil {
					return fmt.Errorf("failed to reassign product to default category: %w", err)
				}
			}
		}

		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, changefeed.OpDelete, id)
	return nil
}

func (s *CategoryService) publish(ctx context.Context, op changefeed.Op, id uint) {
	event := changefeed.Event{Table: "categories", Op: op, ID: id}
	if err := s.feed.Publish(ctx, event); err != nil {
		logrus.WithError(err).Warn("Failed to publish category change")
	}
}

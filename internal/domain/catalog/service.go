// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/digitalstore-backend/internal/config"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	feed   changefeed.Publisher
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, feed changefeed.Publisher, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		feed:   feed,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	Featured   *bool  `form:"featured"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	Images        []string        `json:"images"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Featured      bool            `json:"featured"`
	BadgeID       *uint           `json:"badge_id"`
	PageLayout    string          `json:"page_layout"`
	CategoryIDs   []uint          `json:"category_ids"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Image         *string          `json:"image"`
	Images        *[]string        `json:"images"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Featured      *bool            `json:"featured"`
	BadgeID       *uint            `json:"badge_id"`
	PageLayout    *string          `json:"page_layout"`
	CategoryIDs   *[]uint          `json:"category_ids"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).
		Preload("Badge").
		Preload("Categories")

	if req.CategoryID > 0 {
		query = query.Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", req.CategoryID)
	}

	if req.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
	}

	if req.Featured != nil {
		query = query.Where("featured = ?", *req.Featured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ProductResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	err := s.db.Preload("Badge").Preload("Categories").First(&product, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// CreateProduct creates a new product. A product with no categories is
// assigned the default category so the category set is never empty.
func (s *Service) CreateProduct(ctx context.Context, req *ProductCreateRequest) (*Product, error) {
	if req.OriginalPrice.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative")
	}

	categories, err := s.resolveCategories(req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	pageLayout := req.PageLayout
	if pageLayout == "" {
		pageLayout = "default"
	}

	images := req.Images
	if len(images) == 0 && req.Image != "" {
		images = []string{req.Image}
	}

	product := Product{
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		Images:        images,
		OriginalPrice: req.OriginalPrice,
		Featured:      req.Featured,
		BadgeID:       req.BadgeID,
		PageLayout:    pageLayout,
		Categories:    categories,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, changefeed.OpInsert, product.ID)
	return s.GetProduct(product.ID)
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *ProductUpdateRequest) (*Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.OriginalPrice != nil {
		if req.OriginalPrice.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative")
		}
		updates["original_price"] = *req.OriginalPrice
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.BadgeID != nil {
		if *req.BadgeID == 0 {
			updates["badge_id"] = nil
		} else {
			updates["badge_id"] = *req.BadgeID
		}
	}
	if req.PageLayout != nil {
		updates["page_layout"] = *req.PageLayout
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	if req.Images != nil {
		if err := s.db.Model(product).Update("images", *req.Images).Error; err != nil {
			return nil, fmt.Errorf("failed to update product images: %w", err)
		}
	}

	if req.CategoryIDs != nil {
		categories, err := s.resolveCategories(*req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(product).Association("Categories").Replace(categories); err != nil {
			return nil, fmt.Errorf("failed to update product categories: %w", err)
		}
	}

	s.publish(ctx, changefeed.OpUpdate, id)
	return s.GetProduct(id)
}

// DeleteProduct removes a product from the catalog
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}

	s.publish(ctx, changefeed.OpDelete, id)
	return nil
}

// resolveCategories loads the requested categories, substituting the default
// category when none are given.
func (s *Service) resolveCategories(ids []uint) ([]Category, error) {
	if len(ids) == 0 {
		defaultCategory, err := s.ensureDefaultCategory()
		if err != nil {
			return nil, err
		}
		return []Category{*defaultCategory}, nil
	}

	var categories []Category
	if err := s.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) != len(ids) {
		return nil, fmt.Errorf("one or more categories not found")
	}
	return categories, nil
}

// ensureDefaultCategory finds or creates the sentinel default category
func (s *Service) ensureDefaultCategory() (*Category, error) {
	var category Category
	err := s.db.Where(Category{Name: s.config.Storefront.DefaultCategory}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure default category: %w", err)
	}
	return &category, nil
}

func (s *Service) publish(ctx context.Context, op changefeed.Op, id uint) {
	event := changefeed.Event{Table: "products", Op: op, ID: id}
	if err := s.feed.Publish(ctx, event); err != nil {
		// Best effort: the mirror converges on its next full load.
		logrus.WithError(err).Warn("Failed to publish product change")
	}
}

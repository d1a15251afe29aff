// internal/domain/storefront/service.go
package storefront

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/digitalstore-backend/internal/config"
	"github.com/your-org/digitalstore-backend/internal/domain/catalog"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/pricing"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
)

// Service serves storefront reads from mirror snapshots, resolving each
// product's effective price through the pricing engine.
type Service struct {
	mirror *Mirror
	config *config.Config
}

// NewService creates a new storefront service
func NewService(mirror *Mirror, cfg *config.Config) *Service {
	return &Service{
		mirror: mirror,
		config: cfg,
	}
}

// CatalogItem is a product enriched with its resolved pricing for display
type CatalogItem struct {
	Product        catalog.Product      `json:"product"`
	Categories     []string             `json:"categories"`
	EffectivePrice decimal.Decimal      `json:"effective_price"`
	Promotion      *promotion.Promotion `json:"promotion,omitempty"`
}

// Catalog returns all products with effective prices resolved against the
// current promotion snapshot. An empty category filter returns everything.
func (s *Service) Catalog(category string) []CatalogItem {
	products := s.mirror.Products()
	promotions := s.mirror.Promotions()
	now := time.Now().UTC()

	items := make([]CatalogItem, 0, len(products))
	for _, product := range products {
		names := product.CategoryNames(s.config.Storefront.DefaultCategory)
		if category != "" && !containsFold(names, category) {
			continue
		}
		items = append(items, s.enrich(product, names, promotions, now))
	}

	return items
}

// ProductByID returns one product with its pricing resolved
func (s *Service) ProductByID(id uint) (*CatalogItem, error) {
	for _, product := range s.mirror.Products() {
		if product.ID == id {
			names := product.CategoryNames(s.config.Storefront.DefaultCategory)
			item := s.enrich(product, names, s.mirror.Promotions(), time.Now().UTC())
			return &item, nil
		}
	}
	return nil, fmt.Errorf("product not found")
}

// Categories returns the current category snapshot
func (s *Service) Categories() []catalog.Category {
	return s.mirror.Categories()
}

// Badges returns the current badge snapshot
func (s *Service) Badges() []catalog.FeaturedBadge {
	return s.mirror.Badges()
}

// ValidateCoupon checks a code against the current coupon snapshot. A nil
// result means no discount applies; it is not an error.
func (s *Service) ValidateCoupon(code string) *coupon.Coupon {
	return pricing.ValidateCoupon(code, s.mirror.Coupons(), time.Now().UTC())
}

func (s *Service) enrich(product catalog.Product, categories []string, promotions []promotion.Promotion, now time.Time) CatalogItem {
	promo := pricing.ResolveEffectivePromotion(product.ID, promotions, now)
	return CatalogItem{
		Product:        product,
		Categories:     categories,
		EffectivePrice: pricing.EffectivePrice(product.OriginalPrice, promo),
		Promotion:      promo,
	}
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

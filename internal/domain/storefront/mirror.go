// internal/domain/storefront/mirror.go
package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/digitalstore-backend/internal/domain/catalog"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"gorm.io/gorm"
)

// Loader reads current collections from the system of record. The mirror
// depends only on this interface, never on the storage or delivery mechanism.
type Loader interface {
	LoadProducts(ctx context.Context) ([]catalog.Product, error)
	LoadCategories(ctx context.Context) ([]catalog.Category, error)
	LoadPromotions(ctx context.Context) ([]promotion.Promotion, error)
	LoadCoupons(ctx context.Context) ([]coupon.Coupon, error)
	LoadBadges(ctx context.Context) ([]catalog.FeaturedBadge, error)
}

// Mirror holds local snapshots of the storefront collections. Each collection
// is loaded once at startup and refreshed when the change feed reports a
// mutation in the corresponding table. Snapshot reads never touch storage.
type Mirror struct {
	mu     sync.RWMutex
	loader Loader

	products   []catalog.Product
	categories []catalog.Category
	promotions []promotion.Promotion
	coupons    []coupon.Coupon
	badges     []catalog.FeaturedBadge
}

// NewMirror creates a mirror backed by the given loader
func NewMirror(loader Loader) *Mirror {
	return &Mirror{
		loader: loader,
	}
}

// Load performs the initial read of all mirrored collections
func (m *Mirror) Load(ctx context.Context) error {
	for _, table := range []string{"products", "categories", "promotions", "coupons", "featured_badges"} {
		if err := m.reload(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

// Run consumes change events until the context is cancelled. A failed refresh
// is logged and retried on the next event for that table.
func (m *Mirror) Run(ctx context.Context, events <-chan changefeed.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := m.Apply(ctx, event); err != nil {
				logrus.WithFields(logrus.Fields{
					"table": event.Table,
					"op":    event.Op,
					"id":    event.ID,
				}).WithError(err).Warn("Failed to apply change event")
			}
		}
	}
}

// Apply refreshes the collection the event belongs to. Category and badge
// events also refresh products: deleting a category reassigns products and
// deleting a badge clears their badge reference, and the product snapshot
// embeds both through its preloads.
func (m *Mirror) Apply(ctx context.Context, event changefeed.Event) error {
	if err := m.reload(ctx, event.Table); err != nil {
		return err
	}

	switch event.Table {
	case "categories", "featured_badges":
		return m.reload(ctx, "products")
	}
	return nil
}

func (m *Mirror) reload(ctx context.Context, table string) error {
	switch table {
	case "products":
		products, err := m.loader.LoadProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to reload products: %w", err)
		}
		m.mu.Lock()
		m.products = products
		m.mu.Unlock()
	case "categories":
		categories, err := m.loader.LoadCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to reload categories: %w", err)
		}
		m.mu.Lock()
		m.categories = categories
		m.mu.Unlock()
	case "promotions":
		promotions, err := m.loader.LoadPromotions(ctx)
		if err != nil {
			return fmt.Errorf("failed to reload promotions: %w", err)
		}
		m.mu.Lock()
		m.promotions = promotions
		m.mu.Unlock()
	case "coupons":
		coupons, err := m.loader.LoadCoupons(ctx)
		if err != nil {
			return fmt.Errorf("failed to reload coupons: %w", err)
		}
		m.mu.Lock()
		m.coupons = coupons
		m.mu.Unlock()
	case "featured_badges":
		badges, err := m.loader.LoadBadges(ctx)
		if err != nil {
			return fmt.Errorf("failed to reload badges: %w", err)
		}
		m.mu.Lock()
		m.badges = badges
		m.mu.Unlock()
	default:
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}

// Products returns a copy of the current product snapshot
func (m *Mirror) Products() []catalog.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]catalog.Product(nil), m.products...)
}

// Categories returns a copy of the current category snapshot
func (m *Mirror) Categories() []catalog.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]catalog.Category(nil), m.categories...)
}

// Promotions returns a copy of the current promotion snapshot
func (m *Mirror) Promotions() []promotion.Promotion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]promotion.Promotion(nil), m.promotions...)
}

// Coupons returns a copy of the current coupon snapshot
func (m *Mirror) Coupons() []coupon.Coupon {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]coupon.Coupon(nil), m.coupons...)
}

// Badges returns a copy of the current badge snapshot
func (m *Mirror) Badges() []catalog.FeaturedBadge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]catalog.FeaturedBadge(nil), m.badges...)
}

// GormLoader reads the mirrored collections from Postgres
type GormLoader struct {
	db *gorm.DB
}

// NewGormLoader creates a database-backed loader
func NewGormLoader(db *gorm.DB) *GormLoader {
	return &GormLoader{db: db}
}

// LoadProducts reads all products with categories and badges preloaded
func (l *GormLoader) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	err := l.db.WithContext(ctx).
		Preload("Badge").
		Preload("Categories").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// LoadCategories reads all categories
func (l *GormLoader) LoadCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	err := l.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// LoadPromotions reads all promotions
func (l *GormLoader) LoadPromotions(ctx context.Context) ([]promotion.Promotion, error) {
	var promotions []promotion.Promotion
	err := l.db.WithContext(ctx).Order("created_at DESC").Find(&promotions).Error
	return promotions, err
}

// LoadCoupons reads all coupons
func (l *GormLoader) LoadCoupons(ctx context.Context) ([]coupon.Coupon, error) {
	var coupons []coupon.Coupon
	err := l.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

// LoadBadges reads all featured badges
func (l *GormLoader) LoadBadges(ctx context.Context) ([]catalog.FeaturedBadge, error) {
	var badges []catalog.FeaturedBadge
	err := l.db.WithContext(ctx).Order("created_at ASC").Find(&badges).Error
	return badges, err
}

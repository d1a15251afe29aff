// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/digitalstore-backend/internal/config"
	"github.com/your-org/digitalstore-backend/internal/domain/catalog"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/order"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: badges before products, products before promotions.
	models := []interface{}{
		&catalog.FeaturedBadge{},
		&catalog.Category{},
		&catalog.Product{},
		&promotion.Promotion{},
		&coupon.Coupon{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(featured)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Promotion indexes
		"CREATE INDEX IF NOT EXISTS idx_promotions_product_active ON promotions(product_id, active)",
		"CREATE INDEX IF NOT EXISTS idx_promotions_end_date ON promotions(end_date)",

		// Coupon indexes
		"CREATE INDEX IF NOT EXISTS idx_coupons_code_active ON coupons(code, active)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the default category and development sample data
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	// The default category always exists so products are never uncategorized.
	var defaultCategory catalog.Category
	err := m.db.Where(catalog.Category{Name: m.config.Storefront.DefaultCategory}).
		FirstOrCreate(&defaultCategory).Error
	if err != nil {
		return fmt.Errorf("failed to seed default category: %w", err)
	}

	// Sample data only in development
	if !m.config.IsDevelopment() {
		return nil
	}

	var productCount int64
	m.db.Model(&catalog.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Println("⏭️ Sample data already present, skipping")
		return nil
	}

	badge := catalog.FeaturedBadge{
		Name:  "Best Seller",
		Emoji: "🔥",
		Color: "#f59e0b",
	}
	if err := m.db.Create(&badge).Error; err != nil {
		return fmt.Errorf("failed to seed badge: %w", err)
	}

	ebooks := catalog.Category{Name: "E-books"}
	templates := catalog.Category{Name: "Templates"}
	for _, c := range []*catalog.Category{&ebooks, &templates} {
		if err := m.db.Create(c).Error; err != nil {
			return fmt.Errorf("failed to seed category: %w", err)
		}
	}

	products := []catalog.Product{
		{
			Title:         "Productivity Playbook",
			Description:   "A complete guide to getting more done with less effort.",
			Image:         "https://example.com/images/playbook.png",
			Images:        []string{"https://example.com/images/playbook.png"},
			OriginalPrice: decimal.NewFromFloat(49.90),
			Featured:      true,
			BadgeID:       &badge.ID,
			PageLayout:    "default",
			Categories:    []catalog.Category{ebooks},
		},
		{
			Title:         "Landing Page Template Pack",
			Description:   "Twelve conversion-focused landing page templates.",
			Image:         "https://example.com/images/templates.png",
			Images:        []string{"https://example.com/images/templates.png"},
			OriginalPrice: decimal.NewFromFloat(89.00),
			PageLayout:    "detailed",
			Categories:    []catalog.Category{templates},
		},
	}

	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product: %w", err)
		}
	}

	promo := promotion.Promotion{
		ProductID:          products[0].ID,
		Active:             true,
		DiscountPercentage: decimal.NewFromInt(20),
		BadgeText:          "20% OFF",
		BadgeColor:         "#dc2626",
		BadgeTextColor:     "#ffffff",
		BadgeStyle:         "glow",
	}
	if err := m.db.Create(&promo).Error; err != nil {
		return fmt.Errorf("failed to seed promotion: %w", err)
	}

	welcome := coupon.Coupon{
		Code:          "WELCOME10",
		DiscountType:  coupon.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		Active:        true,
	}
	if err := m.db.Create(&welcome).Error; err != nil {
		return fmt.Errorf("failed to seed coupon: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// GetTableInfo logs row counts for the main tables
func (m *Migration) GetTableInfo() {
	tables := []string{"products", "categories", "featured_badges", "promotions", "coupons", "orders"}

	log.Println("📊 Database table info:")
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("  %s: error (%v)", table, err)
			continue
		}
		log.Printf("  %s: %d rows", table, count)
	}
}

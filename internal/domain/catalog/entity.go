// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a digital good in the storefront catalog
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"not null;size:255" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Image         string          `gorm:"size:500" json:"image"`
	Images        []string        `gorm:"serializer:json" json:"images"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"original_price"`
	Featured      bool            `gorm:"default:false" json:"featured"`
	BadgeID       *uint           `gorm:"index" json:"badge_id,omitempty"`
	PageLayout    string          `gorm:"size:50;default:'default'" json:"page_layout"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Badge      *FeaturedBadge `gorm:"foreignKey:BadgeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"badge,omitempty"`
	Categories []Category     `gorm:"many2many:product_categories;" json:"categories"`
}

// Category represents a product category
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null;size:255" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"many2many:product_categories;" json:"products,omitempty"`
}

// FeaturedBadge represents a display badge that can be attached to products
type FeaturedBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Emoji     string    `gorm:"size:20" json:"emoji"`
	Color     string    `gorm:"size:50" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string       { return "products" }
func (Category) TableName() string      { return "categories" }
func (FeaturedBadge) TableName() string { return "featured_badges" }

// CategoryNames returns the product's category names, falling back to the
// sentinel default when the product has no categories assigned.
func (p *Product) CategoryNames(defaultCategory string) []string {
	if len(p.Categories) == 0 {
		return []string{defaultCategory}
	}
	names := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		names[i] = c.Name
	}
	return names
}

// PrimaryImage returns the first gallery image, falling back to the cover image.
func (p *Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.Image
}

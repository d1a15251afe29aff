// internal/domain/promotion/entity.go
package promotion

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Promotion represents a product-scoped discount with badge display attributes.
// At most one active promotion per product is a convention enforced by the
// admin console, never by the data layer.
type Promotion struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ProductID          uint            `gorm:"not null;index" json:"product_id"`
	Active             bool            `gorm:"default:false" json:"active"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	BadgeText          string          `gorm:"size:100" json:"badge_text"`
	BadgeColor         string          `gorm:"size:50" json:"badge_color"`
	BadgeTextColor     string          `gorm:"size:50" json:"badge_text_color"`
	BadgeStyle         string          `gorm:"size:20;default:'default'" json:"badge_style"`
	StartDate          *time.Time      `json:"start_date,omitempty"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Promotion) TableName() string {
	return "promotions"
}

// IsInEffect reports whether the promotion applies at the given instant:
// the active flag is set and the end date, if any, has not passed. The start
// date is stored for display but does not gate the promotion.
func (p *Promotion) IsInEffect(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(now) {
		return false
	}
	return true
}

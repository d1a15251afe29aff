// internal/domain/coupon/entity.go
package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountType enumerates the supported coupon discount strategies
type DiscountType string

const (
	// DiscountPercentage applies a percentage of the cart subtotal
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a flat amount, uncapped; the cart total is
	// clamped to zero downstream
	DiscountFixed DiscountType = "fixed"
)

// Coupon represents a discount code redeemable against the cart subtotal
type Coupon struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"uniqueIndex;not null;size:100" json:"code"`
	DiscountType  DiscountType    `gorm:"not null;size:20" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	UsageLimit    *int            `json:"usage_limit,omitempty"`
	UsedCount     int             `gorm:"default:0" json:"used_count"`
	Active        bool            `gorm:"default:true" json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}

// MatchesCode reports whether the coupon's code equals the given code,
// ignoring case.
func (c *Coupon) MatchesCode(code string) bool {
	return strings.EqualFold(c.Code, code)
}

// IsValid reports whether the coupon is redeemable at the given instant:
// active, unexpired, and under its usage limit.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiryDate != nil && c.ExpiryDate.Before(now) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}

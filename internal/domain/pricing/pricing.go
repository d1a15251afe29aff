// internal/domain/pricing/pricing.go
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
)

// Line is the minimal view of a cart line item the totals calculation needs:
// the unit price snapshotted at add time and the quantity.
type Line struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Totals holds the derived cart amounts. They are always recomputed from the
// current line items and applied coupon, never stored.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ResolveEffectivePromotion returns the promotion in effect for the given
// product, or nil when no discount applies. The first active match wins;
// uniqueness of active promotions per product is a convention, not enforced
// here. A selected promotion whose end date has passed resolves to nil even
// though its active flag is still set in storage. The start date does not
// gate resolution.
func ResolveEffectivePromotion(productID uint, promotions []promotion.Promotion, now time.Time) *promotion.Promotion {
	for i := range promotions {
		p := &promotions[i]
		if p.ProductID != productID || !p.Active {
			continue
		}
		if p.EndDate != nil && p.EndDate.Before(now) {
			return nil
		}
		return p
	}
	return nil
}

// EffectivePrice returns the price to display and charge for a product given
// its base price and the promotion in effect, if any. The discount percentage
// is applied as-is: out-of-range values are computed faithfully, not clamped,
// and the result is not rounded. Currency rounding happens at display time.
func EffectivePrice(basePrice decimal.Decimal, promo *promotion.Promotion) decimal.Decimal {
	if promo == nil {
		return basePrice
	}
	factor := decimal.NewFromInt(1).Sub(promo.DiscountPercentage.Div(decimal.NewFromInt(100)))
	return basePrice.Mul(factor)
}

// ValidateCoupon matches the code case-insensitively against the known
// coupons and returns the coupon when it is redeemable, nil otherwise.
// Absence is the normal "no discount applies" outcome, not a failure.
// Validation has no side effects; the used count is not incremented.
func ValidateCoupon(code string, coupons []coupon.Coupon, now time.Time) *coupon.Coupon {
	for i := range coupons {
		c := &coupons[i]
		if !c.MatchesCode(code) {
			continue
		}
		if !c.IsValid(now) {
			return nil
		}
		return c
	}
	return nil
}

// ComputeTotals derives the cart subtotal, discount, and total from the line
// items and the applied coupon. A fixed discount is not capped at the
// subtotal; instead the total is clamped to zero so it never goes negative.
func ComputeTotals(lines []Line, applied *coupon.Coupon) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discount := decimal.Zero
	if applied != nil {
		switch applied.DiscountType {
		case coupon.DiscountPercentage:
			discount = subtotal.Mul(applied.DiscountValue).Div(decimal.NewFromInt(100))
		case coupon.DiscountFixed:
			discount = applied.DiscountValue
		}
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}

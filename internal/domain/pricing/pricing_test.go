// internal/domain/pricing/pricing_test.go
package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func intPtr(v int) *int {
	return &v
}

func TestResolveEffectivePromotion(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		productID  uint
		promotions []promotion.Promotion
		wantID     uint
		wantNil    bool
	}{
		{
			name:      "active promotion for product",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: true, DiscountPercentage: dec("20")},
			},
			wantID: 10,
		},
		{
			name:      "no promotion for product",
			productID: 2,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: true, DiscountPercentage: dec("20")},
			},
			wantNil: true,
		},
		{
			name:      "inactive promotion skipped",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: false, DiscountPercentage: dec("20")},
			},
			wantNil: true,
		},
		{
			name:      "inactive skipped in favor of later active",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: false, DiscountPercentage: dec("20")},
				{ID: 11, ProductID: 1, Active: true, DiscountPercentage: dec("30")},
			},
			wantID: 11,
		},
		{
			name:      "first active match wins",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: true, DiscountPercentage: dec("20")},
				{ID: 11, ProductID: 1, Active: true, DiscountPercentage: dec("30")},
			},
			wantID: 10,
		},
		{
			name:      "expired end date resolves to nil",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: true, DiscountPercentage: dec("20"), EndDate: timePtr(now.Add(-time.Hour))},
			},
			wantNil: true,
		},
		{
			name:      "end date exactly now still in effect",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: true, DiscountPercentage: dec("20"), EndDate: timePtr(now)},
			},
			wantID: 10,
		},
		{
			name:      "future start date does not gate",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: true, DiscountPercentage: dec("20"), StartDate: timePtr(now.Add(24 * time.Hour))},
			},
			wantID: 10,
		},
		{
			name:      "expired match shadows later valid promotion",
			productID: 1,
			promotions: []promotion.Promotion{
				{ID: 10, ProductID: 1, Active: true, DiscountPercentage: dec("20"), EndDate: timePtr(now.Add(-time.Hour))},
				{ID: 11, ProductID: 1, Active: true, DiscountPercentage: dec("30")},
			},
			wantNil: true,
		},
		{
			name:       "empty promotion list",
			productID:  1,
			promotions: nil,
			wantNil:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveEffectivePromotion(tt.productID, tt.promotions, now)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name  string
		base  decimal.Decimal
		promo *promotion.Promotion
		want  decimal.Decimal
	}{
		{
			name:  "nil promotion returns base unchanged",
			base:  dec("49.90"),
			promo: nil,
			want:  dec("49.90"),
		},
		{
			name:  "twenty percent off",
			base:  dec("100"),
			promo: &promotion.Promotion{DiscountPercentage: dec("20")},
			want:  dec("80"),
		},
		{
			name:  "zero percent is identity",
			base:  dec("100"),
			promo: &promotion.Promotion{DiscountPercentage: dec("0")},
			want:  dec("100"),
		},
		{
			name:  "hundred percent is free",
			base:  dec("100"),
			promo: &promotion.Promotion{DiscountPercentage: dec("100")},
			want:  dec("0"),
		},
		{
			name:  "fractional percentage not rounded",
			base:  dec("10"),
			promo: &promotion.Promotion{DiscountPercentage: dec("33.33")},
			want:  dec("6.667"),
		},
		{
			name:  "over one hundred percent goes negative",
			base:  dec("100"),
			promo: &promotion.Promotion{DiscountPercentage: dec("150")},
			want:  dec("-50"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectivePrice(tt.base, tt.promo)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestValidateCoupon(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	coupons := []coupon.Coupon{
		{ID: 1, Code: "WELCOME10", DiscountType: coupon.DiscountPercentage, DiscountValue: dec("10"), Active: true},
		{ID: 2, Code: "EXPIRED", DiscountType: coupon.DiscountFixed, DiscountValue: dec("5"), Active: true, ExpiryDate: timePtr(now.Add(-time.Hour))},
		{ID: 3, Code: "INACTIVE", DiscountType: coupon.DiscountFixed, DiscountValue: dec("5"), Active: false},
		{ID: 4, Code: "MAXED", DiscountType: coupon.DiscountFixed, DiscountValue: dec("5"), Active: true, UsageLimit: intPtr(3), UsedCount: 3},
		{ID: 5, Code: "ALMOST", DiscountType: coupon.DiscountFixed, DiscountValue: dec("5"), Active: true, UsageLimit: intPtr(3), UsedCount: 2},
		{ID: 6, Code: "TODAY", DiscountType: coupon.DiscountFixed, DiscountValue: dec("5"), Active: true, ExpiryDate: timePtr(now)},
	}

	tests := []struct {
		name    string
		code    string
		wantID  uint
		wantNil bool
	}{
		{name: "exact match", code: "WELCOME10", wantID: 1},
		{name: "case-insensitive match", code: "welcome10", wantID: 1},
		{name: "mixed case match", code: "Welcome10", wantID: 1},
		{name: "unknown code", code: "NOPE", wantNil: true},
		{name: "expired coupon", code: "EXPIRED", wantNil: true},
		{name: "inactive coupon", code: "INACTIVE", wantNil: true},
		{name: "usage limit reached", code: "MAXED", wantNil: true},
		{name: "under usage limit", code: "ALMOST", wantID: 5},
		{name: "expiry exactly now still valid", code: "TODAY", wantID: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCoupon(tt.code, coupons, now)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestValidateCouponHasNoSideEffects(t *testing.T) {
	now := time.Now().UTC()
	coupons := []coupon.Coupon{
		{ID: 1, Code: "SIDE", DiscountType: coupon.DiscountPercentage, DiscountValue: dec("10"), Active: true, UsedCount: 7},
	}

	got := ValidateCoupon("SIDE", coupons, now)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.UsedCount)
	assert.Equal(t, 7, coupons[0].UsedCount)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []Line
		applied      *coupon.Coupon
		wantSubtotal decimal.Decimal
		wantDiscount decimal.Decimal
		wantTotal    decimal.Decimal
	}{
		{
			name:         "empty cart",
			lines:        nil,
			wantSubtotal: dec("0"),
			wantDiscount: dec("0"),
			wantTotal:    dec("0"),
		},
		{
			name: "no coupon",
			lines: []Line{
				{UnitPrice: dec("49.90"), Quantity: 2},
				{UnitPrice: dec("89.00"), Quantity: 1},
			},
			wantSubtotal: dec("188.80"),
			wantDiscount: dec("0"),
			wantTotal:    dec("188.80"),
		},
		{
			name: "percentage coupon",
			lines: []Line{
				{UnitPrice: dec("100"), Quantity: 2},
			},
			applied:      &coupon.Coupon{DiscountType: coupon.DiscountPercentage, DiscountValue: dec("10")},
			wantSubtotal: dec("200"),
			wantDiscount: dec("20"),
			wantTotal:    dec("180"),
		},
		{
			name: "fixed coupon",
			lines: []Line{
				{UnitPrice: dec("100"), Quantity: 1},
			},
			applied:      &coupon.Coupon{DiscountType: coupon.DiscountFixed, DiscountValue: dec("30")},
			wantSubtotal: dec("100"),
			wantDiscount: dec("30"),
			wantTotal:    dec("70"),
		},
		{
			name: "fixed coupon larger than subtotal clamps total to zero",
			lines: []Line{
				{UnitPrice: dec("10"), Quantity: 1},
			},
			applied:      &coupon.Coupon{DiscountType: coupon.DiscountFixed, DiscountValue: dec("50")},
			wantSubtotal: dec("10"),
			wantDiscount: dec("50"),
			wantTotal:    dec("0"),
		},
		{
			name: "fixed coupon equal to subtotal",
			lines: []Line{
				{UnitPrice: dec("50"), Quantity: 1},
			},
			applied:      &coupon.Coupon{DiscountType: coupon.DiscountFixed, DiscountValue: dec("50")},
			wantSubtotal: dec("50"),
			wantDiscount: dec("50"),
			wantTotal:    dec("0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, tt.applied)
			assert.True(t, tt.wantSubtotal.Equal(got.Subtotal), "subtotal: want %s, got %s", tt.wantSubtotal, got.Subtotal)
			assert.True(t, tt.wantDiscount.Equal(got.Discount), "discount: want %s, got %s", tt.wantDiscount, got.Discount)
			assert.True(t, tt.wantTotal.Equal(got.Total), "total: want %s, got %s", tt.wantTotal, got.Total)
		})
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("99.99"), Quantity: 3},
	}
	applied := &coupon.Coupon{DiscountType: coupon.DiscountPercentage, DiscountValue: dec("15")}

	first := ComputeTotals(lines, applied)
	second := ComputeTotals(lines, applied)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Discount.Equal(second.Discount))
	assert.True(t, first.Total.Equal(second.Total))
}

// A promotion-discounted unit price flowing into the totals with a fixed
// coupon on top, end to end through the pricing functions.
func TestPromotionThenCouponFlow(t *testing.T) {
	now := time.Now().UTC()

	promotions := []promotion.Promotion{
		{ID: 1, ProductID: 7, Active: true, DiscountPercentage: dec("20")},
	}

	promo := ResolveEffectivePromotion(7, promotions, now)
	require.NotNil(t, promo)

	unit := EffectivePrice(dec("100"), promo)
	assert.True(t, dec("80").Equal(unit), "want 80, got %s", unit)

	totals := ComputeTotals(
		[]Line{{UnitPrice: unit, Quantity: 2}},
		&coupon.Coupon{DiscountType: coupon.DiscountFixed, DiscountValue: dec("10")},
	)

	assert.True(t, dec("160").Equal(totals.Subtotal), "subtotal: got %s", totals.Subtotal)
	assert.True(t, dec("10").Equal(totals.Discount), "discount: got %s", totals.Discount)
	assert.True(t, dec("150").Equal(totals.Total), "total: got %s", totals.Total)
}

// internal/domain/cart/service_test.go
package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
)

func newTestService() *Service {
	return NewService(NewMemoryStore())
}

func addRequest(productID uint, price string) *AddItemRequest {
	return &AddItemRequest{
		ProductID: productID,
		Title:     "Test Product",
		Image:     "https://example.com/p.png",
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestGetCartStartsEmpty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.GetCart(ctx, "session-1")
	require.NoError(t, err)

	assert.Equal(t, "session-1", resp.SessionID)
	assert.Empty(t, resp.Items)
	assert.Nil(t, resp.Coupon)
	assert.Equal(t, 0, resp.ItemCount)
	assert.True(t, resp.Totals.Total.IsZero())
}

func TestAddItemNewLine(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.AddItem(ctx, "session-1", addRequest(1, "49.90"))
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, uint(1), resp.Items[0].ProductID)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("49.90").Equal(resp.Items[0].UnitPrice))
	assert.Equal(t, 1, resp.ItemCount)
}

func TestAddItemTwiceIncrementsQuantityKeepsPrice(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "100"))
	require.NoError(t, err)

	// The product got cheaper between adds; the snapshotted price stays.
	resp, err := svc.AddItem(ctx, "session-1", addRequest(1, "80"))
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("100").Equal(resp.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("200").Equal(resp.Totals.Subtotal))
}

func TestAddItemPreservesOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(3, "10"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "session-1", addRequest(1, "20"))
	require.NoError(t, err)
	resp, err := svc.AddItem(ctx, "session-1", addRequest(2, "30"))
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	assert.Equal(t, uint(3), resp.Items[0].ProductID)
	assert.Equal(t, uint(1), resp.Items[1].ProductID)
	assert.Equal(t, uint(2), resp.Items[2].ProductID)
}

func TestUpdateQuantity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "10"))
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "session-1", 1, 5)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.Equal(t, 5, resp.ItemCount)
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "10"))
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "session-1", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestUpdateQuantityNegativeRemovesItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "10"))
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "session-1", 1, -3)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestUpdateQuantityAbsentItemIsNoop(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "10"))
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "session-1", 99, 5)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, uint(1), resp.Items[0].ProductID)
	assert.Equal(t, 1, resp.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "10"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "session-1", addRequest(2, "20"))
	require.NoError(t, err)

	resp, err := svc.RemoveItem(ctx, "session-1", 1)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, uint(2), resp.Items[0].ProductID)
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "10"))
	require.NoError(t, err)

	resp, err := svc.RemoveItem(ctx, "session-1", 99)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestApplyCouponReplacesExisting(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "100"))
	require.NoError(t, err)

	first := coupon.Coupon{ID: 1, Code: "FIRST", DiscountType: coupon.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true}
	second := coupon.Coupon{ID: 2, Code: "SECOND", DiscountType: coupon.DiscountFixed, DiscountValue: decimal.NewFromInt(25), Active: true}

	_, err = svc.ApplyCoupon(ctx, "session-1", first)
	require.NoError(t, err)

	resp, err := svc.ApplyCoupon(ctx, "session-1", second)
	require.NoError(t, err)

	require.NotNil(t, resp.Coupon)
	assert.Equal(t, "SECOND", resp.Coupon.Code)
	assert.True(t, decimal.NewFromInt(25).Equal(resp.Totals.Discount))
	assert.True(t, decimal.NewFromInt(75).Equal(resp.Totals.Total))
}

func TestRemoveCoupon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "100"))
	require.NoError(t, err)

	applied := coupon.Coupon{ID: 1, Code: "TEN", DiscountType: coupon.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true}
	_, err = svc.ApplyCoupon(ctx, "session-1", applied)
	require.NoError(t, err)

	resp, err := svc.RemoveCoupon(ctx, "session-1")
	require.NoError(t, err)

	assert.Nil(t, resp.Coupon)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Totals.Total))
}

func TestClearCartKeepsCoupon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "100"))
	require.NoError(t, err)

	applied := coupon.Coupon{ID: 1, Code: "KEEPME", DiscountType: coupon.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true}
	_, err = svc.ApplyCoupon(ctx, "session-1", applied)
	require.NoError(t, err)

	resp, err := svc.ClearCart(ctx, "session-1")
	require.NoError(t, err)

	assert.Empty(t, resp.Items)
	require.NotNil(t, resp.Coupon)
	assert.Equal(t, "KEEPME", resp.Coupon.Code)
	assert.True(t, resp.Totals.Total.IsZero())
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "10"))
	require.NoError(t, err)

	resp, err := svc.GetCart(ctx, "session-2")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCartSurvivesReload(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", addRequest(1, "49.90"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "session-1", addRequest(1, "49.90"))
	require.NoError(t, err)

	// A fresh service over the same store sees the persisted snapshot.
	reloaded := NewService(store)
	resp, err := reloaded.GetCart(ctx, "session-1")
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("99.80").Equal(resp.Totals.Subtotal))
}

func TestMemoryStoreCorruptSnapshotYieldsEmptyCart(t *testing.T) {
	store := NewMemoryStore()
	store.carts["session-1"] = []byte("{not json")

	svc := NewService(store)
	resp, err := svc.GetCart(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

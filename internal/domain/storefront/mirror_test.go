// internal/domain/storefront/mirror_test.go
package storefront

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/digitalstore-backend/internal/config"
	"github.com/your-org/digitalstore-backend/internal/domain/catalog"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
)

// stubLoader serves canned collections and counts reloads per table
type stubLoader struct {
	products   []catalog.Product
	categories []catalog.Category
	promotions []promotion.Promotion
	coupons    []coupon.Coupon
	badges     []catalog.FeaturedBadge

	loads map[string]int
	fail  map[string]bool
}

func newStubLoader() *stubLoader {
	return &stubLoader{
		loads: make(map[string]int),
		fail:  make(map[string]bool),
	}
}

func (l *stubLoader) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	l.loads["products"]++
	if l.fail["products"] {
		return nil, fmt.Errorf("load failed")
	}
	return l.products, nil
}

func (l *stubLoader) LoadCategories(ctx context.Context) ([]catalog.Category, error) {
	l.loads["categories"]++
	if l.fail["categories"] {
		return nil, fmt.Errorf("load failed")
	}
	return l.categories, nil
}

func (l *stubLoader) LoadPromotions(ctx context.Context) ([]promotion.Promotion, error) {
	l.loads["promotions"]++
	if l.fail["promotions"] {
		return nil, fmt.Errorf("load failed")
	}
	return l.promotions, nil
}

func (l *stubLoader) LoadCoupons(ctx context.Context) ([]coupon.Coupon, error) {
	l.loads["coupons"]++
	if l.fail["coupons"] {
		return nil, fmt.Errorf("load failed")
	}
	return l.coupons, nil
}

func (l *stubLoader) LoadBadges(ctx context.Context) ([]catalog.FeaturedBadge, error) {
	l.loads["featured_badges"]++
	if l.fail["featured_badges"] {
		return nil, fmt.Errorf("load failed")
	}
	return l.badges, nil
}

func TestMirrorLoadReadsAllCollections(t *testing.T) {
	loader := newStubLoader()
	loader.products = []catalog.Product{{ID: 1, Title: "Playbook"}}
	loader.categories = []catalog.Category{{ID: 1, Name: "E-books"}}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	assert.Len(t, mirror.Products(), 1)
	assert.Len(t, mirror.Categories(), 1)
	assert.Empty(t, mirror.Promotions())

	for _, table := range []string{"products", "categories", "promotions", "coupons", "featured_badges"} {
		assert.Equal(t, 1, loader.loads[table], "table %s", table)
	}
}

func TestMirrorApplyRefreshesOnlyAffectedTable(t *testing.T) {
	loader := newStubLoader()
	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	loader.products = []catalog.Product{{ID: 1, Title: "New Product"}}

	err := mirror.Apply(context.Background(), changefeed.Event{
		Table: "products",
		Op:    changefeed.OpInsert,
		ID:    1,
	})
	require.NoError(t, err)

	assert.Len(t, mirror.Products(), 1)
	assert.Equal(t, 2, loader.loads["products"])
	assert.Equal(t, 1, loader.loads["promotions"])
}

func TestMirrorApplyCategoryEventRefreshesProducts(t *testing.T) {
	loader := newStubLoader()
	loader.products = []catalog.Product{
		{ID: 1, Title: "Book", Categories: []catalog.Category{{ID: 5, Name: "Doomed"}}},
	}
	loader.categories = []catalog.Category{{ID: 5, Name: "Doomed"}}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	// The category is deleted and the product reassigned to the default.
	loader.categories = nil
	loader.products = []catalog.Product{{ID: 1, Title: "Book"}}

	err := mirror.Apply(context.Background(), changefeed.Event{
		Table: "categories",
		Op:    changefeed.OpDelete,
		ID:    5,
	})
	require.NoError(t, err)

	assert.Empty(t, mirror.Categories())
	products := mirror.Products()
	require.Len(t, products, 1)
	assert.Empty(t, products[0].Categories)
	assert.Equal(t, 2, loader.loads["products"])

	service := NewService(mirror, testConfig())
	items := service.Catalog("")
	require.Len(t, items, 1)
	assert.Equal(t, []string{"Uncategorized"}, items[0].Categories)
}

func TestMirrorApplyBadgeEventRefreshesProducts(t *testing.T) {
	badgeID := uint(3)
	loader := newStubLoader()
	loader.badges = []catalog.FeaturedBadge{{ID: badgeID, Name: "Hot"}}
	loader.products = []catalog.Product{
		{ID: 1, Title: "Book", BadgeID: &badgeID, Badge: &catalog.FeaturedBadge{ID: badgeID, Name: "Hot"}},
	}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	// The badge is deleted and the FK clears the product's reference.
	loader.badges = nil
	loader.products = []catalog.Product{{ID: 1, Title: "Book"}}

	err := mirror.Apply(context.Background(), changefeed.Event{
		Table: "featured_badges",
		Op:    changefeed.OpDelete,
		ID:    badgeID,
	})
	require.NoError(t, err)

	products := mirror.Products()
	require.Len(t, products, 1)
	assert.Nil(t, products[0].Badge)
	assert.Nil(t, products[0].BadgeID)
	assert.Equal(t, 2, loader.loads["products"])
}

func TestMirrorApplyUnknownTable(t *testing.T) {
	mirror := NewMirror(newStubLoader())

	err := mirror.Apply(context.Background(), changefeed.Event{Table: "users"})
	assert.Error(t, err)
}

func TestMirrorApplyLoadFailureKeepsOldSnapshot(t *testing.T) {
	loader := newStubLoader()
	loader.products = []catalog.Product{{ID: 1, Title: "Kept"}}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	loader.fail["products"] = true
	err := mirror.Apply(context.Background(), changefeed.Event{Table: "products", Op: changefeed.OpUpdate, ID: 1})
	require.Error(t, err)

	products := mirror.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Kept", products[0].Title)
}

func TestMirrorAccessorsReturnCopies(t *testing.T) {
	loader := newStubLoader()
	loader.products = []catalog.Product{{ID: 1, Title: "Original"}}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	snapshot := mirror.Products()
	snapshot[0].Title = "Mutated"

	assert.Equal(t, "Original", mirror.Products()[0].Title)
}

func testConfig() *config.Config {
	return &config.Config{
		Storefront: config.StorefrontConfig{
			DefaultCategory: "Uncategorized",
		},
	}
}

func TestCatalogResolvesEffectivePrices(t *testing.T) {
	loader := newStubLoader()
	loader.products = []catalog.Product{
		{ID: 1, Title: "Discounted", OriginalPrice: decimal.NewFromInt(100)},
		{ID: 2, Title: "Full Price", OriginalPrice: decimal.NewFromInt(50)},
	}
	loader.promotions = []promotion.Promotion{
		{ID: 1, ProductID: 1, Active: true, DiscountPercentage: decimal.NewFromInt(20)},
	}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	service := NewService(mirror, testConfig())
	items := service.Catalog("")
	require.Len(t, items, 2)

	byID := map[uint]CatalogItem{}
	for _, item := range items {
		byID[item.Product.ID] = item
	}

	assert.True(t, decimal.NewFromInt(80).Equal(byID[1].EffectivePrice), "got %s", byID[1].EffectivePrice)
	require.NotNil(t, byID[1].Promotion)
	assert.True(t, decimal.NewFromInt(50).Equal(byID[2].EffectivePrice))
	assert.Nil(t, byID[2].Promotion)
}

func TestCatalogCategoryFilter(t *testing.T) {
	loader := newStubLoader()
	loader.products = []catalog.Product{
		{ID: 1, Title: "Book", Categories: []catalog.Category{{ID: 1, Name: "E-books"}}},
		{ID: 2, Title: "Template", Categories: []catalog.Category{{ID: 2, Name: "Templates"}}},
		{ID: 3, Title: "Loose"},
	}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	service := NewService(mirror, testConfig())

	ebooks := service.Catalog("e-books")
	require.Len(t, ebooks, 1)
	assert.Equal(t, uint(1), ebooks[0].Product.ID)

	// A product without categories shows under the default sentinel.
	loose := service.Catalog("Uncategorized")
	require.Len(t, loose, 1)
	assert.Equal(t, uint(3), loose[0].Product.ID)

	all := service.Catalog("")
	assert.Len(t, all, 3)
}

func TestProductByID(t *testing.T) {
	loader := newStubLoader()
	loader.products = []catalog.Product{{ID: 1, Title: "Found", OriginalPrice: decimal.NewFromInt(10)}}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	service := NewService(mirror, testConfig())

	item, err := service.ProductByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Found", item.Product.Title)

	_, err = service.ProductByID(99)
	assert.Error(t, err)
}

func TestValidateCouponAgainstSnapshot(t *testing.T) {
	loader := newStubLoader()
	loader.coupons = []coupon.Coupon{
		{ID: 1, Code: "WELCOME10", DiscountType: coupon.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true},
		{ID: 2, Code: "DEAD", DiscountType: coupon.DiscountFixed, DiscountValue: decimal.NewFromInt(5), Active: false},
	}

	mirror := NewMirror(loader)
	require.NoError(t, mirror.Load(context.Background()))

	service := NewService(mirror, testConfig())

	got := service.ValidateCoupon("welcome10")
	require.NotNil(t, got)
	assert.Equal(t, uint(1), got.ID)

	assert.Nil(t, service.ValidateCoupon("DEAD"))
	assert.Nil(t, service.ValidateCoupon("MISSING"))
}

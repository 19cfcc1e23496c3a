package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/usecase"
)

func newCartUsecase(store *FakeSessionStore, products *ProductRepoMock, coupons *CouponRepoMock) *usecase.CartUsecase {
	cfg := &config.Config{ShippingFee: 1000, TaxRate: 0}
	return usecase.NewCartUsecase(store, products, coupons, cfg)
}

func TestCartAddItem_Success(t *testing.T) {
	ctx := context.Background()
	store := NewFakeSessionStore()
	products := new(ProductRepoMock)
	uc := newCartUsecase(store, products, new(CouponRepoMock))

	products.On("FindByID", mock.Anything, int64(10)).Return(
		model.Product{ID: 10, Name: "Beans", Price: 10000, Stock: 5, Status: model.ProductStatusActive}, nil)

	count, err := uc.AddItem(ctx, 1, 10, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	cart, _ := store.GetCart(ctx, 1)
	assert.Equal(t, int64(2), cart[10].Quantity)
	assert.Equal(t, int64(10000), cart[10].Price)
}

func TestCartAddItem_ExceedsStockWithExistingQuantity(t *testing.T) {
	ctx := context.Background()
	store := NewFakeSessionStore()
	products := new(ProductRepoMock)
	uc := newCartUsecase(store, products, new(CouponRepoMock))

	products.On("FindByID", mock.Anything, int64(10)).Return(
		model.Product{ID: 10, Name: "Beans", Price: 10000, Stock: 3, Status: model.ProductStatusActive}, nil)

	_, err := uc.AddItem(ctx, 1, 10, 2)
	assert.NoError(t, err)

	// 既存2 + 追加2 > 在庫3
	_, err = uc.AddItem(ctx, 1, 10, 2)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Contains(t, he.Message, "only 3 left")
}

func TestCartAddItem_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	products := new(ProductRepoMock)
	uc := newCartUsecase(NewFakeSessionStore(), products, new(CouponRepoMock))

	products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddItem(ctx, 1, 99, 1)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCartUpdateItem_ZeroQuantityRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := NewFakeSessionStore()
	uc := newCartUsecase(store, new(ProductRepoMock), new(CouponRepoMock))

	_ = store.SaveCart(ctx, 1, session.Cart{
		10: {ProductID: 10, Quantity: 2, Price: 10000},
	})

	count, err := uc.UpdateItem(ctx, 1, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	cart, _ := store.GetCart(ctx, 1)
	assert.Empty(t, cart)
}

func TestCartView_PrunesMissingAndInactiveProducts(t *testing.T) {
	ctx := context.Background()
	store := NewFakeSessionStore()
	products := new(ProductRepoMock)
	uc := newCartUsecase(store, products, new(CouponRepoMock))

	_ = store.SaveCart(ctx, 1, session.Cart{
		10: {ProductID: 10, Quantity: 1, Price: 10000, Name: "Beans"},
		11: {ProductID: 11, Quantity: 1, Price: 5000, Name: "Gone"},
		12: {ProductID: 12, Quantity: 1, Price: 7000, Name: "Hidden"},
	})

	products.On("FindByID", mock.Anything, int64(10)).Return(
		model.Product{ID: 10, Name: "Beans", Price: 10000, Stock: 5, Status: model.ProductStatusActive}, nil)
	products.On("FindByID", mock.Anything, int64(11)).Return(model.Product{}, repo.ErrNotFound)
	products.On("FindByID", mock.Anything, int64(12)).Return(
		model.Product{ID: 12, Name: "Hidden", Price: 7000, Stock: 5, Status: model.ProductStatusInactive}, nil)

	view, err := uc.View(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, int64(10000), view.Subtotal)
	assert.Equal(t, int64(1000), view.ShippingCost)
	assert.Equal(t, int64(11000), view.Total)

	// 消えた商品はセッションからも除かれる
	cart, _ := store.GetCart(ctx, 1)
	assert.Len(t, cart, 1)
}

func TestCartView_PriceDriftFollowsCurrentPrice(t *testing.T) {
	ctx := context.Background()
	store := NewFakeSessionStore()
	products := new(ProductRepoMock)
	uc := newCartUsecase(store, products, new(CouponRepoMock))

	// 追加時は10000だったが現在は12000
	_ = store.SaveCart(ctx, 1, session.Cart{
		10: {ProductID: 10, Quantity: 2, Price: 10000, Name: "Beans"},
	})
	products.On("FindByID", mock.Anything, int64(10)).Return(
		model.Product{ID: 10, Name: "Beans", Price: 12000, Stock: 5, Status: model.ProductStatusActive}, nil)

	view, err := uc.View(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(24000), view.Subtotal)

	cart, _ := store.GetCart(ctx, 1)
	assert.Equal(t, int64(12000), cart[10].Price)
}

func TestCartApplyCoupon_BelowMinPurchase(t *testing.T) {
	ctx := context.Background()
	store := NewFakeSessionStore()
	products := new(ProductRepoMock)
	coupons := new(CouponRepoMock)
	uc := newCartUsecase(store, products, coupons)

	_ = store.SaveCart(ctx, 1, session.Cart{
		10: {ProductID: 10, Quantity: 1, Price: 10000, Name: "Beans"},
	})
	products.On("FindByID", mock.Anything, int64(10)).Return(
		model.Product{ID: 10, Name: "Beans", Price: 10000, Stock: 5, Status: model.ProductStatusActive}, nil)

	coupon := model.Coupon{
		ID: 3, Code: "BIGSPENDER", DiscountType: model.DiscountTypeFixed, DiscountValue: 5000,
		MinPurchase: 50000, IsActive: true,
		ValidFrom: time.Now().Add(-time.Hour), ValidUntil: time.Now().Add(time.Hour),
	}
	coupons.On("FindByCode", mock.Anything, "BIGSPENDER").Return(coupon, nil)

	_, err := uc.ApplyCoupon(ctx, 1, "bigspender")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Contains(t, he.Message, "minimum purchase")
}

func TestCartApplyCoupon_Success(t *testing.T) {
	ctx := context.Background()
	store := NewFakeSessionStore()
	products := new(ProductRepoMock)
	coupons := new(CouponRepoMock)
	uc := newCartUsecase(store, products, coupons)

	_ = store.SaveCart(ctx, 1, session.Cart{
		10: {ProductID: 10, Quantity: 2, Price: 10000, Name: "Beans"},
	})
	// カートの実体化は1回で済むはず
	products.On("FindByID", mock.Anything, int64(10)).Return(
		model.Product{ID: 10, Name: "Beans", Price: 10000, Stock: 5, Status: model.ProductStatusActive}, nil).Once()

	coupon := model.Coupon{
		ID: 3, Code: "SAVE10", DiscountType: model.DiscountTypePercentage, DiscountValue: 10,
		IsActive:  true,
		ValidFrom: time.Now().Add(-time.Hour), ValidUntil: time.Now().Add(time.Hour),
	}
	coupons.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	view, err := uc.ApplyCoupon(ctx, 1, " save10 ")
	assert.NoError(t, err)
	assert.Equal(t, int64(2000), view.Discount)
	assert.Equal(t, "SAVE10", view.CouponCode)
	assert.Equal(t, int64(19000), view.Total)

	code, _ := store.GetCouponCode(ctx, 1)
	assert.Equal(t, "SAVE10", code)
	products.AssertExpectations(t)
}

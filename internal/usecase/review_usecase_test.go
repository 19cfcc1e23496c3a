package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

type reviewFixture struct {
	products  *ProductRepoMock
	customers *CustomerRepoMock
	items     *OrderItemRepoMock
	reviews   *ReviewRepoMock
	uc        *usecase.ReviewUsecase
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		products:  new(ProductRepoMock),
		customers: new(CustomerRepoMock),
		items:     new(OrderItemRepoMock),
		reviews:   new(ReviewRepoMock),
	}
	tx := &FakeTxManager{repos: &FakeTxRepos{
		orders:    new(OrderRepoMock),
		items:     f.items,
		products:  f.products,
		inventory: new(InventoryRepoMock),
		coupons:   new(CouponRepoMock),
		customers: f.customers,
		reviews:   f.reviews,
		auditLogs: new(AuditLogRepoMock),
	}}
	f.uc = usecase.NewReviewUsecase(f.products, f.customers, tx)
	return f
}

func TestUpsertReview_VerifiedPurchaseAndRatingRecompute(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	f.products.On("FindBySlug", mock.Anything, "arabica-beans").Return(
		model.Product{ID: 10, Name: "Arabica Beans", Slug: "arabica-beans"}, nil)
	f.customers.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7, UserID: 1}, nil)
	f.items.On("HasCompletedPurchase", mock.Anything, int64(7), int64(10)).Return(true, nil)

	f.reviews.On("Upsert", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return r.ProductID == 10 && r.CustomerID == 7 && r.Rating == 4 && r.IsVerifiedPurchase
	})).Return(model.Review{ID: 99, ProductID: 10, CustomerID: 7, Rating: 4, IsVerifiedPurchase: true}, nil)

	// 平均4.25 → 4.3に丸めて商品へ反映
	f.reviews.On("Aggregate", mock.Anything, int64(10)).Return(repo.ReviewAggregate{Average: 4.25, Count: 4}, nil)
	f.products.On("UpdateRating", mock.Anything, int64(10), 4.3, int64(4)).Return(nil)

	out, err := f.uc.UpsertReview(ctx, 1, "arabica-beans", usecase.ReviewInput{
		Rating:  4,
		Comment: "smooth and balanced",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(99), out.ID)
	f.reviews.AssertExpectations(t)
	f.products.AssertExpectations(t)
}

func TestUpsertReview_UnverifiedWhenNoCompletedPurchase(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	f.products.On("FindBySlug", mock.Anything, "arabica-beans").Return(model.Product{ID: 10}, nil)
	f.customers.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7}, nil)
	f.items.On("HasCompletedPurchase", mock.Anything, int64(7), int64(10)).Return(false, nil)

	f.reviews.On("Upsert", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return !r.IsVerifiedPurchase
	})).Return(model.Review{ID: 99}, nil)
	f.reviews.On("Aggregate", mock.Anything, int64(10)).Return(repo.ReviewAggregate{Average: 3, Count: 1}, nil)
	f.products.On("UpdateRating", mock.Anything, int64(10), 3.0, int64(1)).Return(nil)

	_, err := f.uc.UpsertReview(ctx, 1, "arabica-beans", usecase.ReviewInput{Rating: 3, Comment: "ok"})
	assert.NoError(t, err)
}

func TestUpsertReview_InvalidRating(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	f.products.On("FindBySlug", mock.Anything, "arabica-beans").Return(model.Product{ID: 10}, nil)
	f.customers.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7}, nil)

	_, err := f.uc.UpsertReview(ctx, 1, "arabica-beans", usecase.ReviewInput{Rating: 6, Comment: "x"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestUpsertReview_EmptyComment(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	f.products.On("FindBySlug", mock.Anything, "arabica-beans").Return(model.Product{ID: 10}, nil)
	f.customers.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Customer{ID: 7}, nil)

	_, err := f.uc.UpsertReview(ctx, 1, "arabica-beans", usecase.ReviewInput{Rating: 4, Comment: "  "})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestUpsertReview_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	f.products.On("FindBySlug", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.UpsertReview(ctx, 1, "missing", usecase.ReviewInput{Rating: 4, Comment: "x"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

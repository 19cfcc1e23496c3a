package usecase

import (
	"context"
	"math"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type ReviewUsecase struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	txManager    repository.TransactionManager
}

func NewReviewUsecase(productRepo repository.ProductRepository, customerRepo repository.CustomerRepository, txManager repository.TransactionManager) *ReviewUsecase {
	return &ReviewUsecase{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
	}
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// UpsertReview はレビューを投稿または上書きし、商品の集計評価を更新する。
func (u *ReviewUsecase) UpsertReview(ctx context.Context, userID int64, productSlug string, in ReviewInput) (*model.Review, error) {
	product, err := u.productRepo.FindBySlug(ctx, productSlug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return nil, err
	}

	customer, err := u.customerRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	review := model.Review{
		ProductID:  product.ID,
		CustomerID: customer.ID,
		Rating:     in.Rating,
		Title:      in.Title,
		Comment:    in.Comment,
		IsApproved: true,
	}
	if err := review.Validate(); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var saved model.Review
	err = u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		verified, err := r.OrderItems().HasCompletedPurchase(ctx, customer.ID, product.ID)
		if err != nil {
			return err
		}
		review.IsVerifiedPurchase = verified

		saved, err = r.Reviews().Upsert(ctx, review)
		if err != nil {
			return err
		}

		// 商品側の評価キャッシュを取り直す
		agg, err := r.Reviews().Aggregate(ctx, product.ID)
		if err != nil {
			return err
		}
		rounded := math.Round(agg.Average*10) / 10
		return r.Products().UpdateRating(ctx, product.ID, rounded, agg.Count)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

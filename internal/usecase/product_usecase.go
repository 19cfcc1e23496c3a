package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type ProductUsecase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

func NewProductUsecase(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, reviewRepo repository.ReviewRepository) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

type ProductListResult struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// 商品詳細。レビューと集計、関連商品を同梱する。
type ProductDetail struct {
	Product       model.Product   `json:"product"`
	Reviews       []model.Review  `json:"reviews"`
	RatingAverage float64         `json:"rating_average"`
	RatingCount   int64           `json:"rating_count"`
	RatingCounts  map[int]int64   `json:"rating_counts"`
	Related       []model.Product `json:"related_products"`
}

const (
	defaultPageLimit = 12
	maxPageLimit     = 100
	relatedLimit     = 4
	detailReviewsMax = 20
)

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, q repository.ProductListQuery) (*ProductListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}

	products, total, err := u.productRepo.ListPublic(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{
		Products: products,
		Total:    total,
		Page:     q.Page,
		Limit:    q.Limit,
	}, nil
}

// slugで商品詳細を取得。非公開・削除済みは404扱い。
func (u *ProductUsecase) GetProductDetail(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := u.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return nil, err
	}
	// out_of_stockは閲覧可。非公開・廃番は見せない。
	if product.Status == model.ProductStatusInactive || product.Status == model.ProductStatusDiscontinued {
		return nil, NewHTTPError(http.StatusNotFound, "product not found")
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, product.ID, detailReviewsMax)
	if err != nil {
		return nil, err
	}
	agg, err := u.reviewRepo.Aggregate(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	related, err := u.productRepo.ListRelated(ctx, product.CategoryID, product.ID, relatedLimit)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, 5)
	for star := 1; star <= 5; star++ {
		counts[star] = agg.ByRating[star]
	}

	return &ProductDetail{
		Product:       product,
		Reviews:       reviews,
		RatingAverage: agg.Average,
		RatingCount:   agg.Count,
		RatingCounts:  counts,
		Related:       related,
	}, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return u.categoryRepo.ListActive(ctx)
}

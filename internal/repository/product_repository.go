package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索の条件
type ProductListQuery struct {
	Page         int
	Limit        int
	Q            string
	CategorySlug string
	Sort         string
	FeaturedOnly bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	// 同カテゴリの関連商品（id除外）
	ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	// レビュー集計の反映
	UpdateRating(ctx context.Context, id int64, rating float64, totalReviews int64) error
}

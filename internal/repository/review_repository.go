package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 商品ごとのレビュー集計
type ReviewAggregate struct {
	Average float64
	Count   int64

	// 星ごとの件数（index 1..5）
	ByRating [6]int64
}

type ReviewRepository interface {
	// (product, customer) で upsert。既存があれば上書き。
	Upsert(ctx context.Context, r model.Review) (model.Review, error)

	FindByProductAndCustomer(ctx context.Context, productID int64, customerID int64) (model.Review, error)
	ListByProductID(ctx context.Context, productID int64, limit int) ([]model.Review, error)
	DeleteByID(ctx context.Context, id int64) error

	Aggregate(ctx context.Context, productID int64) (ReviewAggregate, error)
}

package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByUserID(ctx context.Context, userID int64) (model.Customer, error)

	// プロフィールが無ければ空で作る
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Customer, error)

	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	Update(ctx context.Context, c model.Customer) error

	// 支払い完了注文の集計値を反映
	UpdateStats(ctx context.Context, customerID int64, totalOrders int64, totalSpent int64) error
}

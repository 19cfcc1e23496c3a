package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID int64) error

	// 購入済み（payment_status=completed）チェック。レビューの検証購入フラグ用。
	HasCompletedPurchase(ctx context.Context, customerID int64, productID int64) (bool, error)
}

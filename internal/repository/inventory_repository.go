package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算。減算後に0になればout_of_stockへ。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（決済失敗・キャンセル）。正の在庫に戻ればactiveへ。
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 在庫の現在値を設定（管理者）
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}

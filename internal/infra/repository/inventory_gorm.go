package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす。0になったらステータスも連動させる。
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if err := r.syncStatus(ctx, productID); err != nil {
		return false, err
	}
	return true, nil
}

// 在庫戻し（決済失敗・キャンセル）
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	return r.syncStatus(ctx, productID)
}

// 在庫の現在値を設定
func (r *InventoryGormRepository) SetStock(ctx context.Context, productID int64, newStock int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", newStock)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	return r.syncStatus(ctx, productID)
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(&adj).Error
}

// stock=0のactiveはout_of_stockへ、stock>0のout_of_stockはactiveへ。
func (r *InventoryGormRepository) syncStatus(ctx context.Context, productID int64) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock = 0 AND status = ?", productID, model.ProductStatusActive).
		Update("status", model.ProductStatusOutOfStock).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock > 0 AND status = ?", productID, model.ProductStatusOutOfStock).
		Update("status", model.ProductStatusActive).Error
}

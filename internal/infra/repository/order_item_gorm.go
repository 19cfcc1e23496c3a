package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		it.OrderID = orderID
		it.ComputeTotal()
		rows = append(rows, it)
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&model.OrderItem{}).Error
}

// payment_status=completedの注文にこの商品が含まれているか
func (r *OrderItemGormRepository) HasCompletedPurchase(ctx context.Context, customerID int64, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ? AND orders.payment_status = ? AND order_items.product_id = ?",
			customerID, model.PaymentStatusCompleted, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

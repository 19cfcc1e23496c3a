package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Order{}).Where("customer_id = ?", customerID)

	if err := tx.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	offset := (page - 1) * limit
	err := tx.Order("created_at desc").Order("id desc").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return orders, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 決済結果の反映。同じ値の再適用でもエラーにしない（webhookは再送される）。
func (r *OrderGormRepository) UpdatePaymentResult(ctx context.Context, orderID int64, paymentStatus model.PaymentStatus, status model.OrderStatus, paymentMethod string) error {
	updates := map[string]interface{}{
		"payment_status": paymentStatus,
		"status":         status,
	}
	if paymentMethod != "" {
		updates["payment_method"] = paymentMethod
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateShipping(ctx context.Context, orderID int64, trackingNumber string, courier string, shippedAt *time.Time, deliveredAt *time.Time) error {
	updates := map[string]interface{}{}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	if courier != "" {
		updates["courier"] = courier
	}
	if shippedAt != nil {
		updates["shipped_at"] = shippedAt
	}
	if deliveredAt != nil {
		updates["delivered_at"] = deliveredAt
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 決済セッション作成失敗時の補償でのみ使う
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 支払い完了注文の件数と合計
func (r *OrderGormRepository) AggregateCompletedByCustomer(ctx context.Context, customerID int64) (int64, int64, error) {
	var row struct {
		Count int64
		Total int64
	}

	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("customer_id = ? AND payment_status = ?", customerID, model.PaymentStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}

	return row.Count, row.Total, nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		tx = tx.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *f.CustomerID)
	}
	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("created_at <= ?", *f.To)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	err := tx.Order("created_at desc").Order("id desc").
		Offset(offset).Limit(f.Limit).
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return orders, total, nil
}

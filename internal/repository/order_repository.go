package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	CustomerID    *int64
	From          *time.Time
	To            *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// webhookは注文番号で照合する
	FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error)

	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// 決済結果の反映（payment_status / status / payment_method をまとめて）
	UpdatePaymentResult(ctx context.Context, orderID int64, paymentStatus model.PaymentStatus, status model.OrderStatus, paymentMethod string) error

	UpdateShipping(ctx context.Context, orderID int64, trackingNumber string, courier string, shippedAt *time.Time, deliveredAt *time.Time) error

	// 決済セッション作成失敗時の補償用
	Delete(ctx context.Context, orderID int64) error

	// 支払い完了注文の件数と合計（顧客集計用）
	AggregateCompletedByCustomer(ctx context.Context, customerID int64) (count int64, total int64, err error)

	// 管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

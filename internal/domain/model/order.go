package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber   string        `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	CustomerID    int64         `gorm:"not null;index" json:"customer_id"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod string        `gorm:"type:varchar(50)" json:"payment_method"`

	// 配送先は注文時点のスナップショット
	ShippingAddress    string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity       string `gorm:"type:varchar(100);not null" json:"shipping_city"`
	ShippingState      string `gorm:"type:varchar(100);not null" json:"shipping_state"`
	ShippingPostalCode string `gorm:"type:varchar(20);not null" json:"shipping_postal_code"`
	ShippingCountry    string `gorm:"type:varchar(100);not null;default:'Indonesia'" json:"shipping_country"`

	Subtotal     int64 `gorm:"not null;default:0" json:"subtotal"`
	Tax          int64 `gorm:"not null;default:0" json:"tax"`
	ShippingCost int64 `gorm:"not null;default:0" json:"shipping_cost"`
	Discount     int64 `gorm:"not null;default:0" json:"discount"`
	Total        int64 `gorm:"not null;default:0" json:"total"`

	Notes          string     `gorm:"type:text" json:"notes"`
	TrackingNumber string     `gorm:"type:varchar(100)" json:"tracking_number"`
	Courier        string     `gorm:"type:varchar(50)" json:"courier"`
	ShippedAt      *time.Time `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ORD-{yyyymmddhhmmss}-{6桁hex} 形式
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "ORD-" + now.Format("20060102150405") + "-" + suffix
}

// total = subtotal + tax + shipping - discount
func (o *Order) ComputeTotal() {
	o.Total = o.Subtotal + o.Tax + o.ShippingCost - o.Discount
}

// キャンセル可能か（発送前のみ）
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

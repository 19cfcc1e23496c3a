package model

import "time"

// 注文明細。商品名と単価は注文時点のスナップショット。
// ProductIDは商品削除後もnullで残す。
type OrderItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64     `gorm:"not null;index;uniqueIndex:idx_order_product" json:"order_id"`
	ProductID   *int64    `gorm:"index;uniqueIndex:idx_order_product" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU  string    `gorm:"type:varchar(50)" json:"product_sku"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"`
	Total       int64     `gorm:"not null" json:"total"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// total = price × quantity
func (it *OrderItem) ComputeTotal() {
	it.Total = it.Price * it.Quantity
}

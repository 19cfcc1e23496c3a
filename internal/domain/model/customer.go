package model

import (
	"strings"
	"time"
)

// ユーザー1人につきプロフィール1つ。
// TotalOrders/TotalSpentはpayment_statusが変わるたびに再計算する集計値。
type Customer struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone"`
	Address     string    `gorm:"type:text" json:"address"`
	City        string    `gorm:"type:varchar(100)" json:"city"`
	State       string    `gorm:"type:varchar(100)" json:"state"`
	PostalCode  string    `gorm:"type:varchar(20)" json:"postal_code"`
	Country     string    `gorm:"type:varchar(100);default:'Indonesia'" json:"country"`
	IsVerified  bool      `gorm:"not null;default:false" json:"is_verified"`
	TotalOrders int64     `gorm:"not null;default:0" json:"total_orders"`
	TotalSpent  int64     `gorm:"not null;default:0" json:"total_spent"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 住所パーツをまとめた表示用文字列
func (c *Customer) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{c.Address, c.City, c.State, c.PostalCode, c.Country} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

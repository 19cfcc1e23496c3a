package model

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description   string       `gorm:"type:text" json:"description"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue int64        `gorm:"not null" json:"discount_value"`
	MinPurchase   int64        `gorm:"not null;default:0" json:"min_purchase"`
	MaxDiscount   *int64       `json:"max_discount"`
	MaxUses       *int64       `json:"max_uses"`
	CurrentUses   int64        `gorm:"not null;default:0" json:"current_uses"`
	IsActive      bool         `gorm:"not null;default:true" json:"is_active"`
	ValidFrom     time.Time    `gorm:"not null" json:"valid_from"`
	ValidUntil    time.Time    `gorm:"not null" json:"valid_until"`
	CreatedAt     time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// コードは大文字で統一
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// 有効判定: active かつ 期間内 かつ 使用上限未満
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return false
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false
	}
	return true
}

// 割引額の計算。純粋関数で副作用なし（使用回数の加算は注文確定側）。
// 無効・最低購入額未満なら0。割引は必ずsubtotal以下。
func (c *Coupon) CalculateDiscount(subtotal int64, now time.Time) int64 {
	if !c.IsValid(now) {
		return 0
	}
	if subtotal < c.MinPurchase {
		return 0
	}

	var discount int64
	if c.DiscountType == DiscountTypePercentage {
		discount = subtotal * c.DiscountValue / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
	} else {
		discount = c.DiscountValue
	}

	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
)

type Product struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug             string         `gorm:"type:varchar(280);not null;uniqueIndex" json:"slug"`
	CategoryID       int64          `gorm:"not null;index" json:"category_id"`
	Description      string         `gorm:"type:text" json:"description"`
	ShortDescription string         `gorm:"type:varchar(200)" json:"short_description"`
	Price            int64          `gorm:"not null" json:"price"`
	CostPrice        int64          `gorm:"not null;default:0" json:"cost_price"`
	ComparePrice     *int64         `json:"compare_price"`
	Stock            int64          `gorm:"not null;default:0" json:"stock"`
	SKU              string         `gorm:"type:varchar(100);uniqueIndex" json:"sku"`
	ImageURL         string         `gorm:"type:varchar(500)" json:"image_url"`
	Status           ProductStatus  `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Rating           float64        `gorm:"not null;default:0" json:"rating"`
	TotalReviews     int64          `gorm:"not null;default:0" json:"total_reviews"`
	IsFeatured       bool           `gorm:"not null;default:false;index" json:"is_featured"`
	CreatedAt        time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// 在庫0ならout_of_stock、在庫復活ならactiveへ戻す。
// 保存フックではなく呼び出し側が明示的に通す。
func (p *Product) SetStock(stock int64) {
	if stock < 0 {
		stock = 0
	}
	p.Stock = stock

	if p.Stock == 0 && p.Status == ProductStatusActive {
		p.Status = ProductStatusOutOfStock
	} else if p.Stock > 0 && p.Status == ProductStatusOutOfStock {
		p.Status = ProductStatusActive
	}
}

// 購入可能か
func (p *Product) InStock() bool {
	return p.Stock > 0 && p.Status == ProductStatusActive
}

// 管理者による登録/更新の入力チェック
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProductNameRequired
	}
	if p.Price < 0 || p.CostPrice < 0 {
		return ErrProductPriceNegative
	}
	if p.CostPrice > 0 && p.Price < p.CostPrice {
		return ErrProductPriceBelowCost
	}
	if p.ComparePrice != nil && *p.ComparePrice < p.Price {
		return ErrProductComparePriceTooLow
	}
	return nil
}

// slug/SKUが空なら補完する
func (p *Product) FillDefaults() {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.SKU == "" {
		p.SKU = NewSKU()
	}
	if p.Status == "" {
		p.Status = ProductStatusActive
	}
	// 登録時点の在庫0も規約に合わせる
	p.SetStock(p.Stock)
}

// PRD-XXXXXXXX 形式
func NewSKU() string {
	return "PRD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// 定価からの割引率（%）
func (p *Product) DiscountPercentage() int64 {
	if p.ComparePrice == nil || *p.ComparePrice <= p.Price {
		return 0
	}
	return (*p.ComparePrice - p.Price) * 100 / *p.ComparePrice
}

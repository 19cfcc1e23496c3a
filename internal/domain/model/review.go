package model

import (
	"strings"
	"time"
)

// (product, customer) につき1件。2回目以降は上書き。
type Review struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID          int64     `gorm:"not null;index;uniqueIndex:idx_product_customer" json:"product_id"`
	CustomerID         int64     `gorm:"not null;index;uniqueIndex:idx_product_customer" json:"customer_id"`
	Rating             int       `gorm:"not null" json:"rating"`
	Title              string    `gorm:"type:varchar(200)" json:"title"`
	Comment            string    `gorm:"type:text;not null" json:"comment"`
	IsVerifiedPurchase bool      `gorm:"not null;default:false" json:"is_verified_purchase"`
	IsApproved         bool      `gorm:"not null;default:true" json:"is_approved"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrReviewRatingOutOfRange
	}
	if strings.TrimSpace(r.Comment) == "" {
		return ErrReviewCommentRequired
	}
	return nil
}

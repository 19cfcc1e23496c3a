package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (model.Coupon, error)

	// 注文確定時の使用回数加算
	IncrementUses(ctx context.Context, couponID int64) error

	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
}

package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CouponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

func (r *CouponGormRepository) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", model.NormalizeCouponCode(code)).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// 注文確定時の使用回数加算
func (r *CouponGormRepository) IncrementUses(ctx context.Context, couponID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ?", couponID).
		Update("current_uses", gorm.Expr("current_uses + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CouponGormRepository) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	c.Code = model.NormalizeCouponCode(c.Code)
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

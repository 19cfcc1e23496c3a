package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// 無ければ空プロフィールを作って返す
func (r *CustomerGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	c, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, err
	}

	c = model.Customer{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		// 同時作成の競合なら作成済みの方を返す
		if existing, ferr := r.FindByUserID(ctx, userID); ferr == nil {
			return existing, nil
		}
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) Update(ctx context.Context, c model.Customer) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"phone":       c.Phone,
		"address":     c.Address,
		"city":        c.City,
		"state":       c.State,
		"postal_code": c.PostalCode,
		"country":     c.Country,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) UpdateStats(ctx context.Context, customerID int64, totalOrders int64, totalSpent int64) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", customerID).Updates(map[string]interface{}{
		"total_orders": totalOrders,
		"total_spent":  totalSpent,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

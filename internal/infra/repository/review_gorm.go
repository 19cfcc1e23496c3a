package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

// (product, customer) でupsert。既存行があれば内容を上書き。
func (r *ReviewGormRepository) Upsert(ctx context.Context, review model.Review) (model.Review, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "title", "comment", "is_verified_purchase", "updated_at",
		}),
	}).Create(&review).Error
	if err != nil {
		return model.Review{}, err
	}

	// upsert後の行を読み直す（conflict時はCreateのIDが当てにならない）
	return r.FindByProductAndCustomer(ctx, review.ProductID, review.CustomerID)
}

func (r *ReviewGormRepository) FindByProductAndCustomer(ctx context.Context, productID int64, customerID int64) (model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND customer_id = ?", productID, customerID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64, limit int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at desc").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) Aggregate(ctx context.Context, productID int64) (repo.ReviewAggregate, error) {
	var agg repo.ReviewAggregate

	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return repo.ReviewAggregate{}, err
	}
	agg.Average = row.Avg
	agg.Count = row.Count

	// 星ごとの内訳
	var byRating []struct {
		Rating int
		N      int64
	}
	err = r.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) AS n").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&byRating).Error
	if err != nil {
		return repo.ReviewAggregate{}, err
	}
	for _, b := range byRating {
		if b.Rating >= 1 && b.Rating <= 5 {
			agg.ByRating[b.Rating] = b.N
		}
	}

	return agg, nil
}

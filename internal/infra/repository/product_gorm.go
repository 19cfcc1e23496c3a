package repository

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみを、検索/カテゴリ/ソート/ページング付きで返す。
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	// 公開＝active（在庫切れはout_of_stockなので一覧から外れる）
	tx = tx.Where("status = ?", model.ProductStatusActive)

	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	if q.CategorySlug != "" {
		tx = tx.Where("category_id IN (?)",
			r.db.Model(&model.Category{}).Select("id").Where("slug = ?", q.CategorySlug))
	}

	if q.FeaturedOnly {
		tx = tx.Where("is_featured = ?", true)
	}

	// total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	// sortはホワイトリスト
	switch q.Sort {
	case "name":
		tx = tx.Order("name asc").Order("id asc")
	case "name_desc":
		tx = tx.Order("name desc").Order("id desc")
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id desc")
	case "rating":
		tx = tx.Order("rating desc").Order("id desc")
	case "stock":
		tx = tx.Order("stock desc").Order("id desc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 同カテゴリの関連商品（自分自身は除外）
func (r *ProductGormRepository) ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND status = ?", categoryID, excludeID, model.ProductStatusActive).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":              p.Name,
		"slug":              p.Slug,
		"category_id":       p.CategoryID,
		"description":       p.Description,
		"short_description": p.ShortDescription,
		"price":             p.Price,
		"cost_price":        p.CostPrice,
		"compare_price":     p.ComparePrice,
		"stock":             p.Stock,
		"image_url":         p.ImageURL,
		"status":            p.Status,
		"is_featured":       p.IsFeatured,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// レビュー集計の反映
func (r *ProductGormRepository) UpdateRating(ctx context.Context, id int64, rating float64, totalReviews int64) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":        rating,
		"total_reviews": totalReviews,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

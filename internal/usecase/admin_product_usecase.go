package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type AdminProductUsecase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txManager    repository.TransactionManager
}

func NewAdminProductUsecase(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, txManager repository.TransactionManager) *AdminProductUsecase {
	return &AdminProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
	}
}

type ProductInput struct {
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	CategoryID       int64  `json:"category_id"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Price            int64  `json:"price"`
	CostPrice        int64  `json:"cost_price"`
	ComparePrice     *int64 `json:"compare_price"`
	Stock            int64  `json:"stock"`
	SKU              string `json:"sku"`
	ImageURL         string `json:"image_url"`
	Status           string `json:"status"`
	IsFeatured       bool   `json:"is_featured"`
}

type StockInput struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (u *AdminProductUsecase) CreateProduct(ctx context.Context, adminUserID int64, in ProductInput) (*model.Product, error) {
	product := model.Product{
		Name:             in.Name,
		Slug:             in.Slug,
		CategoryID:       in.CategoryID,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Price:            in.Price,
		CostPrice:        in.CostPrice,
		ComparePrice:     in.ComparePrice,
		Stock:            in.Stock,
		SKU:              in.SKU,
		ImageURL:         in.ImageURL,
		Status:           model.ProductStatus(in.Status),
		IsFeatured:       in.IsFeatured,
	}
	product.FillDefaults()
	if err := product.Validate(); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var created model.Product
	err := u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		var err error
		created, err = r.Products().Create(ctx, product)
		if err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, buildAuditLog(adminUserID, model.AuditActionCreateProduct, model.AuditResourceProduct, created.ID, nil, created))
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (u *AdminProductUsecase) UpdateProduct(ctx context.Context, adminUserID int64, productID int64, in ProductInput) (*model.Product, error) {
	before, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return nil, err
	}

	after := before
	after.Name = in.Name
	after.CategoryID = in.CategoryID
	after.Description = in.Description
	after.ShortDescription = in.ShortDescription
	after.Price = in.Price
	after.CostPrice = in.CostPrice
	after.ComparePrice = in.ComparePrice
	after.ImageURL = in.ImageURL
	after.IsFeatured = in.IsFeatured
	if in.Slug != "" {
		after.Slug = in.Slug
	}
	if in.SKU != "" {
		after.SKU = in.SKU
	}
	if in.Status != "" {
		after.Status = model.ProductStatus(in.Status)
	}
	// 在庫はここでは触らない（在庫調整APIで扱う）
	after.SetStock(before.Stock)

	if err := after.Validate(); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Products().Update(ctx, after); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, buildAuditLog(adminUserID, model.AuditActionUpdateProduct, model.AuditResourceProduct, after.ID, before, after))
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

func (u *AdminProductUsecase) DeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	before, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		return err
	}

	return u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Products().SoftDelete(ctx, productID); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, buildAuditLog(adminUserID, model.AuditActionDeleteProduct, model.AuditResourceProduct, productID, before, nil))
	})
}

// SetStock は在庫の現在値を置き換え、調整履歴と監査ログを残す。
func (u *AdminProductUsecase) SetStock(ctx context.Context, adminUserID int64, productID int64, in StockInput) (*model.Product, error) {
	if in.Stock < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "stock must not be negative")
	}
	if in.Reason == "" {
		in.Reason = "manual adjustment"
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return nil, err
	}

	err = u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Inventory().SetStock(ctx, productID, in.Stock); err != nil {
			return err
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: adminUserID,
			Delta:       in.Stock - before.Stock,
			Reason:      in.Reason,
		}); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, buildAuditLog(adminUserID, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
			map[string]int64{"stock": before.Stock}, map[string]int64{"stock": in.Stock}))
	})
	if err != nil {
		return nil, err
	}

	updated, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (u *AdminProductUsecase) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	if in.Name == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "category name is required")
	}
	in.FillDefaults()
	created, err := u.categoryRepo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// 変更前後をJSONで持つ監査ログを組み立てる。marshal失敗は空で残す。
func buildAuditLog(actorUserID int64, action model.AuditAction, resource model.AuditResourceType, resourceID int64, before any, after any) model.AuditLog {
	log := model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			log.BeforeJSON = string(b)
		}
	}
	if after != nil {
		if b, err := json.Marshal(after); err == nil {
			log.AfterJSON = string(b)
		}
	}
	return log
}

package usecase

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/session"
)

type CartUsecase struct {
	store       session.Store
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	cfg         *config.Config
}

func NewCartUsecase(store session.Store, productRepo repository.ProductRepository, couponRepo repository.CouponRepository, cfg *config.Config) *CartUsecase {
	return &CartUsecase{
		store:       store,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		cfg:         cfg,
	}
}

// カート1行の表示用データ。
type CartLineView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Total     int64  `json:"total"`
}

type CartView struct {
	Items        []CartLineView `json:"items"`
	ItemCount    int64          `json:"item_count"`
	Subtotal     int64          `json:"subtotal"`
	Tax          int64          `json:"tax"`
	ShippingCost int64          `json:"shipping_cost"`
	Discount     int64          `json:"discount"`
	Total        int64          `json:"total"`
	CouponCode   string         `json:"coupon_code,omitempty"`
}

// AddItem は商品をカートへ追加する。既存数量との合計が在庫を超える場合はエラー。
func (u *CartUsecase) AddItem(ctx context.Context, userID, productID, quantity int64) (int64, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrNotFound {
			return 0, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return 0, err
	}
	if product.Status != model.ProductStatusActive {
		return 0, NewHTTPError(http.StatusBadRequest, "product is not available")
	}

	cart, err := u.store.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}

	newQty := quantity
	if line, ok := cart[productID]; ok {
		newQty += line.Quantity
	}
	if newQty > product.Stock {
		return 0, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("only %d left in stock", product.Stock))
	}

	cart[productID] = session.CartLine{
		ProductID: product.ID,
		Quantity:  newQty,
		Price:     product.Price,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
	}
	if err := u.store.SaveCart(ctx, userID, cart); err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// UpdateItem は数量を上書きする。0以下なら行を削除する。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID, productID, quantity int64) (int64, error) {
	cart, err := u.store.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	line, ok := cart[productID]
	if !ok {
		return 0, NewHTTPError(http.StatusNotFound, "item not in cart")
	}

	if quantity <= 0 {
		delete(cart, productID)
	} else {
		line.Quantity = quantity
		cart[productID] = line
	}
	if err := u.store.SaveCart(ctx, userID, cart); err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID, productID int64) (int64, error) {
	cart, err := u.store.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	if _, ok := cart[productID]; !ok {
		return 0, NewHTTPError(http.StatusNotFound, "item not in cart")
	}
	delete(cart, productID)
	if err := u.store.SaveCart(ctx, userID, cart); err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if err := u.store.ClearCart(ctx, userID); err != nil {
		return err
	}
	return u.store.ClearCouponCode(ctx, userID)
}

// View はカートをDBと突き合わせて実体化する。
// 削除・非公開になった商品は黙って取り除き、価格は現在値に追従させる。
func (u *CartUsecase) View(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := u.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: []CartLineView{}}
	pruned := false
	for productID, line := range cart {
		product, err := u.productRepo.FindByID(ctx, productID)
		if err != nil {
			if err == repository.ErrNotFound {
				delete(cart, productID)
				pruned = true
				continue
			}
			return nil, err
		}
		if product.Status != model.ProductStatusActive {
			delete(cart, productID)
			pruned = true
			continue
		}
		if product.Price != line.Price || product.Name != line.Name || product.ImageURL != line.ImageURL {
			line.Price = product.Price
			line.Name = product.Name
			line.ImageURL = product.ImageURL
			cart[productID] = line
			pruned = true
		}
		view.Items = append(view.Items, CartLineView{
			ProductID: product.ID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Total:     product.Price * line.Quantity,
		})
	}
	if pruned {
		if err := u.store.SaveCart(ctx, userID, cart); err != nil {
			return nil, err
		}
	}

	for _, item := range view.Items {
		view.Subtotal += item.Total
		view.ItemCount += item.Quantity
	}
	view.Tax = view.Subtotal * u.cfg.TaxRate / 100
	if len(view.Items) > 0 {
		view.ShippingCost = u.cfg.ShippingFee
	}

	code, err := u.store.GetCouponCode(ctx, userID)
	if err != nil {
		return nil, err
	}
	if code != "" {
		view.Discount, view.CouponCode = u.couponDiscount(ctx, code, view.Subtotal)
	}
	view.Total = view.Subtotal + view.Tax + view.ShippingCost - view.Discount
	return view, nil
}

// ApplyCoupon はコードを検証してセッションへ保存し、割引後のカートを返す。
func (u *CartUsecase) ApplyCoupon(ctx context.Context, userID int64, code string) (*CartView, error) {
	code = model.NormalizeCouponCode(code)
	if code == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "coupon code is required")
	}

	coupon, err := u.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "coupon not found")
		}
		return nil, err
	}
	if !coupon.IsValid(timeNow()) {
		return nil, NewHTTPError(http.StatusBadRequest, "this coupon has expired or is no longer valid")
	}

	view, err := u.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	if view.Subtotal < coupon.MinPurchase {
		return nil, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("minimum purchase of %d is required for this coupon", coupon.MinPurchase))
	}

	if err := u.store.SaveCouponCode(ctx, userID, code); err != nil {
		return nil, err
	}

	// 実体化済みのviewに新しいクーポンを当て直す（再読込はしない）
	view.Discount = coupon.CalculateDiscount(view.Subtotal, timeNow())
	view.CouponCode = coupon.Code
	view.Total = view.Subtotal + view.Tax + view.ShippingCost - view.Discount
	return view, nil
}

func (u *CartUsecase) RemoveCoupon(ctx context.Context, userID int64) (*CartView, error) {
	if err := u.store.ClearCouponCode(ctx, userID); err != nil {
		return nil, err
	}
	return u.View(ctx, userID)
}

// couponDiscount は適用中クーポンの割引額を計算する。失効していれば0を返す。
func (u *CartUsecase) couponDiscount(ctx context.Context, code string, subtotal int64) (int64, string) {
	coupon, err := u.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return 0, ""
	}
	discount := coupon.CalculateDiscount(subtotal, timeNow())
	if discount == 0 {
		return 0, ""
	}
	return discount, coupon.Code
}

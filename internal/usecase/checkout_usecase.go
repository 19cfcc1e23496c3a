package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/payment"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/session"
)

// 決済ゲートウェイの約束。実体はMidtrans Snap。
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req payment.TransactionRequest) (payment.Session, error)
}

// 配送先フォーム。プロフィールに値があればフォーム側を省略できる。
type ShippingForm struct {
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country"`
	Notes      string `json:"notes"`
}

type CheckoutResult struct {
	OrderNumber string `json:"order_number"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type CheckoutUsecase struct {
	store        session.Store
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	couponRepo   repository.CouponRepository
	orderRepo    repository.OrderRepository
	itemRepo     repository.OrderItemRepository
	txManager    repository.TransactionManager
	gateway      PaymentGateway
	cfg          *config.Config
	validate     *validator.Validate
}

func NewCheckoutUsecase(
	store session.Store,
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	txManager repository.TransactionManager,
	gateway PaymentGateway,
	cfg *config.Config,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		store:        store,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		couponRepo:   couponRepo,
		orderRepo:    orderRepo,
		itemRepo:     itemRepo,
		txManager:    txManager,
		gateway:      gateway,
		cfg:          cfg,
		validate:     validator.New(),
	}
}

// Checkout は注文確定から決済セッション作成までを実行する。
//
//  1. ユーザーとプロフィールの取得
//  2. カートの実体化（空なら400）
//  3. 配送先の検証（不足項目は全部まとめて返す）
//  4. 在庫・価格の最終確認
//  5. クーポンの再評価（失効していれば黙って割引0）
//  6. 注文・明細の作成と在庫減算を1トランザクションで
//  7. ゲートウェイで決済セッション作成（失敗時は在庫を戻し注文を消す）
//  8. カートとクーポンをクリア
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, form ShippingForm) (*CheckoutResult, error) {
	metrics.CheckoutAttemptsTotal.Inc()

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, u.fail("auth", NewHTTPError(http.StatusUnauthorized, "authentication required"))
		}
		return nil, err
	}
	customer, err := u.customerRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart, err := u.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, u.fail("empty_cart", NewHTTPError(http.StatusBadRequest, "cart is empty"))
	}

	shipping, err := u.resolveShipping(customer, form)
	if err != nil {
		return nil, u.fail("invalid_shipping", err)
	}

	// 在庫・価格の最終確認。カートのスナップショットは信用しない。
	type checkedLine struct {
		product  model.Product
		quantity int64
	}
	lines := make([]checkedLine, 0, len(cart))
	for productID, line := range cart {
		product, err := u.productRepo.FindByID(ctx, productID)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, u.fail("stale_cart", NewHTTPError(http.StatusBadRequest, "some items in your cart are no longer available"))
			}
			return nil, err
		}
		if product.Status != model.ProductStatusActive {
			return nil, u.fail("stale_cart", NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is no longer available", product.Name)))
		}
		if line.Quantity > product.Stock {
			return nil, u.fail("insufficient_stock", NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("insufficient stock for %s: only %d available", product.Name, product.Stock)))
		}
		lines = append(lines, checkedLine{product: product, quantity: line.Quantity})
	}

	var subtotal int64
	for _, l := range lines {
		subtotal += l.product.Price * l.quantity
	}
	tax := subtotal * u.cfg.TaxRate / 100
	shippingCost := u.cfg.ShippingFee

	// クーポンは再評価する。失効していても注文は止めない。
	var discount int64
	var appliedCoupon *model.Coupon
	if code, err := u.store.GetCouponCode(ctx, userID); err != nil {
		return nil, err
	} else if code != "" {
		coupon, err := u.couponRepo.FindByCode(ctx, code)
		if err == nil {
			if d := coupon.CalculateDiscount(subtotal, timeNow()); d > 0 {
				discount = d
				appliedCoupon = &coupon
			}
		} else if err != repository.ErrNotFound {
			return nil, err
		}
	}

	order := model.Order{
		OrderNumber:        model.NewOrderNumber(timeNow()),
		CustomerID:         customer.ID,
		Status:             model.OrderStatusPending,
		PaymentStatus:      model.PaymentStatusPending,
		PaymentMethod:      "midtrans",
		ShippingAddress:    shipping.Address,
		ShippingCity:       shipping.City,
		ShippingState:      shipping.State,
		ShippingPostalCode: shipping.PostalCode,
		ShippingCountry:    shipping.Country,
		Subtotal:           subtotal,
		Tax:                tax,
		ShippingCost:       shippingCost,
		Discount:           discount,
		Notes:              shipping.Notes,
	}
	order.ComputeTotal()

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		productID := l.product.ID
		items = append(items, model.OrderItem{
			ProductID:   &productID,
			ProductName: l.product.Name,
			ProductSKU:  l.product.SKU,
			Price:       l.product.Price,
			Quantity:    l.quantity,
		})
	}

	// 注文作成と在庫減算はひとまとまり。どれか失敗したら全部戻す。
	var orderID int64
	txErr := u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		orderID = id
		if err := r.OrderItems().CreateBulk(ctx, id, items); err != nil {
			return err
		}
		for _, l := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.product.ID, l.quantity)
			if err != nil {
				return err
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("insufficient stock for %s", l.product.Name))
			}
		}
		if appliedCoupon != nil {
			if err := r.Coupons().IncrementUses(ctx, appliedCoupon.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if he, ok := AsHTTPError(txErr); ok {
			return nil, u.fail("insufficient_stock", he)
		}
		return nil, txErr
	}
	metrics.OrdersCreatedTotal.Inc()

	sess, err := u.gateway.CreateTransaction(ctx, u.buildTransactionRequest(order, items, user, shipping))
	if err != nil {
		// 決済セッションが作れなかったので在庫を戻して注文を消す。
		u.compensate(ctx, orderID, order.OrderNumber, items)
		logger.L().Error("payment session creation failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, u.fail("gateway", NewHTTPError(http.StatusInternalServerError, "failed to initiate payment, please try again"))
	}
	metrics.PaymentSessionsTotal.Inc()

	if err := u.store.ClearCart(ctx, userID); err != nil {
		logger.L().Warn("failed to clear cart after checkout", zap.Int64("user_id", userID), zap.Error(err))
	}
	if err := u.store.ClearCouponCode(ctx, userID); err != nil {
		logger.L().Warn("failed to clear coupon after checkout", zap.Int64("user_id", userID), zap.Error(err))
	}

	logger.L().Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("customer_id", customer.ID),
		zap.Int64("total", order.Total))

	return &CheckoutResult{
		OrderNumber: order.OrderNumber,
		Token:       sess.Token,
		RedirectURL: sess.RedirectURL,
	}, nil
}

// resolveShipping はフォームとプロフィールをマージして配送先を確定する。
// 不足項目はまとめて1つのエラーで返す。
func (u *CheckoutUsecase) resolveShipping(customer model.Customer, form ShippingForm) (ShippingForm, error) {
	if form.Phone == "" {
		form.Phone = customer.Phone
	}
	if form.Address == "" {
		form.Address = customer.Address
	}
	if form.City == "" {
		form.City = customer.City
	}
	if form.State == "" {
		form.State = customer.State
	}
	if form.PostalCode == "" {
		form.PostalCode = customer.PostalCode
	}
	if form.Country == "" {
		form.Country = customer.Country
	}
	if form.Country == "" {
		form.Country = "Indonesia"
	}

	if err := u.validate.Struct(form); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return form, err
		}
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, strings.ToLower(fe.Field()))
		}
		return form, NewHTTPError(http.StatusBadRequest,
			"missing required shipping fields: "+strings.Join(missing, ", "))
	}
	return form, nil
}

func (u *CheckoutUsecase) buildTransactionRequest(order model.Order, items []model.OrderItem, user model.User, shipping ShippingForm) payment.TransactionRequest {
	details := make([]payment.ItemDetail, 0, len(items)+2)
	for _, it := range items {
		id := it.ProductSKU
		if id == "" && it.ProductID != nil {
			id = strconv.FormatInt(*it.ProductID, 10)
		}
		details = append(details, payment.ItemDetail{
			ID:       id,
			Price:    it.Price,
			Quantity: it.Quantity,
			Name:     it.ProductName,
		})
	}
	if order.ShippingCost > 0 {
		details = append(details, payment.ItemDetail{ID: "SHIPPING", Price: order.ShippingCost, Quantity: 1, Name: "Shipping"})
	}
	if order.Tax > 0 {
		details = append(details, payment.ItemDetail{ID: "TAX", Price: order.Tax, Quantity: 1, Name: "Tax"})
	}
	if order.Discount > 0 {
		details = append(details, payment.ItemDetail{ID: "DISCOUNT", Price: -order.Discount, Quantity: 1, Name: "Discount"})
	}

	addr := &payment.AddressDetails{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Phone:       shipping.Phone,
		Address:     shipping.Address,
		City:        shipping.City,
		PostalCode:  shipping.PostalCode,
		CountryCode: "IDN",
	}

	return payment.TransactionRequest{
		TransactionDetails: payment.TransactionDetails{
			OrderID:     order.OrderNumber,
			GrossAmount: order.Total,
		},
		ItemDetails: details,
		CustomerDetails: payment.CustomerDetails{
			FirstName:       user.FirstName,
			LastName:        user.LastName,
			Email:           user.Email,
			Phone:           shipping.Phone,
			BillingAddress:  addr,
			ShippingAddress: addr,
		},
		EnabledPayments: payment.DefaultEnabledPayments(),
		Callbacks:       &payment.Callbacks{Finish: u.cfg.MidtransFinishURL},
	}
}

// compensate は決済セッション作成失敗の後始末。
// ベストエフォートで在庫を戻し、明細と注文を消す。失敗はログだけ残す。
func (u *CheckoutUsecase) compensate(ctx context.Context, orderID int64, orderNumber string, items []model.OrderItem) {
	err := u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		for _, it := range items {
			if it.ProductID == nil {
				continue
			}
			if err := r.Inventory().IncreaseStock(ctx, *it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return err
		}
		return r.Orders().Delete(ctx, orderID)
	})
	if err != nil {
		logger.L().Error("checkout compensation failed",
			zap.String("order_number", orderNumber),
			zap.Int64("order_id", orderID),
			zap.Error(err))
	}
}

func (u *CheckoutUsecase) fail(reason string, err error) error {
	metrics.CheckoutFailedTotal.WithLabelValues(reason).Inc()
	return err
}

package server

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/handler"
)

// アプリのハンドラ一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Payment      *handler.PaymentHandler
	Order        *handler.OrderHandler
	Review       *handler.ReviewHandler
	Customer     *handler.CustomerHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
}

// RegisterRoutes は全ハンドラのルートをechoに登録する。
func RegisterRoutes(e *echo.Echo, cfg *config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Payment.RegisterRoutes(e)
	h.Order.RegisterRoutes(e, cfg)
	h.Review.RegisterRoutes(e, cfg)
	h.Customer.RegisterRoutes(e, cfg)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

// /checkoutのHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"order_number"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// checkoutの失敗レスポンスもsuccessフィールドを持つ
type CheckoutErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeCheckoutError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, CheckoutErrorResponse{Success: false, Error: he.Message})
	}
	return c.JSON(http.StatusInternalServerError, CheckoutErrorResponse{Success: false, Error: "internal error"})
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.checkout)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, CheckoutErrorResponse{Success: false, Error: "unauthorized"})
	}

	var form usecase.ShippingForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, CheckoutErrorResponse{Success: false, Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID, form)
	if err != nil {
		return writeCheckoutError(c, err)
	}
	return c.JSON(http.StatusOK, CheckoutResponse{
		Success:     true,
		OrderNumber: out.OrderNumber,
		Token:       out.Token,
		RedirectURL: out.RedirectURL,
	})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// 件数だけ返す系の応答
type CartMutationResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	CartCount int64  `json:"cart_count"`
}

// /cart 以下を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getCart)
	g.POST("", h.addItem)
	g.DELETE("", h.clearCart)
	g.POST("/coupon", h.applyCoupon)
	g.DELETE("/coupon", h.removeCoupon)
	g.PATCH("/:product_id", h.updateItem)
	g.DELETE("/:product_id", h.removeItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.View(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	count, err := h.uc.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CartMutationResponse{
		Success:   true,
		Message:   "item added to cart",
		CartCount: count,
	})
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	count, err := h.uc.UpdateItem(c.Request().Context(), userID, productID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CartMutationResponse{
		Success:   true,
		Message:   "cart updated",
		CartCount: count,
	})
}

func (h *CartHandler) removeItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	count, err := h.uc.RemoveItem(c.Request().Context(), userID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CartMutationResponse{
		Success:   true,
		Message:   "item removed from cart",
		CartCount: count,
	})
}

func (h *CartHandler) clearCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Clear(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CartMutationResponse{
		Success:   true,
		Message:   "cart cleared",
		CartCount: 0,
	})
}

func (h *CartHandler) applyCoupon(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ApplyCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ApplyCoupon(c.Request().Context(), userID, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeCoupon(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.RemoveCoupon(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

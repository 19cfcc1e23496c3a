package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

// 自分のプロフィール用HTTP
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

// DI
func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	g := e.Group("/profile")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.get)
	g.PUT("", h.update)
}

func (h *CustomerHandler) get(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var in usecase.ProfileUpdateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/repository"
	"storefront/internal/usecase"
)

// /products, /categories の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:slug", h.detail)
	e.GET("/categories", h.categories)
}

func (h *ProductHandler) list(c echo.Context) error {
	q := repository.ProductListQuery{
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 12),
		Q:            c.QueryParam("q"),
		CategorySlug: c.QueryParam("category"),
		Sort:         c.QueryParam("sort"),
		FeaturedOnly: c.QueryParam("featured") == "true",
	}

	out, err := h.uc.ListPublicProducts(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid slug"})
	}

	out, err := h.uc.GetProductDetail(c.Request().Context(), slug)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) categories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

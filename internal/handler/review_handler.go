package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

// レビュー投稿のHTTP
type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

// DI
func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	g := e.Group("/products/:slug/reviews")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.upsert)
}

func (h *ReviewHandler) upsert(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var in usecase.ReviewInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpsertReview(c.Request().Context(), userID, c.Param("slug"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

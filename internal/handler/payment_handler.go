package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/infra/payment"
	"storefront/internal/usecase"
)

// ゲートウェイからの通知を受けるwebhook。認証はかけない（呼び元はMidtrans）。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type WebhookResponse struct {
	Status string `json:"status"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payments/notification", h.notification)
}

func (h *PaymentHandler) notification(c echo.Context) error {
	var n payment.Notification
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusBadRequest, WebhookResponse{Status: "error"})
	}

	if err := h.uc.HandleNotification(c.Request().Context(), n); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok {
			return c.JSON(he.Status, WebhookResponse{Status: "error"})
		}
		return c.JSON(http.StatusInternalServerError, WebhookResponse{Status: "error"})
	}
	return c.JSON(http.StatusOK, WebhookResponse{Status: "success"})
}

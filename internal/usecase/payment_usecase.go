package usecase

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/domain/model"
	"storefront/internal/infra/payment"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/repository"
)

type PaymentUsecase struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	txManager    repository.TransactionManager
}

func NewPaymentUsecase(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository, txManager repository.TransactionManager) *PaymentUsecase {
	return &PaymentUsecase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		txManager:    txManager,
	}
}

// HandleNotification はゲートウェイからの決済通知を注文へ反映する。
// 同じ通知が重複して届いても結果は変わらない。
func (u *PaymentUsecase) HandleNotification(ctx context.Context, n payment.Notification) error {
	paymentStatus, orderStatus, ok := payment.MapNotification(n.TransactionStatus, n.FraudStatus)
	if !ok {
		metrics.WebhookNotificationsTotal.WithLabelValues(n.TransactionStatus, "unknown_status").Inc()
		return NewHTTPError(http.StatusBadRequest, "unknown transaction status")
	}

	order, err := u.orderRepo.FindByOrderNumber(ctx, n.OrderID)
	if err != nil {
		if err == repository.ErrNotFound {
			metrics.WebhookNotificationsTotal.WithLabelValues(n.TransactionStatus, "order_not_found").Inc()
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	// 既に同じ状態なら何もしない（リトライ・重複通知対策）
	if order.PaymentStatus == paymentStatus && order.Status == orderStatus {
		metrics.WebhookNotificationsTotal.WithLabelValues(n.TransactionStatus, "noop").Inc()
		return nil
	}

	statsChanged := order.PaymentStatus != paymentStatus

	// 決済手段は支払いが進んだ通知（capture/settlement/pending）だけ記録する。
	// deny/expire/cancel/refundでは既存値を上書きしない。
	paymentMethod := n.PaymentType
	if paymentStatus != model.PaymentStatusCompleted && paymentStatus != model.PaymentStatusPending {
		paymentMethod = ""
	}

	err = u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Orders().UpdatePaymentResult(ctx, order.ID, paymentStatus, orderStatus, paymentMethod); err != nil {
			return err
		}

		// 支払い失敗・キャンセルになった未発送注文は在庫を戻す
		if orderStatus == model.OrderStatusCancelled && order.Status != model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
			if err != nil {
				return err
			}
			for _, it := range items {
				if it.ProductID == nil {
					continue
				}
				if err := r.Inventory().IncreaseStock(ctx, *it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		// payment_statusが動いたら顧客の集計値を取り直す
		if statsChanged {
			count, total, err := r.Orders().AggregateCompletedByCustomer(ctx, order.CustomerID)
			if err != nil {
				return err
			}
			if err := r.Customers().UpdateStats(ctx, order.CustomerID, count, total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.WebhookNotificationsTotal.WithLabelValues(n.TransactionStatus, "error").Inc()
		return err
	}

	metrics.WebhookNotificationsTotal.WithLabelValues(n.TransactionStatus, "ok").Inc()
	logger.L().Info("payment notification applied",
		zap.String("order_number", order.OrderNumber),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("payment_status", string(paymentStatus)),
		zap.String("order_status", string(orderStatus)))
	return nil
}

package usecase

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/repository"
)

type AdminOrderUsecase struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.OrderItemRepository
	txManager repository.TransactionManager
}

func NewAdminOrderUsecase(orderRepo repository.OrderRepository, itemRepo repository.OrderItemRepository, txManager repository.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		txManager: txManager,
	}
}

type OrderStatusInput struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	Courier        string `json:"courier"`
}

// 許可される遷移だけ通す。delivered/refundedは終端。
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:    {model.OrderStatusDelivered},
	model.OrderStatusCancelled:  {},
	model.OrderStatusDelivered:  {},
	model.OrderStatusRefunded:   {},
}

func canTransition(from model.OrderStatus, to model.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (u *AdminOrderUsecase) ListOrders(ctx context.Context, f repository.AdminOrderListFilter) (*OrderListResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > maxPageLimit {
		f.Limit = 20
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, f)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{
		Orders: orders,
		Total:  total,
		Page:   f.Page,
		Limit:  f.Limit,
	}, nil
}

func (u *AdminOrderUsecase) GetOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return nil, err
	}
	items, err := u.itemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: order, Items: items}, nil
}

// UpdateStatus は注文ステータスを進める。
// 未発送のままキャンセルした場合は在庫を戻す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminUserID int64, orderID int64, in OrderStatusInput) (*model.Order, error) {
	next := model.OrderStatus(in.Status)
	switch next {
	case model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid order status")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return nil, err
	}
	if !canTransition(order.Status, next) {
		return nil, NewHTTPError(http.StatusBadRequest,
			"cannot change status from "+string(order.Status)+" to "+string(next))
	}
	if next == model.OrderStatusShipped && (in.TrackingNumber == "" || in.Courier == "") {
		return nil, NewHTTPError(http.StatusBadRequest, "tracking_number and courier are required when shipping")
	}

	err = u.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			return err
		}

		now := timeNow()
		switch next {
		case model.OrderStatusShipped:
			if err := r.Orders().UpdateShipping(ctx, orderID, in.TrackingNumber, in.Courier, &now, nil); err != nil {
				return err
			}
		case model.OrderStatusDelivered:
			if err := r.Orders().UpdateShipping(ctx, orderID, order.TrackingNumber, order.Courier, order.ShippedAt, &now); err != nil {
				return err
			}
		case model.OrderStatusCancelled:
			// 発送前キャンセルは在庫を戻す
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
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

		return r.AuditLogs().Create(ctx, buildAuditLog(adminUserID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
			map[string]string{"status": string(order.Status)}, map[string]string{"status": string(next)}))
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)),
		zap.Int64("admin_user_id", adminUserID))

	updated, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

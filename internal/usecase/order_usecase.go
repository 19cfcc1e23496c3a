package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type OrderUsecase struct {
	orderRepo    repository.OrderRepository
	itemRepo     repository.OrderItemRepository
	customerRepo repository.CustomerRepository
}

func NewOrderUsecase(orderRepo repository.OrderRepository, itemRepo repository.OrderItemRepository, customerRepo repository.CustomerRepository) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:    orderRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
	}
}

type OrderListResult struct {
	Orders []model.Order `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

type OrderDetail struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (*OrderListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = 10
	}

	customer, err := u.customerRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	orders, total, err := u.orderRepo.ListByCustomerID(ctx, customer.ID, page, limit)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{
		Orders: orders,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// 他人の注文は存在自体を伏せて404で返す。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderNumber string) (*OrderDetail, error) {
	customer, err := u.customerRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := u.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "order not found")
		}
		return nil, err
	}
	if order.CustomerID != customer.ID {
		return nil, NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.itemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: order, Items: items}, nil
}

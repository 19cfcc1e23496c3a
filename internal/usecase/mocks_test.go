package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"storefront/internal/domain/model"
	"storefront/internal/infra/payment"
	repo "storefront/internal/repository"
	"storefront/internal/session"
)

// =====================
// Session（マップ実装のフェイク）
// =====================

type FakeSessionStore struct {
	carts   map[int64]session.Cart
	coupons map[int64]string
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{
		carts:   map[int64]session.Cart{},
		coupons: map[int64]string{},
	}
}

func (s *FakeSessionStore) GetCart(ctx context.Context, userID int64) (session.Cart, error) {
	cart := session.Cart{}
	for k, v := range s.carts[userID] {
		cart[k] = v
	}
	return cart, nil
}

func (s *FakeSessionStore) SaveCart(ctx context.Context, userID int64, cart session.Cart) error {
	s.carts[userID] = cart
	return nil
}

func (s *FakeSessionStore) ClearCart(ctx context.Context, userID int64) error {
	delete(s.carts, userID)
	return nil
}

func (s *FakeSessionStore) GetCouponCode(ctx context.Context, userID int64) (string, error) {
	return s.coupons[userID], nil
}

func (s *FakeSessionStore) SaveCouponCode(ctx context.Context, userID int64, code string) error {
	s.coupons[userID] = code
	return nil
}

func (s *FakeSessionStore) ClearCouponCode(ctx context.Context, userID int64) error {
	delete(s.coupons, userID)
	return nil
}

// =====================
// Repository Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error) {
	args := m.Called(ctx, categoryID, excludeID, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) UpdateRating(ctx context.Context, id int64, rating float64, totalReviews int64) error {
	args := m.Called(ctx, id, rating, totalReviews)
	return args.Error(0)
}

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) IncrementUses(ctx context.Context, couponID int64) error {
	args := m.Called(ctx, couponID)
	return args.Error(0)
}

func (m *CouponRepoMock) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Coupon)
	return created, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdatePaymentResult(ctx context.Context, orderID int64, paymentStatus model.PaymentStatus, status model.OrderStatus, paymentMethod string) error {
	args := m.Called(ctx, orderID, paymentStatus, status, paymentMethod)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateShipping(ctx context.Context, orderID int64, trackingNumber string, courier string, shippedAt *time.Time, deliveredAt *time.Time) error {
	args := m.Called(ctx, orderID, trackingNumber, courier, shippedAt, deliveredAt)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) AggregateCompletedByCustomer(ctx context.Context, customerID int64) (int64, int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderItemRepoMock) HasCompletedPurchase(ctx context.Context, customerID int64, productID int64) (bool, error) {
	args := m.Called(ctx, customerID, productID)
	return args.Bool(0), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Customer)
	return created, args.Error(1)
}

func (m *CustomerRepoMock) Update(ctx context.Context, c model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CustomerRepoMock) UpdateStats(ctx context.Context, customerID int64, totalOrders int64, totalSpent int64) error {
	args := m.Called(ctx, customerID, totalOrders, totalSpent)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) Upsert(ctx context.Context, r model.Review) (model.Review, error) {
	args := m.Called(ctx, r)
	saved, _ := args.Get(0).(model.Review)
	return saved, args.Error(1)
}

func (m *ReviewRepoMock) FindByProductAndCustomer(ctx context.Context, productID int64, customerID int64) (model.Review, error) {
	args := m.Called(ctx, productID, customerID)
	r, _ := args.Get(0).(model.Review)
	return r, args.Error(1)
}

func (m *ReviewRepoMock) ListByProductID(ctx context.Context, productID int64, limit int) ([]model.Review, error) {
	args := m.Called(ctx, productID, limit)
	items, _ := args.Get(0).([]model.Review)
	return items, args.Error(1)
}

func (m *ReviewRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ReviewRepoMock) Aggregate(ctx context.Context, productID int64) (repo.ReviewAggregate, error) {
	args := m.Called(ctx, productID)
	agg, _ := args.Get(0).(repo.ReviewAggregate)
	return agg, args.Error(1)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

// =====================
// Tx（モックのrepoをそのまま配るフェイク）
// =====================

type FakeTxRepos struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	products  *ProductRepoMock
	inventory *InventoryRepoMock
	coupons   *CouponRepoMock
	customers *CustomerRepoMock
	reviews   *ReviewRepoMock
	auditLogs *AuditLogRepoMock
}

func (f *FakeTxRepos) Orders() repo.OrderRepository         { return f.orders }
func (f *FakeTxRepos) OrderItems() repo.OrderItemRepository { return f.items }
func (f *FakeTxRepos) Products() repo.ProductRepository     { return f.products }
func (f *FakeTxRepos) Inventory() repo.InventoryRepository  { return f.inventory }
func (f *FakeTxRepos) Coupons() repo.CouponRepository       { return f.coupons }
func (f *FakeTxRepos) Customers() repo.CustomerRepository   { return f.customers }
func (f *FakeTxRepos) Reviews() repo.ReviewRepository       { return f.reviews }
func (f *FakeTxRepos) AuditLogs() repo.AuditLogRepository   { return f.auditLogs }

type FakeTxManager struct {
	repos *FakeTxRepos
}

func (m *FakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

// =====================
// Gateway
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateTransaction(ctx context.Context, req payment.TransactionRequest) (payment.Session, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(payment.Session)
	return s, args.Error(1)
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/luxe-clothing/storefront/internal/events"
	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifySucceeded(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func floatPtr(v float64) *float64 { return &v }

type OrderServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repo      *repository.Repository
	publisher *recordingPublisher
	service   *OrderService
	caller    Identity
	now       time.Time
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repository.NewMemory()
	s.publisher = &recordingPublisher{}
	s.service = NewOrderService(s.repo, s.publisher, nil, nil)
	s.now = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	s.service.now = func() time.Time { return s.now }
	s.caller = Identity{
		UserID: uuid.New(),
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Role:   models.UserRoleUser,
	}
}

func (s *OrderServiceTestSuite) newProduct(stock int) *models.Product {
	p := &models.Product{
		Name:       "Classic Denim Jacket",
		Price:      89.99,
		Category:   models.ProductCategoryMen,
		StockCount: stock,
	}
	p.SyncStock()
	s.Require().NoError(s.repo.Products.Create(s.ctx, p))
	return p
}

func (s *OrderServiceTestSuite) orderFor(productID string, qty int) *CreateOrderRequest {
	return &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: productID, Name: "Classic Denim Jacket", Price: floatPtr(89.99), Quantity: qty, Size: "M"},
		},
		TotalAmount:     floatPtr(89.99 * float64(qty)),
		PaymentIntentID: "pi_test_123",
	}
}

func (s *OrderServiceTestSuite) stock(id uuid.UUID) *models.Product {
	p, err := s.repo.Products.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	return p
}

func (s *OrderServiceTestSuite) TestPlaceOrderDecrementsStock() {
	p := s.newProduct(5)

	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor(p.ID.String(), 3))

	s.Require().NoError(err)
	s.Equal(models.OrderStatusConfirmed, order.Status)
	after := s.stock(p.ID)
	s.Equal(2, after.StockCount)
	s.True(after.InStock)
}

func (s *OrderServiceTestSuite) TestPlaceOrderEmptiesStock() {
	p := s.newProduct(5)

	_, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor(p.ID.String(), 5))

	s.Require().NoError(err)
	after := s.stock(p.ID)
	s.Equal(0, after.StockCount)
	s.False(after.InStock)
}

func (s *OrderServiceTestSuite) TestPlaceOrderClampsAtZero() {
	p := s.newProduct(2)

	_, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor(p.ID.String(), 7))

	s.Require().NoError(err)
	after := s.stock(p.ID)
	s.Equal(0, after.StockCount)
	s.False(after.InStock)
}

func (s *OrderServiceTestSuite) TestPlaceOrderSkipsUnknownProducts() {
	p := s.newProduct(4)
	req := s.orderFor(uuid.NewString(), 1)
	req.Items = append(req.Items,
		OrderItemRequest{ProductID: "not-a-uuid", Name: "Gift card", Price: floatPtr(10), Quantity: 1},
		OrderItemRequest{Name: "Gift wrap", Price: floatPtr(2.5), Quantity: 1},
	)

	order, err := s.service.PlaceOrder(s.ctx, s.caller, req)

	s.Require().NoError(err)
	s.Len(order.Items, 3)
	s.Equal(4, s.stock(p.ID).StockCount)
}

func (s *OrderServiceTestSuite) TestPlaceOrderInitialState() {
	p := s.newProduct(5)

	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor(p.ID.String(), 1))

	s.Require().NoError(err)
	s.Regexp(`^LX\d{9}$`, order.OrderNumber)
	s.Equal(models.PaymentStatusSucceeded, order.PaymentStatus)
	s.Require().NotNil(order.Timeline.Ordered)
	s.Equal(models.OrderPlacedMessage, order.Timeline.Ordered.Status)
	s.Equal(s.now, order.Timeline.Ordered.Date)
	s.Nil(order.Timeline.Confirmed)
	s.Nil(order.Timeline.Processing)
	s.Nil(order.Timeline.Shipped)
	s.Nil(order.Timeline.Delivered)

	days := order.EstimatedDelivery.Sub(s.now).Hours() / 24
	s.GreaterOrEqual(days, 3.0)
	s.LessOrEqual(days, 5.0)

	s.Equal(models.ShippingAddress{Name: "Jane Doe", Email: "jane@example.com"}, order.ShippingAddress)
	s.InDelta(89.99, order.Subtotal, 0.001)
	s.Equal([]string{events.TypeOrderPlaced}, s.publisher.types())
}

func (s *OrderServiceTestSuite) TestPlaceOrderValidation() {
	p := s.newProduct(5)

	tests := []struct {
		name  string
		patch func(r *CreateOrderRequest)
	}{
		{"no items", func(r *CreateOrderRequest) { r.Items = nil }},
		{"no total", func(r *CreateOrderRequest) { r.TotalAmount = nil }},
		{"zero total", func(r *CreateOrderRequest) { r.TotalAmount = floatPtr(0) }},
		{"no payment intent", func(r *CreateOrderRequest) { r.PaymentIntentID = "" }},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"missing item price", func(r *CreateOrderRequest) { r.Items[0].Price = nil }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.orderFor(p.ID.String(), 2)
			tt.patch(req)

			_, err := s.service.PlaceOrder(s.ctx, s.caller, req)

			s.ErrorIs(err, ErrValidation)
		})
	}

	s.Equal(5, s.stock(p.ID).StockCount)
	s.Empty(s.publisher.types())
}

func (s *OrderServiceTestSuite) TestPlaceOrderRetriesOrderNumberCollision() {
	calls := 0
	s.service.intn = func(n int) int {
		if n != 1000 {
			return 0
		}
		calls++
		if calls == 1 {
			return 7
		}
		return 8
	}
	taken := s.service.orderNumber(s.now)
	s.Require().NoError(s.repo.Orders.Create(s.ctx, &models.Order{
		UserID:      uuid.New(),
		OrderNumber: taken,
	}))
	calls = 0

	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))

	s.Require().NoError(err)
	s.NotEqual(taken, order.OrderNumber)
	s.Equal(2, calls)
}

func (s *OrderServiceTestSuite) TestPlaceOrderGivesUpAfterRepeatedCollisions() {
	s.service.intn = func(int) int { return 0 }
	s.Require().NoError(s.repo.Orders.Create(s.ctx, &models.Order{
		UserID:      uuid.New(),
		OrderNumber: s.service.orderNumber(s.now),
	}))
	p := s.newProduct(5)

	_, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor(p.ID.String(), 2))

	s.ErrorIs(err, repository.ErrDuplicateOrderNumber)
	// Decrements are not rolled back when the insert fails.
	s.Equal(3, s.stock(p.ID).StockCount)
	orders, err := s.service.ListOrders(s.ctx, s.caller)
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *OrderServiceTestSuite) TestPlaceOrderWithVerifier() {
	verifier := new(mockVerifier)
	s.service.verifier = verifier
	p := s.newProduct(5)

	verifier.On("VerifySucceeded", mock.Anything, "pi_test_123").
		Return(newValidationError("paymentIntentId", "Payment has not been completed")).Once()

	_, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor(p.ID.String(), 1))

	s.ErrorIs(err, ErrValidation)
	s.Equal(5, s.stock(p.ID).StockCount)
	verifier.AssertExpectations(s.T())
}

func (s *OrderServiceTestSuite) TestListOrdersNewestFirst() {
	first, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))
	s.Require().NoError(err)
	s.now = s.now.Add(time.Minute)
	second, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 2))
	s.Require().NoError(err)

	_, err = s.service.PlaceOrder(s.ctx, Identity{UserID: uuid.New()}, s.orderFor("", 1))
	s.Require().NoError(err)

	orders, err := s.service.ListOrders(s.ctx, s.caller)

	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Equal(second.ID, orders[0].ID)
	s.Equal(first.ID, orders[1].ID)
	s.Equal(1, orders[0].ItemCount)
}

func (s *OrderServiceTestSuite) TestListOrdersEmpty() {
	orders, err := s.service.ListOrders(s.ctx, s.caller)

	s.Require().NoError(err)
	s.NotNil(orders)
	s.Empty(orders)
}

func (s *OrderServiceTestSuite) TestGetOrderOwnership() {
	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))
	s.Require().NoError(err)

	got, err := s.service.GetOrder(s.ctx, s.caller, order.ID)
	s.Require().NoError(err)
	s.Equal(order.OrderNumber, got.OrderNumber)

	_, err = s.service.GetOrder(s.ctx, Identity{UserID: uuid.New()}, order.ID)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.service.GetOrder(s.ctx, s.caller, uuid.New())
	s.ErrorIs(err, ErrNotFound)
}

func (s *OrderServiceTestSuite) TestGetOrderIsStable() {
	p := s.newProduct(5)
	req := s.orderFor(p.ID.String(), 2)
	req.ShippingAddress = &models.ShippingAddress{Name: "Jane Doe", Email: "jane@example.com", City: "Lyon"}
	order, err := s.service.PlaceOrder(s.ctx, s.caller, req)
	s.Require().NoError(err)

	first, err := s.service.GetOrder(s.ctx, s.caller, order.ID)
	s.Require().NoError(err)
	second, err := s.service.GetOrder(s.ctx, s.caller, order.ID)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(first.Timeline, second.Timeline)
	s.Equal(first.Items, second.Items)
	s.Equal(first.EstimatedDelivery, second.EstimatedDelivery)
	s.NotSame(first, second)
}

func (s *OrderServiceTestSuite) TestSimulateProgressWalksForward() {
	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))
	s.Require().NoError(err)

	expected := []models.OrderStatus{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	}
	for _, want := range expected {
		s.now = s.now.Add(time.Hour)
		progress, err := s.service.SimulateProgress(s.ctx, s.caller, order.ID)
		s.Require().NoError(err)
		s.Equal(want, progress.Status)
	}

	stored, err := s.service.GetOrder(s.ctx, s.caller, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusDelivered, stored.Status)
	s.Require().NotNil(stored.Timeline.Processing)
	s.Require().NotNil(stored.Timeline.Shipped)
	s.Require().NotNil(stored.Timeline.Delivered)
	s.Regexp(`^TRK\d{8}$`, stored.Timeline.Shipped.TrackingNumber)

	deliveredAt := stored.Timeline.Delivered.Date
	s.now = s.now.Add(time.Hour)
	progress, err := s.service.SimulateProgress(s.ctx, s.caller, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusDelivered, progress.Status)
	s.Equal(deliveredAt, progress.Timeline.Delivered.Date)

	s.Equal([]string{
		events.TypeOrderPlaced,
		events.TypeOrderStatusChanged,
		events.TypeOrderStatusChanged,
		events.TypeOrderStatusChanged,
	}, s.publisher.types())
}

func (s *OrderServiceTestSuite) TestSimulateProgressIgnoresPendingAndCancelled() {
	for _, status := range []string{"pending", "cancelled"} {
		order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))
		s.Require().NoError(err)
		_, err = s.service.UpdateStatus(s.ctx, s.caller, order.ID, &UpdateOrderStatusRequest{Status: status})
		s.Require().NoError(err)

		progress, err := s.service.SimulateProgress(s.ctx, s.caller, order.ID)

		s.Require().NoError(err)
		s.Equal(models.OrderStatus(status), progress.Status)
	}
}

func (s *OrderServiceTestSuite) TestUpdateStatusStampsOnlyTarget() {
	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))
	s.Require().NoError(err)

	progress, err := s.service.UpdateStatus(s.ctx, s.caller, order.ID, &UpdateOrderStatusRequest{Status: "shipped"})

	s.Require().NoError(err)
	s.Equal(models.OrderStatusShipped, progress.Status)
	s.NotNil(progress.Timeline.Shipped)
	s.Nil(progress.Timeline.Processing)
}

func (s *OrderServiceTestSuite) TestUpdateStatusSameValueIsNoop() {
	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))
	s.Require().NoError(err)

	_, err = s.service.UpdateStatus(s.ctx, s.caller, order.ID, &UpdateOrderStatusRequest{Status: "confirmed"})

	s.Require().NoError(err)
	s.Equal([]string{events.TypeOrderPlaced}, s.publisher.types())
}

func (s *OrderServiceTestSuite) TestUpdateStatusRejectsUnknownValue() {
	order, err := s.service.PlaceOrder(s.ctx, s.caller, s.orderFor("", 1))
	s.Require().NoError(err)

	_, err = s.service.UpdateStatus(s.ctx, s.caller, order.ID, &UpdateOrderStatusRequest{Status: "lost"})

	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("Invalid status", verr.Message)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

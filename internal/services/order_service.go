// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/luxe-clothing/storefront/internal/events"
	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
)

const (
	orderNumberPrefix      = "LX"
	trackingNumberPrefix   = "TRK"
	maxOrderNumberAttempts = 5
)

// PaymentVerifier confirms with the processor that an intent succeeded.
type PaymentVerifier interface {
	VerifySucceeded(ctx context.Context, paymentIntentID string) error
}

// OrderNotifier emails customers about their orders.
type OrderNotifier interface {
	SendOrderConfirmation(order *models.Order, name, email string) error
	SendOrderShipped(order *models.Order, name, email string) error
}

type OrderService struct {
	orders   repository.OrderRepo
	products repository.ProductRepo
	events   events.Publisher
	notifier OrderNotifier
	verifier PaymentVerifier

	now  func() time.Time
	intn func(n int) int
}

type OrderItemRequest struct {
	ProductID string   `json:"productId,omitempty"`
	Name      string   `json:"name" validate:"required,max=255"`
	Price     *float64 `json:"price" validate:"required,gte=0"`
	Quantity  int      `json:"quantity" validate:"gte=1"`
	Size      string   `json:"size,omitempty" validate:"max=20"`
	Color     string   `json:"color,omitempty" validate:"max=50"`
	Image     string   `json:"image,omitempty" validate:"max=500"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest      `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *float64                `json:"totalAmount" validate:"required,gt=0"`
	Subtotal        *float64                `json:"subtotal,omitempty" validate:"omitempty,gte=0"`
	Shipping        *float64                `json:"shipping,omitempty" validate:"omitempty,gte=0"`
	PaymentIntentID string                  `json:"paymentIntentId" validate:"required"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress,omitempty"`
	Notes           string                  `json:"notes,omitempty" validate:"max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// OrderSummary is one row of the caller's order history.
type OrderSummary struct {
	ID                uuid.UUID            `json:"id"`
	OrderNumber       string               `json:"orderNumber"`
	TotalAmount       float64              `json:"totalAmount"`
	Subtotal          float64              `json:"subtotal"`
	Shipping          float64              `json:"shipping"`
	Status            models.OrderStatus   `json:"status"`
	CreatedAt         time.Time            `json:"createdAt"`
	EstimatedDelivery time.Time            `json:"estimatedDelivery"`
	Items             []models.OrderItem   `json:"items"`
	Timeline          models.OrderTimeline `json:"orderTimeline"`
	ItemCount         int                  `json:"itemCount"`
}

// OrderProgress is returned by the status operations.
type OrderProgress struct {
	Status   models.OrderStatus   `json:"status"`
	Timeline models.OrderTimeline `json:"orderTimeline"`
}

// NewOrderService wires order placement. verifier may be nil, in which case
// the asserted payment intent is trusted.
func NewOrderService(repo *repository.Repository, publisher events.Publisher, notifier OrderNotifier, verifier PaymentVerifier) *OrderService {
	return &OrderService{
		orders:   repo.Orders,
		products: repo.Products,
		events:   publisher,
		notifier: notifier,
		verifier: verifier,
		now:      time.Now,
		intn:     rand.IntN,
	}
}

func (s *OrderService) orderNumber(at time.Time) string {
	return fmt.Sprintf("%s%06d%03d", orderNumberPrefix, at.UnixMilli()%1_000_000, s.intn(1000))
}

func (s *OrderService) trackingNumber(at time.Time) string {
	return fmt.Sprintf("%s%08d", trackingNumberPrefix, at.UnixMilli()%100_000_000)
}

// PlaceOrder decrements stock for every referenced product, then records the
// order. The two steps are separate writes: if the insert fails the
// decrements stay applied.
func (s *OrderService) PlaceOrder(ctx context.Context, caller Identity, req *CreateOrderRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if s.verifier != nil {
		if err := s.verifier.VerifySucceeded(ctx, req.PaymentIntentID); err != nil {
			return nil, err
		}
	}

	items := make([]models.OrderItem, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			Name:     item.Name,
			Price:    *item.Price,
			Quantity: item.Quantity,
			Size:     item.Size,
			Color:    item.Color,
			Image:    item.Image,
		}
		if id, err := uuid.Parse(item.ProductID); err == nil {
			items[i].ProductID = &id
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(*item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		if err := s.decrementStock(ctx, *item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	now := s.now()
	order := &models.Order{
		UserID:            caller.UserID,
		Items:             items,
		TotalAmount:       *req.TotalAmount,
		Subtotal:          subtotal.Round(2).InexactFloat64(),
		Status:            models.OrderStatusConfirmed,
		PaymentIntentID:   req.PaymentIntentID,
		PaymentStatus:     models.PaymentStatusSucceeded,
		EstimatedDelivery: now.AddDate(0, 0, 3+s.intn(3)),
		Notes:             req.Notes,
		Timeline: models.OrderTimeline{
			Ordered: &models.TimelineEntry{Date: now, Status: models.OrderPlacedMessage},
		},
	}
	order.CreatedAt = now
	if req.Subtotal != nil {
		order.Subtotal = *req.Subtotal
	}
	if req.Shipping != nil {
		order.Shipping = *req.Shipping
	}
	if req.ShippingAddress != nil {
		order.ShippingAddress = *req.ShippingAddress
	} else {
		order.ShippingAddress = models.ShippingAddress{Name: caller.Name, Email: caller.Email}
	}

	if err := s.insertOrder(ctx, order); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":           caller.UserID,
			"payment_intent_id": req.PaymentIntentID,
		}).Error("Order insert failed after stock decrement")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      caller.UserID,
		"total":        order.TotalAmount,
	}).Info("Order created and stock updated")

	s.publish(ctx, events.TypeOrderPlaced, order, "")
	s.notify(caller, order, OrderNotifier.SendOrderConfirmation)

	return order, nil
}

func (s *OrderService) decrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	level, err := s.products.DecrementStock(ctx, productID, qty)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if level == nil {
		logrus.WithField("product_id", productID).Debug("Ordered product not in catalog, stock unchanged")
		return nil
	}
	logrus.WithFields(logrus.Fields{
		"product_id":  productID,
		"stock_count": level.StockCount,
		"in_stock":    level.InStock,
	}).Info("Stock updated")
	return nil
}

// insertOrder assigns the order number. A clash on the unique index is
// retried with a fresh number; nothing was persisted for the failed attempt.
func (s *OrderService) insertOrder(ctx context.Context, order *models.Order) error {
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = s.orderNumber(s.now())
		err := s.orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateOrderNumber) {
			return fmt.Errorf("failed to create order: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		}).Warn("Order number collision, regenerating")
	}
	return fmt.Errorf("failed to create order: %w", repository.ErrDuplicateOrderNumber)
}

func (s *OrderService) ListOrders(ctx context.Context, caller Identity) ([]OrderSummary, error) {
	orders, err := s.orders.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{
			ID:                o.ID,
			OrderNumber:       o.OrderNumber,
			TotalAmount:       o.TotalAmount,
			Subtotal:          o.Subtotal,
			Shipping:          o.Shipping,
			Status:            o.Status,
			CreatedAt:         o.CreatedAt,
			EstimatedDelivery: o.EstimatedDelivery,
			Items:             o.Items,
			Timeline:          o.Timeline,
			ItemCount:         len(o.Items),
		})
	}
	return summaries, nil
}

// GetOrder loads an order owned by the caller. Someone else's order is
// reported as missing.
func (s *OrderService) GetOrder(ctx context.Context, caller Identity, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetForUser(ctx, orderID, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return nil, &NotFoundError{Resource: "Order"}
	}
	return order, nil
}

// UpdateStatus sets any enumerated status; there is no transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, caller Identity, orderID uuid.UUID, req *UpdateOrderStatusRequest) (*OrderProgress, error) {
	if err := validateRequest(req); err != nil {
		return nil, newValidationError("status", "Invalid status")
	}

	order, err := s.GetOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if order.SetStatus(models.OrderStatus(req.Status), s.now()) {
		if err := s.saveProgress(ctx, caller, order, previous); err != nil {
			return nil, err
		}
	}

	return &OrderProgress{Status: order.Status, Timeline: order.Timeline}, nil
}

// SimulateProgress moves the order one step along
// confirmed, processing, shipped, delivered. Any other position is left as is.
func (s *OrderService) SimulateProgress(ctx context.Context, caller Identity, orderID uuid.UUID) (*OrderProgress, error) {
	order, err := s.GetOrder(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}

	next, ok := models.NextSimulatedStatus(order.Status)
	if !ok {
		return &OrderProgress{Status: order.Status, Timeline: order.Timeline}, nil
	}

	now := s.now()
	previous := order.Status
	order.SetStatus(next, now)
	if next == models.OrderStatusShipped {
		order.Timeline.Shipped.TrackingNumber = s.trackingNumber(now)
	}

	if err := s.saveProgress(ctx, caller, order, previous); err != nil {
		return nil, err
	}

	return &OrderProgress{Status: order.Status, Timeline: order.Timeline}, nil
}

func (s *OrderService) saveProgress(ctx context.Context, caller Identity, order *models.Order, previous models.OrderStatus) error {
	if err := s.orders.UpdateProgress(ctx, order); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"from":         previous,
		"to":           order.Status,
	}).Info("Order status updated")

	s.publish(ctx, events.TypeOrderStatusChanged, order, previous)
	if order.Status == models.OrderStatusShipped {
		s.notify(caller, order, OrderNotifier.SendOrderShipped)
	}
	return nil
}

// publish never fails the request. The produce outlives the request context.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order, previous models.OrderStatus) {
	if s.events == nil {
		return
	}
	ev := events.NewOrderEvent(eventType, order, s.now())
	ev.PreviousStatus = previous
	if err := s.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		logrus.WithError(err).WithField("order_number", order.OrderNumber).Warn("Failed to publish order event")
	}
}

func (s *OrderService) notify(caller Identity, order *models.Order, send func(OrderNotifier, *models.Order, string, string) error) {
	if s.notifier == nil || caller.Email == "" {
		return
	}
	snapshot := *order
	go func() {
		if err := send(s.notifier, &snapshot, caller.Name, caller.Email); err != nil {
			logrus.WithError(err).WithField("order_number", snapshot.OrderNumber).Warn("Failed to send order email")
		}
	}()
}

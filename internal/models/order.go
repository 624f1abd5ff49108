// internal/models/order.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	BaseModel
	UserID            uuid.UUID       `json:"userId" gorm:"type:uuid;not null;index"`
	OrderNumber       string          `json:"orderNumber" gorm:"size:20;not null;uniqueIndex"`
	Items             []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount       float64         `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	Subtotal          float64         `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Shipping          float64         `json:"shipping" gorm:"type:decimal(10,2);default:0"`
	Status            OrderStatus     `json:"status" gorm:"type:varchar(20);default:'confirmed';index"`
	PaymentIntentID   string          `json:"paymentIntentId" gorm:"size:255;not null;index"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(20);default:'succeeded'"`
	ShippingAddress   ShippingAddress `json:"shippingAddress" gorm:"type:jsonb"`
	Timeline          OrderTimeline   `json:"orderTimeline" gorm:"type:jsonb;not null"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	Notes             string          `json:"notes,omitempty" gorm:"type:text"`
}

// OrderItem is a snapshot of a cart line at purchase time. ProductID is kept
// as a plain reference; later catalog edits never touch it.
type OrderItem struct {
	ID        uuid.UUID  `json:"-" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID   uuid.UUID  `json:"-" gorm:"type:uuid;not null;index"`
	Position  int        `json:"-" gorm:"not null;default:0"`
	ProductID *uuid.UUID `json:"productId,omitempty" gorm:"type:uuid;index"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Price     float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity  int        `json:"quantity" gorm:"not null"`
	Size      string     `json:"size,omitempty" gorm:"size:20"`
	Color     string     `json:"color,omitempty" gorm:"size:50"`
	Image     string     `json:"image,omitempty" gorm:"size:500"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type ShippingAddress struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}
	return scanJSON(value, a)
}

type TimelineEntry struct {
	Date           time.Time `json:"date"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
}

// OrderTimeline has one slot per status worth showing to the customer.
// Pending and cancelled have no slot.
type OrderTimeline struct {
	Ordered    *TimelineEntry `json:"ordered,omitempty"`
	Confirmed  *TimelineEntry `json:"confirmed,omitempty"`
	Processing *TimelineEntry `json:"processing,omitempty"`
	Shipped    *TimelineEntry `json:"shipped,omitempty"`
	Delivered  *TimelineEntry `json:"delivered,omitempty"`
}

const OrderPlacedMessage = "Order placed successfully"

var timelineMessages = map[OrderStatus]string{
	OrderStatusConfirmed:  "Order confirmed.",
	OrderStatusProcessing: "Your order is being prepared",
	OrderStatusShipped:    "Your order has been shipped",
	OrderStatusDelivered:  "Order delivered successfully.",
}

// TimelineMessage returns the customer-facing message for a status slot.
func TimelineMessage(status OrderStatus) string {
	return timelineMessages[status]
}

func (t *OrderTimeline) slot(status OrderStatus) **TimelineEntry {
	switch status {
	case OrderStatusConfirmed:
		return &t.Confirmed
	case OrderStatusProcessing:
		return &t.Processing
	case OrderStatusShipped:
		return &t.Shipped
	case OrderStatusDelivered:
		return &t.Delivered
	}
	return nil
}

// Stamp records at and the status message on the slot for status. It reports
// false when the status has no slot. Fields other than date and message, such
// as a tracking number, survive a re-stamp.
func (t *OrderTimeline) Stamp(status OrderStatus, at time.Time) bool {
	slot := t.slot(status)
	if slot == nil {
		return false
	}
	if *slot == nil {
		*slot = &TimelineEntry{}
	}
	(*slot).Date = at
	(*slot).Status = timelineMessages[status]
	return true
}

// StampedCount is the number of filled slots, ordered included.
func (t OrderTimeline) StampedCount() int {
	n := 0
	for _, e := range []*TimelineEntry{t.Ordered, t.Confirmed, t.Processing, t.Shipped, t.Delivered} {
		if e != nil {
			n++
		}
	}
	return n
}

func (t OrderTimeline) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *OrderTimeline) Scan(value interface{}) error {
	if value == nil {
		*t = OrderTimeline{}
		return nil
	}
	return scanJSON(value, t)
}

// SetStatus moves the order to status and stamps the matching timeline slot.
// Setting the current status again changes nothing and reports false.
func (o *Order) SetStatus(status OrderStatus, at time.Time) bool {
	if o.Status == status {
		return false
	}
	o.Status = status
	o.Timeline.Stamp(status, at)
	return true
}

// simulatedFlow is the forward path followed by the demo progress action.
var simulatedFlow = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// NextSimulatedStatus returns the status after current on the demo path, or
// false when current is the last step or not on the path at all.
func NextSimulatedStatus(current OrderStatus) (OrderStatus, bool) {
	for i, s := range simulatedFlow {
		if s == current && i < len(simulatedFlow)-1 {
			return simulatedFlow[i+1], true
		}
	}
	return "", false
}

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/models"
)

func TestNewWithoutBrokersIsNoop(t *testing.T) {
	p, err := New(config.KafkaConfig{OrderTopic: "orders"})
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{Type: TypeOrderPlaced}))
	p.Close()
}

func TestNewOrderEventCarriesTrackingNumber(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &models.Order{
		UserID:      uuid.New(),
		OrderNumber: "LX123456789",
		Status:      models.OrderStatusShipped,
		TotalAmount: 129.99,
		Items:       []models.OrderItem{{Name: "Coat", Quantity: 1}, {Name: "Scarf", Quantity: 2}},
		Timeline: models.OrderTimeline{
			Shipped: &models.TimelineEntry{Date: at, TrackingNumber: "TRK12345678"},
		},
	}
	order.ID = uuid.New()

	ev := NewOrderEvent(TypeOrderStatusChanged, order, at)

	assert.Equal(t, order.ID, ev.OrderID)
	assert.Equal(t, 2, ev.ItemCount)
	assert.Equal(t, "TRK12345678", ev.TrackingNumber)
	assert.Equal(t, models.OrderStatusShipped, ev.Status)
}

func TestEncodeRecord(t *testing.T) {
	ev := OrderEvent{
		Type:        TypeOrderPlaced,
		OrderID:     uuid.New(),
		OrderNumber: "LX000123045",
		Status:      models.OrderStatusConfirmed,
		OccurredAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	record, err := encodeRecord("orders", ev)
	require.NoError(t, err)

	assert.Equal(t, "orders", record.Topic)
	assert.Equal(t, ev.OrderID.String(), string(record.Key))
	assert.Equal(t, ev.OccurredAt, record.Timestamp)
	require.Len(t, record.Headers, 1)
	assert.Equal(t, "event-type", record.Headers[0].Key)
	assert.Equal(t, TypeOrderPlaced, string(record.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	assert.Equal(t, "order.placed", decoded["type"])
	assert.Equal(t, "LX000123045", decoded["orderNumber"])
	assert.NotContains(t, decoded, "previousStatus")
}

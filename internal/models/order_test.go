package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSetStatusStampsOnlyMatchingSlot(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &Order{
		Status:   OrderStatusConfirmed,
		Timeline: OrderTimeline{Ordered: &TimelineEntry{Date: created, Status: OrderPlacedMessage}},
	}

	at := created.Add(time.Hour)
	assert.True(t, order.SetStatus(OrderStatusShipped, at))

	assert.Equal(t, OrderStatusShipped, order.Status)
	require.NotNil(t, order.Timeline.Shipped)
	assert.Equal(t, at, order.Timeline.Shipped.Date)
	assert.Equal(t, "Your order has been shipped", order.Timeline.Shipped.Status)
	assert.Nil(t, order.Timeline.Processing, "skipped status must not get an entry")
	assert.Nil(t, order.Timeline.Confirmed)
	assert.Equal(t, 2, order.Timeline.StampedCount())
}

func TestOrderSetStatusWithoutSlot(t *testing.T) {
	order := &Order{Status: OrderStatusConfirmed}

	assert.True(t, order.SetStatus(OrderStatusCancelled, time.Now()))
	assert.Equal(t, OrderStatusCancelled, order.Status)
	assert.Equal(t, 0, order.Timeline.StampedCount())

	assert.True(t, order.SetStatus(OrderStatusPending, time.Now()))
	assert.Equal(t, 0, order.Timeline.StampedCount())
}

func TestOrderSetStatusSameValueIsNoop(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &Order{Status: OrderStatusProcessing}
	order.Timeline.Stamp(OrderStatusProcessing, first)

	assert.False(t, order.SetStatus(OrderStatusProcessing, first.Add(time.Hour)))
	assert.Equal(t, first, order.Timeline.Processing.Date)
}

func TestTimelineRestampKeepsTrackingNumber(t *testing.T) {
	var tl OrderTimeline
	tl.Stamp(OrderStatusShipped, time.Now())
	tl.Shipped.TrackingNumber = "TRK12345678"

	later := time.Now().Add(time.Minute)
	tl.Stamp(OrderStatusShipped, later)

	assert.Equal(t, "TRK12345678", tl.Shipped.TrackingNumber)
	assert.Equal(t, later, tl.Shipped.Date)
}

func TestNextSimulatedStatus(t *testing.T) {
	cases := []struct {
		current OrderStatus
		next    OrderStatus
		ok      bool
	}{
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, "", false},
		{OrderStatusPending, "", false},
		{OrderStatusCancelled, "", false},
	}
	for _, tc := range cases {
		next, ok := NextSimulatedStatus(tc.current)
		assert.Equal(t, tc.ok, ok, tc.current)
		assert.Equal(t, tc.next, next, tc.current)
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("returned").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestTimelineJSONRoundTripThroughScanner(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tl := OrderTimeline{Ordered: &TimelineEntry{Date: at, Status: OrderPlacedMessage}}

	raw, err := tl.Value()
	require.NoError(t, err)

	var scanned OrderTimeline
	require.NoError(t, scanned.Scan(raw))
	require.NoError(t, (&OrderTimeline{}).Scan(string(raw.([]byte))))
	assert.Equal(t, tl, scanned)

	out, err := json.Marshal(scanned)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "shipped")
}

func TestProductApplyDecrement(t *testing.T) {
	p := &Product{StockCount: 5, InStock: true}
	p.ApplyDecrement(3)
	assert.Equal(t, 2, p.StockCount)
	assert.True(t, p.InStock)

	p.ApplyDecrement(5)
	assert.Equal(t, 0, p.StockCount)
	assert.False(t, p.InStock)
}

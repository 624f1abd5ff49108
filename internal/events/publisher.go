// internal/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/models"
)

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload written to the order topic.
type OrderEvent struct {
	Type           string             `json:"type"`
	OrderID        uuid.UUID          `json:"orderId"`
	OrderNumber    string             `json:"orderNumber"`
	UserID         uuid.UUID          `json:"userId"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	TotalAmount    float64            `json:"totalAmount"`
	ItemCount      int                `json:"itemCount"`
	TrackingNumber string             `json:"trackingNumber,omitempty"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

// NewOrderEvent snapshots order for an event of the given type.
func NewOrderEvent(eventType string, order *models.Order, at time.Time) OrderEvent {
	ev := OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		OccurredAt:  at,
	}
	if order.Timeline.Shipped != nil {
		ev.TrackingNumber = order.Timeline.Shipped.TrackingNumber
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
	Close()
}

// New returns a Kafka publisher, or a no-op one when no brokers are configured.
func New(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		logrus.Info("Kafka brokers not configured, order events disabled")
		return NoopPublisher{}, nil
	}
	return NewKafkaPublisher(cfg)
}

type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.OrderTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.OrderTopic,
	}).Info("Kafka order publisher ready")

	return &KafkaPublisher{client: client, topic: cfg.OrderTopic}, nil
}

// Publish buffers the event and returns. Delivery failures are logged from
// the produce callback.
func (p *KafkaPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	record, err := encodeRecord(p.topic, ev)
	if err != nil {
		return err
	}

	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		entry := logrus.WithFields(logrus.Fields{
			"event_type":   ev.Type,
			"order_number": ev.OrderNumber,
		})
		if err != nil {
			entry.WithError(err).Error("Failed to deliver order event")
			return
		}
		entry.WithFields(logrus.Fields{
			"partition": r.Partition,
			"offset":    r.Offset,
		}).Debug("Order event delivered")
	})
	return nil
}

func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		logrus.WithError(err).Warn("Kafka flush incomplete on shutdown")
	}
	p.client.Close()
}

// encodeRecord keys records by order id so every event of one order lands on
// the same partition.
func encodeRecord(topic string, ev OrderEvent) (*kgo.Record, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}
	return &kgo.Record{
		Topic:     topic,
		Key:       []byte(ev.OrderID.String()),
		Value:     payload,
		Timestamp: ev.OccurredAt,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}, nil
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	logrus.WithFields(logrus.Fields{
		"event_type":   ev.Type,
		"order_number": ev.OrderNumber,
	}).Debug("Order event dropped, publisher disabled")
	return nil
}

func (NoopPublisher) Close() {}

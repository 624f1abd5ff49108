package services

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/models"
)

type fakeMailer struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, m...)
	return nil
}

func mailConfig() *config.Config {
	return &config.Config{
		Email: config.EmailConfig{
			FromEmail: "orders@luxe.com",
			FromName:  "LUXE",
		},
		Frontend: config.FrontendConfig{BaseURL: "https://shop.luxe.com"},
	}
}

func rendered(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendOrderConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationServiceWithMailer(mailConfig(), mailer)
	order := &models.Order{
		OrderNumber:       "LX123456789",
		Items:             []models.OrderItem{{Name: "Summer Dress", Price: 59.9, Quantity: 2, Size: "S"}},
		Subtotal:          119.8,
		TotalAmount:       119.8,
		EstimatedDelivery: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	order.ID = uuid.New()

	require.NoError(t, svc.SendOrderConfirmation(order, "Jane Doe", "jane@example.com"))

	require.Len(t, mailer.messages, 1)
	msg := mailer.messages[0]
	assert.Equal(t, []string{"Your LUXE order LX123456789"}, msg.GetHeader("Subject"))
	assert.Contains(t, msg.GetHeader("To")[0], "jane@example.com")
	assert.Contains(t, rendered(t, msg), "Summer Dress")
}

func TestSendOrderShippedIncludesTracking(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationServiceWithMailer(mailConfig(), mailer)
	order := &models.Order{
		OrderNumber: "LX123456789",
		Timeline: models.OrderTimeline{
			Shipped: &models.TimelineEntry{Date: time.Now(), TrackingNumber: "TRK12345678"},
		},
	}

	require.NoError(t, svc.SendOrderShipped(order, "Jane Doe", "jane@example.com"))

	require.Len(t, mailer.messages, 1)
	assert.Contains(t, rendered(t, mailer.messages[0]), "TRK12345678")
}

func TestSendWelcomeEmailWithoutTransport(t *testing.T) {
	svc := NewNotificationService(mailConfig())

	assert.NoError(t, svc.SendWelcomeEmail(&models.User{Name: "Jane", Email: "jane@example.com"}))
}

func TestSendEmailPropagatesTransportError(t *testing.T) {
	svc := NewNotificationServiceWithMailer(mailConfig(), &fakeMailer{err: errors.New("connection refused")})

	err := svc.SendWelcomeEmail(&models.User{Name: "Jane", Email: "jane@example.com"})

	assert.ErrorContains(t, err, "connection refused")
}

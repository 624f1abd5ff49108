// internal/services/payment_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/luxe-clothing/storefront/internal/config"
)

const (
	// Stripe rejects metadata values longer than this.
	maxMetadataValue = 500
	// Largest charge Stripe accepts, in minor units.
	maxChargeMinorUnits = 99999999
)

// IntentClient is the slice of the processor API the storefront uses.
type IntentClient interface {
	Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

type stripeIntentClient struct {
	client paymentintent.Client
}

func NewStripeIntentClient(secretKey string) IntentClient {
	return &stripeIntentClient{
		client: paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func (c *stripeIntentClient) Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	params.Context = ctx
	return c.client.New(params)
}

func (c *stripeIntentClient) Get(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return c.client.Get(id, params)
}

type PaymentService struct {
	intents IntentClient
	config  *config.Config
}

type PaymentItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Amount is left untyped so a non-numeric value reaches the amount check
// instead of failing the JSON decode.
type CreatePaymentIntentRequest struct {
	Amount   interface{}   `json:"amount"`
	Currency string        `json:"currency,omitempty"`
	Items    []PaymentItem `json:"items,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type IntentStatus struct {
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func NewPaymentService(intents IntentClient, config *config.Config) *PaymentService {
	return &PaymentService{
		intents: intents,
		config:  config,
	}
}

// parseAmount accepts JSON numbers only and enforces the configured floor.
func (s *PaymentService) parseAmount(raw interface{}) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, &InvalidAmountError{Message: "Amount is required"}
	case float64:
		amount = decimal.NewFromFloat(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, &InvalidAmountError{Message: "Amount must be a number"}
		}
		amount = d
	default:
		return decimal.Zero, &InvalidAmountError{Message: "Amount must be a number"}
	}

	floor := decimal.NewFromFloat(s.config.Payment.MinimumAmount)
	if amount.LessThan(floor) {
		return decimal.Zero, &InvalidAmountError{
			Message: fmt.Sprintf("Invalid amount. Minimum is %s", floor.StringFixed(2)),
		}
	}

	minor := amount.Shift(2).Round(0)
	if !minor.BigInt().IsInt64() || minor.IntPart() > maxChargeMinorUnits {
		return decimal.Zero, &InvalidAmountError{
			Message: fmt.Sprintf("Invalid amount. Maximum is %s", decimal.New(maxChargeMinorUnits, -2).StringFixed(2)),
		}
	}
	return amount, nil
}

func (s *PaymentService) CreatePaymentIntent(ctx context.Context, caller Identity, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	amount, err := s.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.config.Payment.DefaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Shift(2).Round(0).IntPart()),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("itemCount", strconv.Itoa(len(req.Items)))
	params.AddMetadata("userId", caller.UserID.String())
	if items, err := json.Marshal(req.Items); err == nil && len(items) <= maxMetadataValue {
		params.AddMetadata("items", string(items))
	} else {
		logrus.WithField("item_count", len(req.Items)).Warn("Item summary too large for intent metadata, omitted")
	}

	pi, err := s.intents.Create(ctx, params)
	if err != nil {
		return nil, &GatewayError{Op: "create payment intent", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"payment_intent_id": pi.ID,
		"amount":            amount.StringFixed(2),
		"currency":          currency,
		"user_id":           caller.UserID,
	}).Info("Payment intent created")

	return &PaymentIntentResponse{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
	}, nil
}

func (s *PaymentService) GetIntentStatus(ctx context.Context, id string) (*IntentStatus, error) {
	pi, err := s.intents.Get(ctx, id)
	if err != nil {
		return nil, &GatewayError{Op: "retrieve payment intent", Err: err}
	}

	return &IntentStatus{
		Status:   string(pi.Status),
		Amount:   decimal.New(pi.Amount, -2).InexactFloat64(),
		Currency: string(pi.Currency),
	}, nil
}

// VerifySucceeded rejects an intent the processor does not report as
// succeeded.
func (s *PaymentService) VerifySucceeded(ctx context.Context, id string) error {
	pi, err := s.intents.Get(ctx, id)
	if err != nil {
		return &GatewayError{Op: "retrieve payment intent", Err: err}
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return newValidationError("paymentIntentId", "Payment has not been completed")
	}
	return nil
}

// HandleWebhook authenticates and records a processor event. It never
// changes order or stock state.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) (*stripe.Event, error) {
	if secret := s.config.Payment.StripeWebhookSecret; secret != "" {
		if err := webhook.ValidatePayload(payload, signature, secret); err != nil {
			return nil, newValidationError("stripe-signature", "Webhook signature verification failed")
		}
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, newValidationError("body", "Invalid webhook payload")
	}

	entry := logrus.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": string(event.Type),
	})

	switch string(event.Type) {
	case "payment_intent.succeeded":
		entry.Info("Payment succeeded")
	case "payment_intent.payment_failed":
		entry.Warn("Payment failed")
	default:
		entry.Debug("Unhandled webhook event type")
	}

	return &event, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Gateway event outcomes.
const (
	GatewayPaymentSucceeded = "succeeded"
	GatewayPaymentFailed    = "failed"
)

// Intent is a gateway-side payment the client completes.
type Intent struct {
	ID           string
	ClientSecret string
}

// GatewayEvent is a verified notification from the payment gateway.
type GatewayEvent struct {
	ID              string
	Type            string
	Outcome         string
	PaymentIntentID string
	ChargeID        string
	OrderID         string
}

// PaymentGateway creates online payments and verifies gateway callbacks.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*Intent, error)
	ParseEvent(payload []byte, signature string) (*GatewayEvent, error)
}

type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseEvent verifies the Stripe-Signature header and extracts the payment
// intent outcome. Event types other than success and failure yield an empty
// Outcome.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*GatewayEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, err
	}

	out := &GatewayEvent{ID: event.ID, Type: string(event.Type)}
	switch event.Type {
	case "payment_intent.succeeded":
		out.Outcome = GatewayPaymentSucceeded
	case "payment_intent.payment_failed":
		out.Outcome = GatewayPaymentFailed
	default:
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	out.PaymentIntentID = pi.ID
	out.OrderID = pi.Metadata["order_id"]
	if pi.LatestCharge != nil {
		out.ChargeID = pi.LatestCharge.ID
	}
	return out, nil
}

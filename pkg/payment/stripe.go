package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProvider struct {
	client        *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{
		client:        sc,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, request *CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	quantity := request.Quantity
	if quantity == 0 {
		quantity = 1
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(request.SuccessURL),
		CancelURL:         stripe.String(request.CancelURL),
		CustomerEmail:     stripe.String(request.CustomerEmail),
		ClientReferenceID: stripe.String(request.ReferenceID),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(request.Currency),
					UnitAmount: stripe.Int64(int64(request.Amount * 100)), // cents
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(request.ProductName),
						Description: stripe.String(request.Description),
						Images:      stripe.StringSlice(request.ImageURLs),
					},
				},
				Quantity: stripe.Int64(quantity),
			},
		},
	}
	params.Context = ctx

	sess, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSessionResponse{
		SessionID:  sess.ID,
		SessionURL: sess.URL,
	}, nil
}

func (s *StripeProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	result := &WebhookEvent{
		EventID:   event.ID,
		EventType: string(event.Type),
		CreatedAt: event.Created,
	}

	if result.EventType == EventCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
		}

		result.ReferenceID = sess.ClientReferenceID
		result.AmountTotal = float64(sess.AmountTotal) / 100
		result.Currency = string(sess.Currency)
		result.CustomerEmail = sess.CustomerEmail
		if result.CustomerEmail == "" && sess.CustomerDetails != nil {
			result.CustomerEmail = sess.CustomerDetails.Email
		}
	}

	return result, nil
}

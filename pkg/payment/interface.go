package payment

import (
	"context"
)

// Provider is the payment-gateway seam. Checkout happens on the provider's
// hosted page; the session carries an opaque reference that correlates the
// completed payment back to a tour.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, request *CheckoutSessionRequest) (*CheckoutSessionResponse, error)
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

type CheckoutSessionRequest struct {
	ReferenceID   string   // opaque correlation id (the tour id)
	CustomerEmail string
	ProductName   string
	Description   string
	ImageURLs     []string
	Amount        float64 // major units
	Currency      string
	Quantity      int64
	SuccessURL    string
	CancelURL     string
}

type CheckoutSessionResponse struct {
	SessionID  string `json:"session_id"`
	SessionURL string `json:"session_url"`
}

// WebhookEvent is a provider event with its signature already verified.
type WebhookEvent struct {
	EventID       string
	EventType     string
	ReferenceID   string
	CustomerEmail string
	AmountTotal   float64 // major units, as captured by the provider
	Currency      string
	CreatedAt     int64
}

const EventCheckoutCompleted = "checkout.session.completed"

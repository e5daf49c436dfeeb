package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload produces the v1 signature header scheme the gateway uses:
// HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload() []byte {
	return []byte(`{
		"id": "evt_test_1",
		"type": "checkout.session.completed",
		"api_version": "2023-10-16",
		"created": 1700000000,
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"client_reference_id": "5c88fa8cf4afda39709c2955",
				"customer_email": "buyer@example.com",
				"amount_total": 49700,
				"currency": "usd"
			}
		}
	}`)
}

func TestValidateWebhook_ValidSignature(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := checkoutCompletedPayload()
	signature := signPayload(payload, testWebhookSecret, time.Now())

	event, err := provider.ValidateWebhook(context.Background(), payload, signature)
	if err != nil {
		t.Fatalf("ValidateWebhook: %v", err)
	}

	if event.EventType != EventCheckoutCompleted {
		t.Fatalf("expected checkout completion, got %q", event.EventType)
	}
	if event.ReferenceID != "5c88fa8cf4afda39709c2955" {
		t.Fatalf("expected the client reference id, got %q", event.ReferenceID)
	}
	if event.CustomerEmail != "buyer@example.com" {
		t.Fatalf("expected the customer email, got %q", event.CustomerEmail)
	}
	if event.AmountTotal != 497 {
		t.Fatalf("expected amount in major units, got %v", event.AmountTotal)
	}
}

func TestValidateWebhook_WrongSecret(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := checkoutCompletedPayload()
	signature := signPayload(payload, "whsec_other_secret", time.Now())

	if _, err := provider.ValidateWebhook(context.Background(), payload, signature); err == nil {
		t.Fatalf("expected signature verification failure")
	}
}

func TestValidateWebhook_TamperedPayload(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := checkoutCompletedPayload()
	signature := signPayload(payload, testWebhookSecret, time.Now())

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '

	if _, err := provider.ValidateWebhook(context.Background(), tampered, signature); err == nil {
		t.Fatalf("expected tampered payload to be rejected")
	}
}

func TestValidateWebhook_StaleTimestamp(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := checkoutCompletedPayload()
	signature := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))

	if _, err := provider.ValidateWebhook(context.Background(), payload, signature); err == nil {
		t.Fatalf("expected replayed timestamp to be rejected")
	}
}

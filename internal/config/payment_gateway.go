package config

type PaymentConfig struct {
	Stripe   *StripeConfig
	Currency string

	// AllowUnverifiedCheckout enables the legacy redirect-based booking path
	// that trusts tour/user/price query parameters without a verified payment.
	// Leave off unless webhook delivery cannot be relied upon.
	AllowUnverifiedCheckout bool
}

type StripeConfig struct {
	PublishableKey string
	SecretKey      string
	WebhookSecret  string
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		Stripe: &StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Currency:                getEnv("PAYMENT_CURRENCY", "usd"),
		AllowUnverifiedCheckout: getEnvAsBool("PAYMENT_ALLOW_UNVERIFIED_CHECKOUT", false),
	}
}

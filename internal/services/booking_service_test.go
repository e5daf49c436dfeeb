package services

import (
	"context"
	"errors"
	"testing"

	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/utils"
	"gotours/pkg/payment"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBookingRepo struct {
	bookings []*models.Booking
}

func (f *fakeBookingRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Booking, error) {
	return nil, utils.NotFoundError("booking")
}
func (f *fakeBookingRepo) FindMany(_ context.Context, _ bson.M, _ *utils.APIFeatures) ([]*models.Booking, error) {
	return f.bookings, nil
}
func (f *fakeBookingRepo) Count(_ context.Context, _ bson.M, _ *utils.APIFeatures) (int64, error) {
	return int64(len(f.bookings)), nil
}
func (f *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	booking.ID = primitive.NewObjectID()
	f.bookings = append(f.bookings, booking)
	return booking, nil
}
func (f *fakeBookingRepo) UpdateByID(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) (*models.Booking, error) {
	return nil, utils.NotFoundError("booking")
}
func (f *fakeBookingRepo) DeleteByID(_ context.Context, _ primitive.ObjectID) error { return nil }
func (f *fakeBookingRepo) AttachDetails(_ context.Context, _ ...*models.Booking) error {
	return nil
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.User, error) {
	return nil, utils.NotFoundError("user")
}
func (f *fakeUserRepo) FindMany(_ context.Context, _ bson.M, _ *utils.APIFeatures) ([]*models.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Count(_ context.Context, _ bson.M, _ *utils.APIFeatures) (int64, error) {
	return 0, nil
}
func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	return user, nil
}
func (f *fakeUserRepo) UpdateByID(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) (*models.User, error) {
	return nil, utils.NotFoundError("user")
}
func (f *fakeUserRepo) DeleteByID(_ context.Context, _ primitive.ObjectID) error { return nil }
func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, utils.NotFoundError("user")
}
func (f *fakeUserRepo) GetByResetToken(_ context.Context, _ string) (*models.User, error) {
	return nil, utils.NotFoundError("user")
}
func (f *fakeUserRepo) SaveCredentials(_ context.Context, _ *models.User) error { return nil }
func (f *fakeUserRepo) Deactivate(_ context.Context, _ primitive.ObjectID) error {
	return nil
}

type fakeProvider struct {
	event   *payment.WebhookEvent
	err     error
	session *payment.CheckoutSessionResponse
	lastReq *payment.CheckoutSessionRequest
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, request *payment.CheckoutSessionRequest) (*payment.CheckoutSessionResponse, error) {
	f.lastReq = request
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeProvider) ValidateWebhook(_ context.Context, _ []byte, _ string) (*payment.WebhookEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func paymentConfig(allowUnverified bool) *config.PaymentConfig {
	return &config.PaymentConfig{
		Stripe:                  &config.StripeConfig{},
		Currency:                "usd",
		AllowUnverifiedCheckout: allowUnverified,
	}
}

func TestHandleWebhook_RecordsBookingWithCapturedAmount(t *testing.T) {
	tourID := primitive.NewObjectID()
	user := &models.User{ID: primitive.NewObjectID(), Email: "buyer@example.com"}

	bookingRepo := &fakeBookingRepo{}
	provider := &fakeProvider{event: &payment.WebhookEvent{
		EventType:     payment.EventCheckoutCompleted,
		ReferenceID:   tourID.Hex(),
		CustomerEmail: "buyer@example.com",
		AmountTotal:   497,
	}}

	svc := NewBookingService(bookingRepo, &fakeTourRepo{}, &fakeUserRepo{byEmail: map[string]*models.User{user.Email: user}}, provider, paymentConfig(false), testLogger(t))

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if len(bookingRepo.bookings) != 1 {
		t.Fatalf("expected one booking, got %d", len(bookingRepo.bookings))
	}
	booking := bookingRepo.bookings[0]
	if booking.Tour != tourID || booking.User != user.ID {
		t.Fatalf("booking references wrong tour or user")
	}
	if booking.Price != 497 {
		t.Fatalf("expected the gateway-captured amount, got %v", booking.Price)
	}
	if !booking.Paid {
		t.Fatalf("webhook bookings are paid")
	}
}

func TestHandleWebhook_IgnoresOtherEventTypes(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	provider := &fakeProvider{event: &payment.WebhookEvent{EventType: "invoice.paid"}}

	svc := NewBookingService(bookingRepo, &fakeTourRepo{}, &fakeUserRepo{}, provider, paymentConfig(false), testLogger(t))

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("unrelated events must be acknowledged: %v", err)
	}
	if len(bookingRepo.bookings) != 0 {
		t.Fatalf("unrelated events must not create bookings")
	}
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	provider := &fakeProvider{err: errors.New("signature mismatch")}

	svc := NewBookingService(bookingRepo, &fakeTourRepo{}, &fakeUserRepo{}, provider, paymentConfig(false), testLogger(t))

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad"); err == nil {
		t.Fatalf("expected signature failure to surface")
	}
	if len(bookingRepo.bookings) != 0 {
		t.Fatalf("failed verification must not create bookings")
	}
}

func TestCreateUnverifiedBooking_DisabledByDefault(t *testing.T) {
	svc := NewBookingService(&fakeBookingRepo{}, &fakeTourRepo{}, &fakeUserRepo{}, &fakeProvider{}, paymentConfig(false), testLogger(t))

	_, err := svc.CreateUnverifiedBooking(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 100)
	if err == nil {
		t.Fatalf("unverified checkout must be rejected when disabled")
	}
	appErr, ok := utils.IsAppError(err)
	if !ok || appErr.StatusCode != 403 {
		t.Fatalf("expected a 403, got %v", err)
	}
}

func TestCreateUnverifiedBooking_EnabledByConfig(t *testing.T) {
	bookingRepo := &fakeBookingRepo{}
	svc := NewBookingService(bookingRepo, &fakeTourRepo{}, &fakeUserRepo{}, &fakeProvider{}, paymentConfig(true), testLogger(t))

	booking, err := svc.CreateUnverifiedBooking(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 100)
	if err != nil {
		t.Fatalf("CreateUnverifiedBooking: %v", err)
	}
	if booking.Price != 100 || !booking.Paid {
		t.Fatalf("unexpected booking state: %+v", booking)
	}
	if len(bookingRepo.bookings) != 1 {
		t.Fatalf("expected the booking to be persisted")
	}
}

package services

import (
	"context"
	"fmt"

	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"
	"gotours/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	// CreateCheckoutSession opens a hosted payment page for one tour. The
	// booking itself is only written once the gateway confirms payment.
	CreateCheckoutSession(ctx context.Context, user *models.User, tourID primitive.ObjectID, baseURL string) (*payment.CheckoutSessionResponse, error)

	// HandleWebhook verifies the gateway signature and records a paid
	// booking for completed checkout events.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// CreateUnverifiedBooking records a booking straight from redirect
	// query parameters. Disabled unless explicitly configured; anyone who
	// knows the URL shape can forge a booking through it.
	CreateUnverifiedBooking(ctx context.Context, tourID, userID primitive.ObjectID, price float64) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	tourRepo    interfaces.TourRepository
	userRepo    interfaces.UserRepository
	provider    payment.Provider
	config      *config.PaymentConfig
	logger      *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	tourRepo interfaces.TourRepository,
	userRepo interfaces.UserRepository,
	provider payment.Provider,
	cfg *config.PaymentConfig,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
		userRepo:    userRepo,
		provider:    provider,
		config:      cfg,
		logger:      log,
	}
}

func (s *bookingService) CreateCheckoutSession(ctx context.Context, user *models.User, tourID primitive.ObjectID, baseURL string) (*payment.CheckoutSessionResponse, error) {
	tour, err := s.tourRepo.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	request := &payment.CheckoutSessionRequest{
		ReferenceID:   tour.ID.Hex(),
		CustomerEmail: user.Email,
		ProductName:   fmt.Sprintf("%s Tour", tour.Name),
		Description:   tour.Summary,
		ImageURLs:     []string{fmt.Sprintf("%s/img/tours/%s", baseURL, tour.ImageCover)},
		Amount:        tour.Price,
		Currency:      s.config.Currency,
		Quantity:      1,
		SuccessURL:    fmt.Sprintf("%s/my-tours", baseURL),
		CancelURL:     fmt.Sprintf("%s/tour/%s", baseURL, tour.Slug),
	}

	session, err := s.provider.CreateCheckoutSession(ctx, request)
	if err != nil {
		s.logger.WithContext(ctx).WithTourID(tourID).WithError(err).Error("Failed to create checkout session")
		return nil, utils.NewAppError("Could not create a checkout session. Try again later!", 502)
	}

	s.logger.WithContext(ctx).WithUserID(user.ID).WithTourID(tourID).Info("Checkout session created")
	return session, nil
}

func (s *bookingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ValidateWebhook(ctx, payload, signature)
	if err != nil {
		return utils.ValidationError(fmt.Sprintf("Webhook error: %v", err))
	}

	// Other event types are acknowledged without side effects so the
	// gateway stops retrying them.
	if event.EventType != payment.EventCheckoutCompleted {
		return nil
	}

	tourID, err := primitive.ObjectIDFromHex(event.ReferenceID)
	if err != nil {
		return utils.ValidationError("Webhook error: invalid tour reference")
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(event.CustomerEmail))
	if err != nil {
		return utils.ValidationError("Webhook error: unknown customer")
	}

	booking := &models.Booking{
		Tour:  tourID,
		User:  user.ID,
		Price: event.AmountTotal,
	}
	booking.PrepareForCreate()
	if err := booking.Validate(); err != nil {
		return err
	}

	if _, err := s.bookingRepo.Create(ctx, booking); err != nil {
		return err
	}

	s.logger.WithContext(ctx).WithUserID(user.ID).WithTourID(tourID).Info("Booking recorded from webhook")
	return nil
}

func (s *bookingService) CreateUnverifiedBooking(ctx context.Context, tourID, userID primitive.ObjectID, price float64) (*models.Booking, error) {
	if !s.config.AllowUnverifiedCheckout {
		return nil, utils.ForbiddenError("Unverified checkout is disabled")
	}

	booking := &models.Booking{
		Tour:  tourID,
		User:  userID,
		Price: price,
	}
	booking.PrepareForCreate()
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithUserID(userID).WithTourID(tourID).Warn("Unverified booking recorded")
	return created, nil
}

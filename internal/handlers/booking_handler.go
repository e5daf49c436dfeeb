package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/services"
	"gotours/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingHandler struct {
	crudHandlers[models.Booking]
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService, bookingRepo interfaces.BookingRepository) *BookingHandler {
	h := &BookingHandler{
		bookingService: bookingService,
	}
	h.crudHandlers = crudHandlers[models.Booking]{
		repo:     bookingRepo,
		resource: "booking",
		prepare: func(c *gin.Context, booking *models.Booking) error {
			booking.PrepareForCreate()
			return booking.Validate()
		},
		expand: func(ctx context.Context, bookings ...*models.Booking) error {
			return bookingRepo.AttachDetails(ctx, bookings...)
		},
		sanitize: models.SanitizeBookingUpdate,
	}
	return h
}

// GetCheckoutSession opens a hosted payment session for the tour in the
// path. The response carries the session id and redirect URL.
func (h *BookingHandler) GetCheckoutSession(c *gin.Context) {
	tourID, err := objectIDParam(c, "tourId")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	session, err := h.bookingService.CreateCheckoutSession(c.Request.Context(), user, tourID, baseURL(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"session": session})
}

// Webhook receives gateway events. The raw body is needed verbatim for
// signature verification, so this route must bypass any body rewriting.
func (h *BookingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Could not read webhook payload"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.bookingService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// CreateFromRedirect records a booking from success-redirect query
// parameters (?tour=...&user=...&price=...). It only works when unverified
// checkout is explicitly enabled.
func (h *BookingHandler) CreateFromRedirect(c *gin.Context) {
	tourID, err := primitive.ObjectIDFromHex(c.Query("tour"))
	if err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid tour ID"))
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Query("user"))
	if err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid user ID"))
		return
	}
	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid price"))
		return
	}

	booking, err := h.bookingService.CreateUnverifiedBooking(c.Request.Context(), tourID, userID, price)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"data": booking})
}

// MyBookings scopes the generic list to the session user.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	features := utils.NewAPIFeatures(c.Request.URL.Query()).
		Filter().
		Sort().
		LimitFields().
		Paginate()
	if err := features.Err(); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	bookings, err := h.repo.FindMany(c.Request.Context(), bson.M{"user": user.ID}, features)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if err := h.expand(c.Request.Context(), bookings...); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.SuccessListResponse(c, len(bookings), gin.H{"data": bookings})
}

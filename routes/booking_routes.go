package routes

import (
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupWebhookRoutes registers the gateway callback. It is unauthenticated
// (the signature header is the authentication) and must stay outside the
// request body size limit.
func SetupWebhookRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	r.POST("/webhooks/checkout", bookingHandler.Webhook)
}

func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, authService services.AuthService) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.Protect(authService))
	{
		bookings.GET("/checkout-session/:tourId", bookingHandler.GetCheckoutSession)
		bookings.GET("/my-bookings", bookingHandler.MyBookings)

		// Redirect-based booking creation, disabled unless configured.
		bookings.POST("/from-redirect", bookingHandler.CreateFromRedirect)

		admin := bookings.Group("")
		admin.Use(middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide))
		{
			admin.GET("", bookingHandler.GetAll)
			admin.GET("/:id", bookingHandler.GetOne)
			admin.POST("", bookingHandler.CreateOne)
			admin.PATCH("/:id", bookingHandler.UpdateOne)
			admin.DELETE("/:id", bookingHandler.DeleteOne)
		}
	}
}

package routes

import (
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupTourRoutes wires the tour endpoints, including the nested review
// routes under /tours/:tourId/reviews.
func SetupTourRoutes(r *gin.RouterGroup, tourHandler *handlers.TourHandler, reviewHandler *handlers.ReviewHandler, authService services.AuthService) {
	// Public reads carry an optional session so responses can be
	// personalized when a valid token happens to be present.
	optional := middleware.OptionalAuth(authService)

	tours := r.Group("/tours")
	{
		tours.GET("/top-5-cheap", optional, tourHandler.AliasTopCheap, tourHandler.GetAll)
		tours.GET("/tour-stats", tourHandler.GetStats)
		tours.GET("/monthly-plan/:year",
			middleware.Protect(authService),
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide),
			tourHandler.GetMonthlyPlan,
		)

		tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", tourHandler.GetToursWithin)
		tours.GET("/distances/:latlng/unit/:unit", tourHandler.GetDistances)

		tours.GET("", optional, tourHandler.GetAll)
		tours.GET("/slug/:slug", optional, tourHandler.GetBySlug)
		tours.GET("/:id", optional, tourHandler.GetOne)

		tours.POST("",
			middleware.Protect(authService),
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide),
			tourHandler.CreateOne,
		)
		tours.PATCH("/:id",
			middleware.Protect(authService),
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide),
			tourHandler.UpdateOne,
		)
		tours.PATCH("/:id/images",
			middleware.Protect(authService),
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide),
			tourHandler.UploadImages,
		)
		tours.DELETE("/:id",
			middleware.Protect(authService),
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide),
			tourHandler.DeleteOne,
		)

		// Nested reviews: list is public, creation needs a customer session.
		tours.GET("/:id/reviews", reviewHandler.GetAll)
		tours.POST("/:id/reviews",
			middleware.Protect(authService),
			middleware.RestrictTo(models.RoleUser),
			reviewHandler.CreateOne,
		)
	}
}

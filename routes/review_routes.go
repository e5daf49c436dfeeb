package routes

import (
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupReviewRoutes(r *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, authService services.AuthService) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.Protect(authService))
	{
		reviews.GET("", reviewHandler.GetAll)
		reviews.GET("/:id", reviewHandler.GetOne)
		reviews.POST("", middleware.RestrictTo(models.RoleUser), reviewHandler.CreateOne)
		reviews.PATCH("/:id", middleware.RestrictTo(models.RoleUser, models.RoleAdmin), reviewHandler.UpdateOne)
		reviews.DELETE("/:id", middleware.RestrictTo(models.RoleUser, models.RoleAdmin), reviewHandler.DeleteOne)
	}
}

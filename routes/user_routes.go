package routes

import (
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler, authHandler *handlers.AuthHandler, authService services.AuthService) {
	users := r.Group("/users")
	{
		// Public authentication endpoints
		users.POST("/signup", authHandler.Signup)
		users.POST("/login", authHandler.Login)
		users.GET("/logout", authHandler.Logout)
		users.POST("/forgot-password", authHandler.ForgotPassword)
		users.PATCH("/reset-password/:token", authHandler.ResetPassword)

		// Everything below needs a session
		authed := users.Group("")
		authed.Use(middleware.Protect(authService))
		{
			authed.PATCH("/update-my-password", authHandler.UpdatePassword)
			authed.GET("/me", userHandler.GetMe)
			authed.PATCH("/update-me", userHandler.UpdateMe)
			authed.DELETE("/delete-me", userHandler.DeleteMe)

			// Admin-only account management
			admin := authed.Group("")
			admin.Use(middleware.RestrictTo(models.RoleAdmin))
			{
				admin.GET("", userHandler.GetAll)
				admin.GET("/:id", userHandler.GetOne)
				admin.PATCH("/:id", userHandler.UpdateOne)
				admin.DELETE("/:id", userHandler.DeleteOne)
			}
		}
	}
}

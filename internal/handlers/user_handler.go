package handlers

import (
	"mime/multipart"
	"strings"

	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/services"
	"gotours/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	crudHandlers[models.User]
	userService services.UserService
}

func NewUserHandler(userService services.UserService, userRepo interfaces.UserRepository) *UserHandler {
	h := &UserHandler{
		userService: userService,
	}
	h.crudHandlers = crudHandlers[models.User]{
		repo:     userRepo,
		resource: "user",
		sanitize: models.SanitizeUserUpdate,
	}
	return h
}

// CreateOne is intentionally not routed: accounts only come from signup.
// The admin routes reuse the generic handlers for everything else.

// GetMe rewrites the id param to the session user so the generic GetOne
// can serve the profile route.
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: user.ID.Hex()})
	h.GetOne(c)
}

// UpdateMe handles self-service profile updates, JSON or multipart with a
// photo field.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	body := map[string]interface{}{}
	var photo *multipart.FileHeader

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			middleware.AbortWithError(c, utils.ValidationError("Invalid multipart form"))
			return
		}
		for key, values := range form.Value {
			if len(values) > 0 {
				body[key] = values[0]
			}
		}
		photo = firstFile(form.File["photo"])
	} else if err := c.ShouldBindJSON(&body); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	updated, err := h.userService.UpdateMe(c.Request.Context(), user.ID, body, photo)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": updated})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.userService.DeleteMe(c.Request.Context(), user.ID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

package handlers

import (
	"net/http"

	"gotours/internal/config"
	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/services"
	"gotours/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  services.AuthService
	emailService services.EmailService
	security     *config.SecurityConfig
	production   bool
}

func NewAuthHandler(authService services.AuthService, emailService services.EmailService, security *config.SecurityConfig, production bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		security:     security,
		production:   production,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var request services.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), &request)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	// Welcome mail is best effort; the signup already succeeded.
	_ = h.emailService.SendWelcome(c.Request.Context(), user, baseURL(c)+"/me")

	h.sendToken(c, http.StatusCreated, token, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, token, user)
}

// Logout overwrites the session cookie with a short-lived sentinel value.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(
		utils.SessionCookieName,
		utils.LogoutCookieValue,
		int(utils.LogoutCookieExpiry.Seconds()),
		"/",
		"",
		h.production,
		true,
	)
	c.JSON(http.StatusOK, utils.APIResponse{Status: utils.StatusSuccess})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	resetURLBase := baseURL(c) + "/api/v1/users/reset-password"
	if err := h.authService.ForgotPassword(c.Request.Context(), request.Email, resetURLBase); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.MessageResponse(c, "Token sent to email!")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var request services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}
	request.Token = c.Param("token")

	user, token, err := h.authService.ResetPassword(c.Request.Context(), &request)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, token, user)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var request services.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	updated, token, err := h.authService.UpdatePassword(c.Request.Context(), user.ID, &request)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, token, updated)
}

// sendToken writes the session cookie and the token-bearing envelope.
func (h *AuthHandler) sendToken(c *gin.Context, statusCode int, token string, user *models.User) {
	c.SetCookie(
		utils.SessionCookieName,
		token,
		int(h.security.CookieExpiry.Seconds()),
		"/",
		"",
		h.production,
		true,
	)
	utils.TokenResponse(c, statusCode, token, gin.H{"user": user})
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

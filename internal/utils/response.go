package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope for every JSON response:
// {status: "success"|"fail"|"error", data: {...}}, with a results count on
// list endpoints.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status: StatusSuccess,
		Data:   data,
	})
}

func SuccessListResponse(c *gin.Context, results int, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  StatusSuccess,
		Results: &results,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status: StatusSuccess,
		Data:   data,
	})
}

// NoContentResponse ends the request with a bodyless 204.
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  StatusSuccess,
		Message: message,
	})
}

// TokenResponse is used on signup, login and password resets: the credential
// travels both in the body and in the session cookie set by the caller.
func TokenResponse(c *gin.Context, statusCode int, token string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Status: StatusSuccess,
		Token:  token,
		Data:   data,
	})
}

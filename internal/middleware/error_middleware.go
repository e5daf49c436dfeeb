package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"gotours/internal/utils"
	"gotours/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AbortWithError stops the handler chain and hands the error to the
// ErrorHandler middleware for rendering.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders every error pushed onto the context as the JSON
// error envelope. Operational errors keep their message; anything else
// becomes a generic 500 in production while development responses carry
// the error detail and stack.
func ErrorHandler(log *logger.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				log.WithContext(c.Request.Context()).WithError(err).
					WithField("stack", string(debug.Stack())).
					Error("Recovered from panic")
				renderError(c, err, production)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := utils.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
			log.WithContext(c.Request.Context()).WithError(err).
				WithField("path", c.Request.URL.Path).
				Warn("Request failed")
		} else {
			log.WithContext(c.Request.Context()).WithError(err).
				WithField("path", c.Request.URL.Path).
				Error("Request failed")
		}
		renderError(c, err, production)
	}
}

func renderError(c *gin.Context, err error, production bool) {
	if c.Writer.Written() {
		return
	}

	appErr, ok := utils.IsAppError(err)
	if !ok {
		appErr = utils.NewAppError("Something went very wrong!", http.StatusInternalServerError)
		appErr.Err = err
	}

	response := utils.APIResponse{
		Status:  appErr.Status(),
		Message: appErr.Message,
	}
	if !production {
		if appErr.Err != nil {
			response.Error = appErr.Err.Error()
		}
		response.Stack = string(debug.Stack())
	}

	c.JSON(appErr.StatusCode, response)
}

// NotFoundHandler answers routes that match nothing.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.APIResponse{
			Status:  utils.StatusFail,
			Message: fmt.Sprintf("Can't find %s on this server!", c.Request.URL.Path),
		})
	}
}
